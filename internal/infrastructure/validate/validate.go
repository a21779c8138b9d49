// package validate
package validate

import (
	"fmt"
	"strings"
	"unicode"
)

// Validator is a function that validates a string and returns an error if invalid
type Validator func(value string) error

// Field creates a labeled validator with a custom name for better error messages
func Field(name string, validators ...Validator) Validator {
	composed := Compose(validators...)
	return func(value string) error {
		if err := composed(value); err != nil {
			if !strings.Contains(err.Error(), name) {
				return fmt.Errorf("%s: %w", name, err)
			}
			return err
		}
		return nil
	}
}

// Compose chains multiple validators, first error wins
func Compose(validators ...Validator) Validator {
	return func(value string) error {
		for _, v := range validators {
			if err := v(value); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required ensures the field is not empty
func Required() Validator {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("this field is required")
		}
		return nil
	}
}

// Length checks exact length in runes
func Length(exact int) Validator {
	return func(v string) error {
		if len([]rune(v)) != exact {
			return fmt.Errorf("must be exactly %d characters", exact)
		}
		return nil
	}
}

// Letters ensures the string contains only letters
func Letters() Validator {
	return func(v string) error {
		for _, r := range v {
			if !unicode.IsLetter(r) {
				return fmt.Errorf("must contain only letters")
			}
		}
		return nil
	}
}

// OneOf checks if value is in allowed list
func OneOf(allowed ...string) Validator {
	set := make(map[string]bool)
	for _, a := range allowed {
		set[a] = true
	}
	return func(v string) error {
		if !set[v] {
			return fmt.Errorf("must be one of: %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}

package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

const (
	// CodeLength is the number of letters in a room code.
	CodeLength = 6

	// MaxHostLength caps the host display name.
	MaxHostLength = 25

	// DefaultLifetime is how long a freshly created room stays listed.
	DefaultLifetime = 4 * time.Hour

	// ExtensionStep is the increment added by a single extend action.
	ExtensionStep = time.Hour
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrDuplicateCode      = errors.New("room code already in use")
	ErrOwnerHasActiveRoom = errors.New("owner already has an active room")
	ErrInvalidCode        = errors.New("room code must be six letters")
	ErrHostTooLong        = errors.New("host name too long")
	ErrUnknownMap         = errors.New("unknown map")
	ErrUnknownMode        = errors.New("unknown mode")
)

// Room is one live listing. Rooms are created only by a completed
// conversation flow and owned exclusively by the registry.
type Room struct {
	Code      string    `json:"code"`
	Host      string    `json:"host"`
	Map       string    `json:"map"`
	Mode      string    `json:"mode"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Remaining reports the lifetime left at the given instant. Never negative.
func (r Room) Remaining(now time.Time) time.Duration {
	d := r.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// NormalizeCode uppercases candidate room codes before validation, so
// "abcdef" and "ABCDEF" name the same room.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateCode checks the normalized form: exactly length letters. Pass
// CodeLength unless the deployment overrides it.
func ValidateCode(code string, length int) error {
	runes := []rune(code)
	if len(runes) != length {
		return ErrInvalidCode
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return ErrInvalidCode
		}
	}
	return nil
}

// ValidateHost checks a host display name against the length cap.
func ValidateHost(host string, maxLength int) error {
	if len([]rune(host)) > maxLength {
		return ErrHostTooLong
	}
	return nil
}

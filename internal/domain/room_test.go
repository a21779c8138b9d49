package domain

import (
	"testing"
	"time"
)

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"abcdef", "ABCDEF"},
		{"  AbCdEf  ", "ABCDEF"},
		{"ABCDEF", "ABCDEF"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeCode(tc.in); got != tc.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateCode(t *testing.T) {
	t.Run("accepts six letters", func(t *testing.T) {
		if err := ValidateCode("ABCDEF", CodeLength); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("accepts non-latin letters", func(t *testing.T) {
		if err := ValidateCode("АБВГДЕ", CodeLength); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		for _, code := range []string{"", "ABC", "ABCDEFG"} {
			if err := ValidateCode(code, CodeLength); err != ErrInvalidCode {
				t.Errorf("ValidateCode(%q) = %v, want ErrInvalidCode", code, err)
			}
		}
	})

	t.Run("rejects digits and symbols", func(t *testing.T) {
		for _, code := range []string{"ABC123", "ABC-EF", "AB CDE"} {
			if err := ValidateCode(code, CodeLength); err != ErrInvalidCode {
				t.Errorf("ValidateCode(%q) = %v, want ErrInvalidCode", code, err)
			}
		}
	})

	t.Run("honors custom length", func(t *testing.T) {
		if err := ValidateCode("ABCD", 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := ValidateCode("ABCDEF", 4); err != ErrInvalidCode {
			t.Fatalf("got %v, want ErrInvalidCode", err)
		}
	})
}

func TestValidateHost(t *testing.T) {
	if err := ValidateHost("Max", MaxHostLength); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	long := make([]rune, MaxHostLength+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := ValidateHost(string(long), MaxHostLength); err != ErrHostTooLong {
		t.Fatalf("got %v, want ErrHostTooLong", err)
	}

	// Length is counted in runes, not bytes.
	cyrillic := "Владимир Александрович Пё" // 25 runes
	if err := ValidateHost(cyrillic, MaxHostLength); err != nil {
		t.Fatalf("25-rune name rejected: %v", err)
	}
}

func TestRoomRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	room := Room{ExpiresAt: now.Add(time.Hour)}

	if got := room.Remaining(now); got != time.Hour {
		t.Fatalf("Remaining = %v, want 1h", got)
	}
	if got := room.Remaining(now.Add(2 * time.Hour)); got != 0 {
		t.Fatalf("Remaining past deadline = %v, want 0", got)
	}
}

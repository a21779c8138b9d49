package validate

import (
	"strings"
	"testing"
)

func TestRequired(t *testing.T) {
	v := Required()
	if err := v("value"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, empty := range []string{"", "   ", "\t"} {
		if err := v(empty); err == nil {
			t.Errorf("Required()(%q) should fail", empty)
		}
	}
}

func TestLengthCountsRunes(t *testing.T) {
	v := Length(6)
	if err := v("ABCDEF"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v("АБВГДЕ"); err != nil {
		t.Fatalf("cyrillic six letters rejected: %v", err)
	}
	if err := v("ABCDE"); err == nil {
		t.Fatal("five characters should fail")
	}
}

func TestLetters(t *testing.T) {
	v := Letters()
	if err := v("abcDEF"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"abc123", "ab-def", "a b"} {
		if err := v(bad); err == nil {
			t.Errorf("Letters()(%q) should fail", bad)
		}
	}
}

func TestOneOf(t *testing.T) {
	v := OneOf("delete", "extend", "duplicate")
	if err := v("extend"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v("explode"); err == nil {
		t.Fatal("value outside the list should fail")
	}
}

func TestFieldPrefixesErrors(t *testing.T) {
	v := Field("code", Required(), Length(6))
	err := v("ABC")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "code:") {
		t.Fatalf("error %q should carry the field name", err)
	}
}

func TestComposeStopsAtFirstError(t *testing.T) {
	calls := 0
	spy := func(string) error { calls++; return nil }

	v := Compose(Validator(spy), Length(6), Validator(spy))
	if err := v("ABC"); err == nil {
		t.Fatal("expected error from Length")
	}
	if calls != 1 {
		t.Fatalf("validators called %d times after failure, want 1", calls)
	}
}

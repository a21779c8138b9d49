package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})

	for i := 0; i < 3; i++ {
		if !rl.Allow("client") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("client") {
		t.Fatal("burst exhausted, request should be denied")
	}
}

func TestSourcesAreIndependent(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 1})

	if !rl.Allow("a") {
		t.Fatal("first source should be allowed")
	}
	if !rl.Allow("b") {
		t.Fatal("second source should have its own bucket")
	}
	if rl.Allow("a") {
		t.Fatal("first source should be exhausted")
	}
}

func TestRefill(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 100, MaxBurst: 1})

	if !rl.Allow("client") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("client") {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("client") {
		t.Fatal("bucket should have refilled")
	}
}

func TestRemaining(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 5})

	if got := rl.Remaining("client"); got != 5 {
		t.Fatalf("fresh Remaining = %d, want 5", got)
	}
	rl.Allow("client")
	rl.Allow("client")
	if got := rl.Remaining("client"); got != 3 {
		t.Fatalf("Remaining = %d, want 3", got)
	}
}

func TestGetSourceKey(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Client-ID"})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Client-ID", "abc")
	if got := rl.GetSourceKey(r); got != "abc" {
		t.Fatalf("GetSourceKey = %q, want header value", got)
	}

	r = httptest.NewRequest("GET", "/", nil)
	if got := rl.GetSourceKey(r); got != r.RemoteAddr {
		t.Fatalf("GetSourceKey = %q, want remote addr fallback", got)
	}
}

func TestDefaults(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 7})
	if got := rl.GetMaxBurst(); got != 7 {
		t.Fatalf("default burst = %d, want rate", got)
	}
}

package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("key-1", 3, time.Minute) {
			t.Fatalf("expected request %d within limit to be allowed", i)
		}
	}
	if limiter.Allow("key-1", 3, time.Minute) {
		t.Fatal("expected request over limit to be denied")
	}
	if !limiter.Allow("key-2", 3, time.Minute) {
		t.Fatal("expected independent key to be allowed")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter()

	if !limiter.Allow("key-1", 1, 10*time.Millisecond) {
		t.Fatal("expected first request to be allowed")
	}
	if limiter.Allow("key-1", 1, 10*time.Millisecond) {
		t.Fatal("expected second request in window to be denied")
	}
	time.Sleep(15 * time.Millisecond)
	if !limiter.Allow("key-1", 1, 10*time.Millisecond) {
		t.Fatal("expected request after window reset to be allowed")
	}
}

package contextx

import (
	"context"
	"testing"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "req-42")
	if got := GetRequestID(ctx); got != "req-42" {
		t.Errorf("GetRequestID = %q, want req-42", got)
	}
}

func TestIPDefaults(t *testing.T) {
	ctx := context.Background()

	if got := GetIP(ctx); got != "0.0.0.0" {
		t.Errorf("GetIP(empty) = %q, want 0.0.0.0", got)
	}

	ctx = WithIP(ctx, "10.1.2.3")
	if got := GetIP(ctx); got != "10.1.2.3" {
		t.Errorf("GetIP = %q, want 10.1.2.3", got)
	}
}

func TestUserAgentDefaults(t *testing.T) {
	ctx := context.Background()

	if got := GetUserAgent(ctx); got != "Unknown" {
		t.Errorf("GetUserAgent(empty) = %q, want Unknown", got)
	}

	ctx = WithUserAgent(ctx, "curl/8.0")
	if got := GetUserAgent(ctx); got != "curl/8.0" {
		t.Errorf("GetUserAgent = %q, want curl/8.0", got)
	}
}

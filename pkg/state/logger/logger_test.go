package logger

import (
	"log/slog"
	"testing"
)

func TestMaskedValue(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"ab":        "<redacted>",
		"abcdef":    "a*****f",
		"tok-12345": "t*****5",
	}
	for in, want := range cases {
		if got := maskedValue(in); got != want {
			t.Fatalf("maskedValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRedactOnlySensitiveHeaders(t *testing.T) {
	if got := redactHeaderValue("Token", "secret-token"); got != "s*****n" {
		t.Fatalf("token header not masked: %q", got)
	}
	if got := redactHeaderValue("Content-Type", "application/json"); got != "application/json" {
		t.Fatalf("content type should pass through, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != slog.LevelDebug {
		t.Fatalf("expected debug")
	}
	if ParseLevel("warning") != slog.LevelWarn {
		t.Fatalf("expected warn")
	}
	if ParseLevel("bogus") != slog.LevelInfo {
		t.Fatalf("expected info fallback")
	}
}

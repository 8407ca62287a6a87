package main

import (
	"testing"
	"time"

	"github.com/gavioto/sysdb/internal/logging"
)

func TestParseDuration(t *testing.T) {
	logger := logging.Discard()

	tests := []struct {
		name   string
		in     string
		expect time.Duration
	}{
		{"empty falls back to zero", "", 0},
		{"valid duration", "30s", 30 * time.Second},
		{"malformed falls back to zero", "not-a-duration", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDuration(logger, "interval", "example::plugin", tt.in)
			if got != tt.expect {
				t.Fatalf("parseDuration(%q) = %v, want %v", tt.in, got, tt.expect)
			}
		})
	}
}

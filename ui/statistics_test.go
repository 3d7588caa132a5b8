package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/markotdel/adguardvpn-gui/stats"
)

func TestShortDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{3 * time.Second, "3s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{-time.Second, "0s"},
	}
	for _, tt := range tests {
		if got := shortDuration(tt.in); got != tt.expected {
			t.Errorf("shortDuration(%v) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestSessionSummary(t *testing.T) {
	start := time.Date(2026, 8, 23, 10, 0, 0, 0, time.Local)

	closed := stats.Session{
		Location:  "Frankfurt",
		StartedAt: start,
		EndedAt:   start.Add(45 * time.Minute),
		RX:        2048,
		TX:        1024,
	}
	got := sessionSummary(closed)
	for _, want := range []string{"Aug 23 10:00", "45m 0s", "2.00 KB", "1.00 KB"} {
		if !strings.Contains(got, want) {
			t.Errorf("sessionSummary() = %q, missing %q", got, want)
		}
	}

	open := stats.Session{Location: "Tallinn", StartedAt: start}
	if !strings.Contains(sessionSummary(open), "active") {
		t.Errorf("open session should render as active, got %q", sessionSummary(open))
	}
}

package ui

import "testing"

func TestComboIndex(t *testing.T) {
	tests := []struct {
		value    string
		values   []string
		expected int
	}{
		{"TUN", modeValues, 0},
		{"SOCKS", modeValues, 1},
		{"auto", protocolValues, 0},
		{"HTTP2", protocolValues, 1},
		{"QUIC", protocolValues, 2},
		{"release", channelValues, 0},
		{"Beta channel", channelValues, 1},
		{"nightly", channelValues, 2},
		{"", modeValues, 0},
		{"unknown", channelValues, 0},
	}
	for _, tt := range tests {
		if got := comboIndex(tt.value, tt.values); got != tt.expected {
			t.Errorf("comboIndex(%q) = %d, want %d", tt.value, got, tt.expected)
		}
	}
}

func TestLicenseSummary(t *testing.T) {
	out := "\n\nSubscription valid until 2027-01-01\nDevices: 3 of 5\n"
	if got := licenseSummary(out); got != "Subscription valid until 2027-01-01" {
		t.Errorf("licenseSummary() = %q", got)
	}
	if got := licenseSummary("  \n "); got != "No license information" {
		t.Errorf("licenseSummary(blank) = %q", got)
	}
}

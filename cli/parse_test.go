package cli

import (
	"reflect"
	"testing"
)

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Connected to Frankfurt", "Connected to Frankfurt"},
		{"ansi colors", "\x1b[32mConnected\x1b[0m to Frankfurt", "Connected to Frankfurt"},
		{"cursor movement", "\x1b[2K\x1b[1GDisconnected", "Disconnected"},
		{"control chars", "status\x07\x08 ok", "status ok"},
		{"keeps newlines and tabs", "a\n\tb", "a\n\tb"},
		{"trims whitespace", "  done  \n", "done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanOutput(tt.in); got != tt.expected {
				t.Errorf("CleanOutput(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected Status
	}{
		{
			"connected full",
			"Connected to Frankfurt in TUN mode, running on tun0",
			Status{Connected: true, Location: "Frankfurt", Mode: "TUN", Iface: "tun0"},
		},
		{
			"connected socks",
			"Connected to New York in SOCKS mode",
			Status{Connected: true, Location: "New York", Mode: "SOCKS"},
		},
		{
			"connected no mode",
			"Connected to Tallinn",
			Status{Connected: true, Location: "Tallinn"},
		},
		{
			"connected truncated",
			"Connected to",
			Status{Connected: true},
		},
		{
			"connected lowercase truncated",
			"  connected to  ",
			Status{Connected: true},
		},
		{"disconnected", "VPN is disconnected", Status{}},
		{"empty", "", Status{}},
		{"garbage", "something unexpected", Status{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseStatus(tt.in); got != tt.expected {
				t.Errorf("ParseStatus(%q) = %+v, want %+v", tt.in, got, tt.expected)
			}
		})
	}
}

func TestParseLocations(t *testing.T) {
	transcript := `Getting the list of locations...
ISO     COUNTRY          CITY            PING
DE      Germany          Frankfurt       32
US      United States    New York        110
GB      United Kingdom   London          45
You can connect to any location with 'adguardvpn-cli connect -l CITY'
`
	got := ParseLocations(transcript)
	want := []Location{
		{"DE", "Germany", "Frankfurt", 32},
		{"US", "United States", "New York", 110},
		{"GB", "United Kingdom", "London", 45},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseLocations() = %+v, want %+v", got, want)
	}
}

func TestParseLocations_Empty(t *testing.T) {
	if got := ParseLocations(""); got != nil {
		t.Errorf("ParseLocations(\"\") = %+v, want nil", got)
	}
	// No header means no rows, whatever the content looks like.
	if got := ParseLocations("DE  Germany  Frankfurt  32"); got != nil {
		t.Errorf("ParseLocations without header = %+v, want nil", got)
	}
}

func TestParseConfig(t *testing.T) {
	transcript := `Current configuration:
Mode: TUN
DNS upstream: default
Change system DNS: off
Protocol: auto
Show notifications: on
`
	cfg := ParseConfig(transcript)

	if cfg["mode"] != "TUN" {
		t.Errorf("mode = %q, want TUN", cfg["mode"])
	}
	if cfg["dns upstream"] != "default" {
		t.Errorf("dns upstream = %q, want default", cfg["dns upstream"])
	}
	if cfg["show notifications"] != "on" {
		t.Errorf("show notifications = %q, want on", cfg["show notifications"])
	}
	if _, ok := cfg["current configuration"]; ok {
		t.Error("header line should be skipped")
	}
}

func TestParseExclusions(t *testing.T) {
	transcript := `Exclusions for GENERAL mode:
example.com
youtube.com
`
	got := ParseExclusions(transcript)
	want := []string{"example.com", "youtube.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseExclusions() = %v, want %v", got, want)
	}
}

func TestParseExclusionMode(t *testing.T) {
	if got := ParseExclusionMode("Current mode: SELECTIVE"); got != "SELECTIVE" {
		t.Errorf("ParseExclusionMode = %q, want SELECTIVE", got)
	}
	if got := ParseExclusionMode("Current mode: GENERAL"); got != "GENERAL" {
		t.Errorf("ParseExclusionMode = %q, want GENERAL", got)
	}
	if got := ParseExclusionMode(""); got != "GENERAL" {
		t.Errorf("ParseExclusionMode empty = %q, want GENERAL", got)
	}
}

func TestOnOff(t *testing.T) {
	if OnOff(true) != "on" || OnOff(false) != "off" {
		t.Error("OnOff should map true->on, false->off")
	}
}

func TestBoolOn(t *testing.T) {
	for _, v := range []string{"on", "ON", " true ", "yes", "enabled"} {
		if !BoolOn(v) {
			t.Errorf("BoolOn(%q) should be true", v)
		}
	}
	for _, v := range []string{"off", "false", "no", "", "default"} {
		if BoolOn(v) {
			t.Errorf("BoolOn(%q) should be false", v)
		}
	}
}

package cli

import (
	"regexp"
	"strconv"
	"strings"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// CleanOutput strips ANSI escape sequences and non-printable control
// characters from CLI output. Newlines and tabs are preserved.
func CleanOutput(s string) string {
	if s == "" {
		return ""
	}
	s = ansiRe.ReplaceAllString(s, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\t' || ch >= 32 {
			b.WriteRune(ch)
		}
	}
	return strings.TrimSpace(b.String())
}

// Status is the tunnel state reported by `adguardvpn-cli status`.
type Status struct {
	Connected bool
	Location  string
	Mode      string
	Iface     string
}

// ParseStatus interprets the human-readable status output, e.g.
//
//	Connected to Frankfurt in TUN mode, running on tun0
//
// Anything that is not recognizably connected parses as disconnected.
func ParseStatus(text string) Status {
	t := strings.TrimSpace(text)
	if t == "" {
		return Status{}
	}

	lower := strings.ToLower(t)
	if !strings.HasPrefix(lower, "connected to") {
		return Status{}
	}

	st := Status{Connected: true}

	rest := strings.TrimSpace(t[len("connected to"):])
	if idx := strings.Index(rest, " in "); idx >= 0 {
		st.Location = strings.TrimSpace(rest[:idx])
		after := rest[idx+len(" in "):]
		if m := strings.Index(after, " mode"); m >= 0 {
			st.Mode = strings.ToUpper(strings.TrimSpace(after[:m]))
		}
	} else {
		st.Location = strings.TrimSpace(rest)
	}

	if idx := strings.Index(t, "running on "); idx >= 0 {
		st.Iface = strings.TrimSpace(t[idx+len("running on "):])
	}

	return st
}

// Location is one row of the `adguardvpn-cli list-locations` table.
type Location struct {
	ISO     string
	Country string
	City    string
	Ping    int
}

// locationRe matches a table row: ISO, country and city separated by two
// or more spaces, ping in the last column.
var locationRe = regexp.MustCompile(`^(\S+)\s+(.+?)\s{2,}(.+?)\s{2,}(\d+)$`)

// ParseLocations extracts location rows from the list-locations table.
// Rows before the "ISO" header and after the "You can connect" footer are
// ignored.
func ParseLocations(text string) []Location {
	var rows []Location
	started := false
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimRight(ln, " \t")
		if strings.TrimSpace(ln) == "" {
			continue
		}
		if strings.HasPrefix(ln, "ISO") {
			started = true
			continue
		}
		if !started {
			continue
		}
		if strings.HasPrefix(ln, "You can connect") {
			break
		}
		m := locationRe.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		ping, err := strconv.Atoi(m[4])
		if err != nil {
			continue
		}
		rows = append(rows, Location{
			ISO:     m[1],
			Country: strings.TrimSpace(m[2]),
			City:    strings.TrimSpace(m[3]),
			Ping:    ping,
		})
	}
	return rows
}

// ParseConfig turns `adguardvpn-cli config show` output into a map with
// lowercased keys, e.g. "dns upstream" -> "default".
func ParseConfig(text string) map[string]string {
	cfg := make(map[string]string)
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "Current configuration") {
			continue
		}
		k, v, ok := strings.Cut(ln, ":")
		if !ok {
			continue
		}
		cfg[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return cfg
}

// ParseExclusions extracts domains from `site-exclusions show` output,
// skipping the "Exclusions for ..." header.
func ParseExclusions(text string) []string {
	var domains []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(strings.ToLower(ln), "exclusions for") {
			continue
		}
		domains = append(domains, ln)
	}
	return domains
}

// ParseExclusionMode extracts GENERAL or SELECTIVE from the
// `site-exclusions mode` output, defaulting to GENERAL.
func ParseExclusionMode(text string) string {
	if strings.Contains(text, "SELECTIVE") {
		return "SELECTIVE"
	}
	return "GENERAL"
}

// OnOff converts a boolean to the on/off token the CLI expects.
func OnOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// BoolOn reports whether a config value means enabled.
func BoolOn(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "yes", "enabled":
		return true
	}
	return false
}

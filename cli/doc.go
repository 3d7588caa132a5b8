// Package cli wraps the external adguardvpn-cli binary.
//
// The GUI never talks to the VPN tunnel itself; every operation shells out
// to adguardvpn-cli and interprets its human-readable output. This package
// owns process execution (with per-subcommand timeouts), ANSI/control
// character scrubbing, and the parsers for the status, location and
// configuration listings.
//
// Command execution is injectable so the parsers and callers can be tested
// against recorded CLI transcripts without the binary installed.
package cli

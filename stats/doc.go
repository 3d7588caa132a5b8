// Package stats tracks VPN traffic. It samples the tunnel interface byte
// counters exposed under /sys/class/net and persists per-day totals and
// per-session records to a SQLite database in the user's data directory.
package stats

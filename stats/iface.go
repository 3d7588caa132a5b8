package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// sysClassNet is the root of the kernel's network interface statistics.
// Variable so tests can point it at a fixture tree.
var sysClassNet = "/sys/class/net"

// InterfaceBytes reads the cumulative rx/tx byte counters for a network
// interface. The counters reset when the interface disappears, so callers
// must treat a decrease as a reset rather than negative traffic.
func InterfaceBytes(iface string) (rx, tx int64, err error) {
	if iface == "" {
		return 0, 0, fmt.Errorf("empty interface name")
	}
	rx, err = readCounter(iface, "rx_bytes")
	if err != nil {
		return 0, 0, err
	}
	tx, err = readCounter(iface, "tx_bytes")
	if err != nil {
		return 0, 0, err
	}
	return rx, tx, nil
}

func readCounter(iface, name string) (int64, error) {
	path := filepath.Join(sysClassNet, iface, "statistics", name)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

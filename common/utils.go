// Package common provides shared constants, types, and utilities
// used across the AdGuard VPN GUI application.
package common

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetConfigDir returns the path to the application configuration directory.
// It creates the directory if it doesn't exist.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", WrapError(err, "failed to create config directory")
	}

	return configDir, nil
}

// GetDataDir returns the path to the application data directory,
// honoring $XDG_DATA_HOME when set. It creates the directory if needed.
func GetDataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", WrapError(err, "failed to get home directory")
		}
		base = filepath.Join(homeDir, ".local", "share")
	}

	dataDir := filepath.Join(base, DataDirName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", WrapError(err, "failed to create data directory")
	}

	return dataDir, nil
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir ensures a directory exists, creating it if necessary.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// HumanBytes formats a byte count in a human-readable form.
// Negative counts render as a dash (counter unavailable).
func HumanBytes(n int64) string {
	if n < 0 {
		return "—"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", n, units[0])
	}
	return fmt.Sprintf("%.2f %s", v, units[i])
}

// StringInSlice checks if a string is in a slice.
func StringInSlice(s string, slice []string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}

// Package common provides shared constants, types, and utilities
// used across the AdGuard VPN GUI application.
package common

import "errors"

// Sentinel errors for application operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// CLI errors.
	ErrCLINotFound = errors.New("adguardvpn-cli not found in PATH")
	ErrCLIFailed   = errors.New("adguardvpn-cli exited with an error")
	ErrTimeout     = errors.New("operation timed out")
	ErrCancelled   = errors.New("operation cancelled")

	// Connection errors.
	ErrAlreadyConnected = errors.New("connection already active")
	ErrNotConnected     = errors.New("no active connection")
	ErrNoLocation       = errors.New("no location selected")

	// Installer errors.
	ErrHomeNotFound   = errors.New("cannot resolve home directory")
	ErrElevationTool  = errors.New("no privilege elevation tool available")
	ErrAlreadyRunning = errors.New("another instance is already running")

	// Credential errors.
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrCredentialStorage   = errors.New("failed to store credentials")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

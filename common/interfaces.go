// Package common provides shared constants, types, and utilities
// used across the AdGuard VPN GUI application.
package common

// ConnectionState represents the state of the VPN tunnel as reported by
// the external CLI client.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
	StateError
)

// String returns a human-readable state string.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting..."
	case StateConnected:
		return "Connected"
	case StateDisconnecting:
		return "Disconnecting..."
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// CredentialStore defines the interface for credential storage.
// Implementations may use the system keyring or an encrypted file.
type CredentialStore interface {
	// Store saves a secret under a key.
	Store(key, secret string) error
	// Get retrieves a secret by key.
	Get(key string) (string, error)
	// Delete removes a secret.
	Delete(key string) error
}

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// Notify sends a notification with the given title and message.
	Notify(title, message string) error
	// NotifyWithIcon sends a notification with a custom icon name.
	NotifyWithIcon(title, message, icon string) error
}

// Logger defines the interface for leveled logging.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...interface{})
	// Info logs an informational message.
	Info(msg string, args ...interface{})
	// Warn logs a warning message.
	Warn(msg string, args ...interface{})
	// Error logs an error message.
	Error(msg string, args ...interface{})
}

// Package common provides shared constants, types, utilities, and interfaces
// used throughout the AdGuard VPN GUI application.
//
// This package is the foundation for cross-cutting concerns:
//
//   - Constants: application identifiers, file names, CLI timeouts
//   - Errors: sentinel errors for consistent error handling across packages
//   - Interfaces: abstractions for credential storage, notifications, logging
//   - Logger: leveled logging with rotated file output
//   - Utils: XDG directory resolution and small helpers
//
// # Usage
//
//	import "github.com/markotdel/adguardvpn-gui/common"
//
//	// Use constants
//	timeout := common.ConnectTimeout
//
//	// Use logger
//	common.LogInfo("Connecting to %s", location)
//
//	// Check errors
//	if errors.Is(err, common.ErrCLINotFound) {
//	    // Tell the user to install adguardvpn-cli first
//	}
package common

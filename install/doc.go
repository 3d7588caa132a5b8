// Package install manages the desktop integration artifacts: the
// freedesktop .desktop entry, scalable icon, launcher script, application
// data directory, and the sudoers/polkit rules that let the GUI drive
// adguardvpn-cli without password prompts.
//
// Install and Uninstall are idempotent. Re-running either converges to the
// same filesystem state. Whether the application is installed is determined
// purely by file presence.
package install

// Package vpn tracks the tunnel connection state. The Manager drives
// adguardvpn-cli through the cli package and keeps the last known status;
// the Monitor polls that status on a timer so the tray and window stay in
// sync with connections made from a terminal.
package vpn

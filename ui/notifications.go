package ui

import (
	"os/exec"

	"github.com/godbus/dbus/v5"

	"github.com/markotdel/adguardvpn-gui/common"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
)

// Notifier sends desktop notifications over the session bus, with
// notify-send as the fallback when no bus is reachable.
type Notifier struct {
	conn   *dbus.Conn
	logger common.Logger
}

// NewNotifier connects to the session bus. A missing bus is not an error;
// notifications then go through notify-send.
func NewNotifier(logger common.Logger) *Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Warn("session bus unavailable, using notify-send: %v", err)
		conn = nil
	}
	return &Notifier{conn: conn, logger: logger}
}

// Notify sends a notification with the application icon.
func (n *Notifier) Notify(title, message string) error {
	return n.NotifyWithIcon(title, message, "network-vpn")
}

// NotifyWithIcon sends a notification with a named freedesktop icon.
func (n *Notifier) NotifyWithIcon(title, message, icon string) error {
	if n.conn != nil {
		obj := n.conn.Object(notifyDest, notifyPath)
		call := obj.Call(notifyMethod, 0,
			common.AppName, // app_name
			uint32(0),      // replaces_id
			icon,           // app_icon
			title,          // summary
			message,        // body
			[]string{},     // actions
			map[string]dbus.Variant{}, // hints
			int32(5000),    // expire_timeout ms
		)
		if call.Err == nil {
			return nil
		}
		n.logger.Debug("dbus notification failed, falling back: %v", call.Err)
	}

	cmd := exec.Command("notify-send",
		"--app-name="+common.AppName,
		"--icon="+icon,
		title, message)
	if err := cmd.Run(); err != nil {
		n.logger.Warn("notify-send failed: %v", err)
		return err
	}
	return nil
}

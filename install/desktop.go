package install

import (
	"fmt"

	"github.com/markotdel/adguardvpn-gui/common"
)

// desktopEntry renders the freedesktop .desktop file pointing at the
// launcher script.
func desktopEntry(execPath string) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Version=1.0
Name=%s
Comment=Manage AdGuard VPN connections
Exec=%s
TryExec=%s
Icon=adguardvpn
Terminal=false
Categories=Network;Security;
Keywords=VPN;AdGuard;privacy;
StartupNotify=true
StartupWMClass=%s
`, common.AppName, execPath, execPath, common.AppID)
}

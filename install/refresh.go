package install

import "path/filepath"

// refreshDesktop nudges the desktop environment to pick up the new or
// removed entry. Every step is cosmetic and allowed to fail.
func (in *Installer) refreshDesktop() {
	appsDir := filepath.Join(in.DataHome, "applications")

	steps := [][]string{
		{"update-desktop-database", appsDir},
		{"xdg-desktop-menu", "forceupdate"},
		{"xfdesktop", "--reload"},
		{"xfce4-panel", "-r"},
	}
	for _, step := range steps {
		if err := in.runCmd(step[0], step[1:]...); err != nil {
			in.logger.Debug("desktop refresh %s skipped: %v", step[0], err)
		}
	}
}

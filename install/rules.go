package install

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/markotdel/adguardvpn-gui/common"
)

// sudoersRule grants the invoking user passwordless execution of the
// resolved adguardvpn-cli path, and nothing else.
func sudoersRule(username, cliPath string) string {
	return fmt.Sprintf(
		"# Installed by %s. Allows %s to manage the VPN tunnel.\n%s ALL=(root) NOPASSWD: %s\n",
		common.AppName, username, username, cliPath)
}

// polkitRule authorizes pkexec of the resolved adguardvpn-cli path for the
// invoking user.
func polkitRule(username, cliPath string) string {
	return fmt.Sprintf(`// Installed by %s.
polkit.addRule(function(action, subject) {
    if (action.id == "org.freedesktop.policykit.exec" &&
        action.lookup("program") == %q &&
        subject.user == %q) {
        return polkit.Result.YES;
    }
});
`, common.AppName, cliPath, username)
}

// installRules writes the sudoers and polkit rules scoped to cliPath.
func (in *Installer) installRules(cliPath string) error {
	username, err := in.username()
	if err != nil {
		return fmt.Errorf("resolving current user: %w", err)
	}

	sudoers := sudoersRule(username, cliPath)
	if err := in.writeRule(in.sudoersPath(), []byte(sudoers), 0440, true); err != nil {
		return fmt.Errorf("installing sudoers rule: %w", err)
	}

	polkit := polkitRule(username, cliPath)
	if err := in.writeRule(in.polkitPath(), []byte(polkit), 0644, false); err != nil {
		return fmt.Errorf("installing polkit rule: %w", err)
	}
	return nil
}

// removeRules deletes both rules. Root is required, so failures only warn;
// re-running uninstall with sudo available cleans them up.
func (in *Installer) removeRules() {
	for _, path := range []string{in.sudoersPath(), in.polkitPath()} {
		if !common.FileExists(path) {
			continue
		}
		if err := in.runCmd("sudo", "rm", "-f", path); err != nil {
			in.logger.Warn("could not remove %s: %v", path, err)
		}
	}
}

// privilegedWrite stages content in a temp file and installs it with sudo.
// Sudoers content is validated with visudo before touching /etc.
func (in *Installer) privilegedWrite(dest string, content []byte, mode os.FileMode, sudoers bool) error {
	if _, err := in.lookPath("sudo"); err != nil {
		return common.ErrElevationTool
	}

	tmp, err := os.CreateTemp("", filepath.Base(dest)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if sudoers {
		if err := in.runCmd("visudo", "-cf", tmp.Name()); err != nil {
			return fmt.Errorf("sudoers rule failed validation: %w", err)
		}
	}

	modeArg := fmt.Sprintf("%04o", mode.Perm())
	return in.runCmd("sudo", "install", "-D", "-m", modeArg, tmp.Name(), dest)
}

package install

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"

	"github.com/markotdel/adguardvpn-gui/common"
)

//go:embed assets/adguardvpn.svg
var iconSVG []byte

// Artifact base names.
const (
	desktopEntryName = "adguardvpn-gui.desktop"
	iconName         = "adguardvpn.svg"
	launcherName     = "adguardvpn-gui"
	sudoersName      = "adguardvpn-gui"
	polkitRuleName   = "49-adguardvpn-gui.rules"
)

// Installer writes and removes the desktop integration artifacts. All
// roots and external lookups are fields so tests can point everything at a
// temporary tree.
type Installer struct {
	Home     string // user home, normally $HOME
	DataHome string // XDG data dir, normally ~/.local/share
	BinDir   string // launcher dir, normally ~/.local/bin
	EtcDir   string // rules root, normally /etc

	// ExecSource is the binary copied into the app data dir, normally the
	// running executable.
	ExecSource string

	logger    common.Logger
	lookPath  func(file string) (string, error)
	runCmd    func(name string, args ...string) error
	writeRule func(dest string, content []byte, mode os.FileMode, sudoers bool) error
	username  func() (string, error)
}

// New returns an installer bound to the real user environment.
func New(logger common.Logger) (*Installer, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return nil, common.ErrHomeNotFound
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolving executable: %w", err)
	}

	inst := &Installer{
		Home:       home,
		DataHome:   dataHome,
		BinDir:     filepath.Join(home, ".local", "bin"),
		EtcDir:     "/etc",
		ExecSource: execPath,
		logger:     logger,
		lookPath:   exec.LookPath,
		username:   currentUsername,
	}
	inst.runCmd = func(name string, args ...string) error {
		return exec.Command(name, args...).Run()
	}
	inst.writeRule = inst.privilegedWrite
	return inst, nil
}

func currentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// Derived paths.

func (in *Installer) appDataDir() string {
	return filepath.Join(in.DataHome, common.DataDirName)
}

func (in *Installer) installedBinary() string {
	return filepath.Join(in.appDataDir(), launcherName)
}

func (in *Installer) launcherPath() string {
	return filepath.Join(in.BinDir, launcherName)
}

func (in *Installer) desktopEntryPath() string {
	return filepath.Join(in.DataHome, "applications", desktopEntryName)
}

func (in *Installer) iconPath() string {
	return filepath.Join(in.DataHome, "icons", "hicolor", "scalable", "apps", iconName)
}

func (in *Installer) desktopShortcutPath() string {
	return filepath.Join(in.Home, "Desktop", desktopEntryName)
}

func (in *Installer) sudoersPath() string {
	return filepath.Join(in.EtcDir, "sudoers.d", sudoersName)
}

func (in *Installer) polkitPath() string {
	return filepath.Join(in.EtcDir, "polkit-1", "rules.d", polkitRuleName)
}

// IsInstalled reports whether the launcher and desktop entry are present.
func (in *Installer) IsInstalled() bool {
	return common.FileExists(in.launcherPath()) && common.FileExists(in.desktopEntryPath())
}

// Install writes every artifact. Rules are skipped with a warning when
// adguardvpn-cli is not on PATH; desktop refresh failures are swallowed.
func (in *Installer) Install() error {
	if in.Home == "" {
		return common.ErrHomeNotFound
	}

	if err := in.installBinary(); err != nil {
		return err
	}
	if err := in.installLauncher(); err != nil {
		return err
	}
	if err := in.installIcon(); err != nil {
		return err
	}
	if err := in.installDesktopEntry(); err != nil {
		return err
	}
	in.installDesktopShortcut()

	cliPath, err := in.lookPath(common.CLIBinary)
	if err != nil {
		in.logger.Warn("%s not found on PATH; skipping sudoers and polkit rules", common.CLIBinary)
	} else if err := in.installRules(cliPath); err != nil {
		// The GUI still works with a password prompt.
		in.logger.Warn("could not install elevation rules: %v", err)
	}

	in.refreshDesktop()
	in.logger.Info("installed %s", common.AppName)
	return nil
}

// Uninstall removes every artifact Install creates. Missing files are not
// errors.
func (in *Installer) Uninstall() error {
	if in.Home == "" {
		return common.ErrHomeNotFound
	}

	for _, path := range []string{
		in.launcherPath(),
		in.desktopEntryPath(),
		in.desktopShortcutPath(),
		in.iconPath(),
	} {
		if err := removeIfPresent(path); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(in.appDataDir()); err != nil {
		return fmt.Errorf("removing %s: %w", in.appDataDir(), err)
	}

	in.removeRules()
	in.refreshDesktop()
	in.logger.Info("uninstalled %s", common.AppName)
	return nil
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// installBinary copies the running executable into the app data dir.
func (in *Installer) installBinary() error {
	if err := common.EnsureDir(in.appDataDir()); err != nil {
		return err
	}
	return copyFile(in.ExecSource, in.installedBinary(), 0755)
}

func copyFile(src, dst string, mode os.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer source.Close()

	// Write-then-rename so a running copy is never truncated in place.
	tmp := dst + ".tmp"
	target, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if _, err := io.Copy(target, source); err != nil {
		target.Close()
		os.Remove(tmp)
		return fmt.Errorf("copying to %s: %w", tmp, err)
	}
	if err := target.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

// installLauncher writes the shell launcher that execs the installed
// binary.
func (in *Installer) installLauncher() error {
	if err := common.EnsureDir(in.BinDir); err != nil {
		return err
	}
	script := fmt.Sprintf("#!/bin/sh\nexec %q \"$@\"\n", in.installedBinary())
	return os.WriteFile(in.launcherPath(), []byte(script), 0755)
}

func (in *Installer) installIcon() error {
	if err := common.EnsureDir(filepath.Dir(in.iconPath())); err != nil {
		return err
	}
	return os.WriteFile(in.iconPath(), iconSVG, 0644)
}

func (in *Installer) installDesktopEntry() error {
	if err := common.EnsureDir(filepath.Dir(in.desktopEntryPath())); err != nil {
		return err
	}
	entry := desktopEntry(in.launcherPath())
	return os.WriteFile(in.desktopEntryPath(), []byte(entry), 0644)
}

// installDesktopShortcut copies the entry onto the desktop when a Desktop
// folder exists. Best-effort.
func (in *Installer) installDesktopShortcut() {
	desktopDir := filepath.Join(in.Home, "Desktop")
	info, err := os.Stat(desktopDir)
	if err != nil || !info.IsDir() {
		return
	}
	entry := desktopEntry(in.launcherPath())
	if err := os.WriteFile(in.desktopShortcutPath(), []byte(entry), 0755); err != nil {
		in.logger.Warn("could not write desktop shortcut: %v", err)
	}
}

// Package main is the entry point for AdGuard VPN GUI, a desktop shell
// around the external adguardvpn-cli client for Linux.
//
// Modes:
//   - GUI (default): GTK4 window plus system tray indicator
//   - CLI: --status, --connect, --fastest, --disconnect, --locations,
//     --export-logs for scripting
//   - TUI: --tui, an interactive terminal location picker
//   - Setup: --install / --uninstall manage the desktop integration,
//     --detach relaunches the GUI detached from the terminal
//
// Usage:
//
//	adguardvpn-gui [options]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
	"github.com/markotdel/adguardvpn-gui/config"
	"github.com/markotdel/adguardvpn-gui/install"
	"github.com/markotdel/adguardvpn-gui/keyring"
	"github.com/markotdel/adguardvpn-gui/stats"
	"github.com/markotdel/adguardvpn-gui/tui"
	"github.com/markotdel/adguardvpn-gui/ui"
	"github.com/markotdel/adguardvpn-gui/vpn"
)

// Build-time variables injected via ldflags (-X main.appVersion=x.y.z).
var (
	appVersion = "dev"
	buildTime  = "unknown"
	commitSHA  = "unknown"
)

var (
	showVersion = flag.Bool("version", false, "Show version and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")

	// CLI mode
	showStatus    = flag.Bool("status", false, "Show current connection status")
	connectLoc    = flag.String("connect", "", "Connect to a location by city name or ISO code")
	fastest       = flag.Bool("fastest", false, "Connect to the fastest location")
	disconnect    = flag.Bool("disconnect", false, "Disconnect the VPN")
	listLocations = flag.Int("locations", -1, "List locations (0 = all, N = the N fastest)")
	exportLogs    = flag.String("export-logs", "", "Export diagnostic logs to a directory")
	setPassword   = flag.Bool("set-password", false, "Store the sudo password in the system keyring")

	// Setup mode
	doInstall   = flag.Bool("install", false, "Install desktop integration")
	doUninstall = flag.Bool("uninstall", false, "Remove desktop integration")
	detach      = flag.Bool("detach", false, "Relaunch the GUI detached from this terminal")

	// TUI mode
	runTUI = flag.Bool("tui", false, "Run the interactive terminal interface")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", common.AppName, appVersion)
		if buildTime != "unknown" {
			fmt.Printf("  Build:  %s\n", buildTime)
			fmt.Printf("  Commit: %s\n", commitSHA)
		}
		return
	}

	logLevel := common.LevelInfo
	if *verbose {
		logLevel = common.LevelDebug
	}
	if err := common.InitLogger(common.LogConfig{
		Level:       logLevel,
		EnableFile:  true,
		MaxFileSize: 5 * 1024 * 1024,
		MaxBackups:  5,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize file logging: %v\n", err)
	}
	defer common.CloseLogger()

	logger := common.GetLogger()

	if *detach {
		if err := relaunchDetached(); err != nil {
			fatal(err)
		}
		return
	}

	if *doInstall || *doUninstall {
		installer, err := install.New(logger)
		if err != nil {
			fatal(err)
		}
		if *doInstall {
			err = installer.Install()
		} else {
			err = installer.Uninstall()
		}
		if err != nil {
			fatal(err)
		}
		return
	}

	// Everything past this point drives adguardvpn-cli.
	runner, err := cli.NewRunner()
	if err != nil {
		fatal(fmt.Errorf("%w (install it from https://adguard-vpn.com/)", err))
	}

	var creds common.CredentialStore
	if store, err := keyring.New(); err != nil {
		logger.Warn("credential storage unavailable: %v", err)
	} else {
		creds = store
	}

	manager := vpn.NewManager(runner, creds, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case *setPassword:
		err = storeSudoPassword(manager)
	case *showStatus:
		err = printStatus(ctx, manager)
	case *connectLoc != "":
		err = manager.Connect(ctx, *connectLoc)
		if err == nil {
			err = printStatus(ctx, manager)
		}
	case *fastest:
		err = manager.Connect(ctx, "")
		if err == nil {
			err = printStatus(ctx, manager)
		}
	case *disconnect:
		err = manager.Refresh(ctx)
		if err == nil {
			err = manager.Disconnect(ctx)
		}
		if err == nil {
			fmt.Println("Disconnected")
		}
	case *listLocations >= 0:
		err = printLocations(ctx, runner, *listLocations)
	case *exportLogs != "":
		var out string
		out, err = runner.ExportLogs(ctx, *exportLogs)
		if err == nil {
			fmt.Println(out)
		}
	case *runTUI:
		err = tui.Run(manager)
	default:
		runGUI(manager, logger)
		return
	}

	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// runGUI wires the stats store and preferences and enters the GTK loop.
func runGUI(manager *vpn.Manager, logger common.Logger) {
	lock, err := common.AcquireInstanceLock("")
	if err != nil {
		fatal(err)
	}
	defer lock.Release()

	cfg, err := config.Load("")
	if err != nil {
		logger.Warn("could not load preferences, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	store, err := stats.Open("")
	if err != nil {
		fatal(fmt.Errorf("opening statistics database: %w", err))
	}
	defer store.Close()

	collector := stats.NewCollector(store, logger)

	logger.Info("starting %s v%s", common.AppName, appVersion)
	app := ui.NewApplication(ui.Deps{
		Manager:   manager,
		Store:     store,
		Collector: collector,
		Config:    cfg,
		Logger:    logger,
		Version:   appVersion,
	})

	// GTK parses its own flags; pass only the program name.
	if code := app.Run(os.Args[:1]); code != 0 {
		logger.Warn("application exited with code %d", code)
		os.Exit(code)
	}
}

// printStatus writes the connection state in an aligned table.
func printStatus(ctx context.Context, manager *vpn.Manager) error {
	if err := manager.Refresh(ctx); err != nil {
		return err
	}
	st := manager.Status()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if !st.Connected {
		fmt.Fprintln(w, "State:\tdisconnected")
		return nil
	}
	fmt.Fprintln(w, "State:\tconnected")
	fmt.Fprintf(w, "Location:\t%s\n", st.Location)
	if st.Mode != "" {
		fmt.Fprintf(w, "Mode:\t%s\n", st.Mode)
	}
	if st.Iface != "" {
		fmt.Fprintf(w, "Interface:\t%s\n", st.Iface)
	}
	return nil
}

func printLocations(ctx context.Context, runner *cli.Runner, n int) error {
	locs, err := runner.QueryLocations(ctx, n)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ISO\tCOUNTRY\tCITY\tPING")
	for _, loc := range locs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", loc.ISO, loc.Country, loc.City, loc.Ping)
	}
	return nil
}

// storeSudoPassword prompts without echo and saves the password.
func storeSudoPassword(manager *vpn.Manager) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("password entry needs a terminal")
	}
	fmt.Fprint(os.Stderr, "sudo password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	if err := manager.SetSudoPassword(string(pw)); err != nil {
		return err
	}
	fmt.Println("Password stored")
	return nil
}

// relaunchDetached re-execs the GUI in its own session with stdio on
// /dev/null, so closing the terminal does not take the GUI down.
func relaunchDetached() error {
	self, err := os.Executable()
	if err != nil {
		return err
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer devnull.Close()

	cmd := exec.Command(self)
	cmd.Stdin = devnull
	cmd.Stdout = devnull
	cmd.Stderr = devnull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}
	// Fire and forget: the child owns its own session now.
	return cmd.Process.Release()
}

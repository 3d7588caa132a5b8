// Package common provides shared constants, types, and utilities
// used across the AdGuard VPN GUI application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "io.github.markotdel.adguardvpn-gui"
	// AppName is the display name of the application.
	AppName = "AdGuard VPN GUI"
	// CLIBinary is the name of the external command-line client the GUI drives.
	CLIBinary = "adguardvpn-cli"
	// ConfigDirName is the name of the configuration directory under ~/.config.
	ConfigDirName = "adguardvpn-gui"
	// DataDirName is the name of the data directory under $XDG_DATA_HOME.
	DataDirName = "adguardvpn-gui"
)

// File names used by the application.
const (
	ConfigFileName      = "config.yaml"
	CredentialsFileName = ".credentials"
	LogFileName         = "adguardvpn-gui.log"
	StatsFileName       = "stats.db"
	LockFileName        = "app.lock"
)

// Timeouts for adguardvpn-cli subcommands. The connect timeout is long
// because the CLI measures endpoint latency before tunneling.
const (
	StatusTimeout     = 15 * time.Second
	LocationsTimeout  = 60 * time.Second
	ConnectTimeout    = 90 * time.Second
	DisconnectTimeout = 30 * time.Second
	ExportLogsTimeout = 120 * time.Second
	DefaultCLITimeout = 30 * time.Second
)

// Polling intervals.
const (
	// StatusPollInterval is how often the monitor re-reads CLI status so the
	// tray stays in sync with connections made from a terminal.
	StatusPollInterval = 3 * time.Second
	// StatsTickInterval is how often interface byte counters are sampled.
	StatsTickInterval = 1 * time.Second
)

// UI constants.
const (
	DefaultWindowWidth  = 900
	DefaultWindowHeight = 600
	MinWindowSize       = 400
	MaxWindowSize       = 1600
	TrayIconSize        = 22
)

// Site exclusion modes understood by adguardvpn-cli.
const (
	ExclusionModeGeneral   = "GENERAL"
	ExclusionModeSelective = "SELECTIVE"
)

// Supported UI languages.
const (
	LangEN = "en"
	LangRU = "ru"
	LangDE = "de"
)

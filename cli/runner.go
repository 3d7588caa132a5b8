package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/markotdel/adguardvpn-gui/common"
)

// execFunc runs a command and returns its stdout and stderr. It is a
// variable on Runner so tests can substitute recorded transcripts.
type execFunc func(ctx context.Context, stdin string, name string, args ...string) (stdout, stderr []byte, err error)

func systemExec(ctx context.Context, stdin string, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// Runner executes adguardvpn-cli subcommands.
//
// Privileged subcommands (connect, disconnect) may need root to configure
// the tunnel interface. When elevation is enabled the runner prefixes them
// with sudo: `sudo -n` relies on the NOPASSWD rule written by the
// installer, `sudo -S` feeds a stored password on stdin.
type Runner struct {
	binPath      string
	execFn       execFunc
	sudo         bool
	sudoPassword string
	usePkexec    bool
}

// NewRunner locates adguardvpn-cli on PATH and returns a runner for it.
func NewRunner() (*Runner, error) {
	path, err := exec.LookPath(common.CLIBinary)
	if err != nil {
		return nil, common.ErrCLINotFound
	}
	return &Runner{binPath: path, execFn: systemExec}, nil
}

// NewRunnerWithExec returns a runner bound to a fake executor, for tests.
func NewRunnerWithExec(binPath string, fn execFunc) *Runner {
	return &Runner{binPath: binPath, execFn: fn}
}

// BinPath returns the resolved path of the CLI binary.
func (r *Runner) BinPath() string {
	return r.binPath
}

// Elevate enables sudo for privileged subcommands. An empty password
// selects non-interactive mode (-n, requires the installer's sudoers rule).
func (r *Runner) Elevate(password string) {
	r.sudo = true
	r.usePkexec = false
	r.sudoPassword = password
}

// ElevatePkexec routes privileged subcommands through pkexec, relying on
// the installer's polkit rule for a prompt-free grant.
func (r *Runner) ElevatePkexec() {
	r.sudo = false
	r.usePkexec = true
	r.sudoPassword = ""
}

// DropElevation disables elevation and forgets any stored password.
func (r *Runner) DropElevation() {
	r.sudo = false
	r.usePkexec = false
	r.sudoPassword = ""
}

// run executes one subcommand with the given timeout and returns its
// scrubbed stdout. A nonzero exit surfaces stderr (or stdout) as the error.
func (r *Runner) run(ctx context.Context, timeout time.Duration, elevated bool, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := r.binPath
	stdin := ""
	switch {
	case elevated && r.sudo:
		if r.sudoPassword == "" {
			args = append([]string{"-n", r.binPath}, args...)
		} else {
			args = append([]string{"-S", "-p", "", r.binPath}, args...)
			stdin = r.sudoPassword + "\n"
		}
		name = "sudo"
	case elevated && r.usePkexec:
		args = append([]string{r.binPath}, args...)
		name = "pkexec"
	}

	stdout, stderr, err := r.execFn(ctx, stdin, name, args...)
	out := CleanOutput(string(stdout))
	errOut := CleanOutput(string(stderr))

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return out, common.ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return out, common.ErrCancelled
	}
	if err != nil {
		msg := errOut
		if msg == "" {
			msg = out
		}
		if msg == "" {
			msg = err.Error()
		}
		return out, fmt.Errorf("%w: %s", common.ErrCLIFailed, msg)
	}
	return out, nil
}

// Status returns the raw status output.
func (r *Runner) Status(ctx context.Context) (string, error) {
	return r.run(ctx, common.StatusTimeout, false, "status")
}

// QueryStatus runs status and parses it.
func (r *Runner) QueryStatus(ctx context.Context) (Status, error) {
	out, err := r.Status(ctx)
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(out), nil
}

// ListLocations returns the locations table, optionally limited to the n
// fastest entries (n <= 0 lists everything).
func (r *Runner) ListLocations(ctx context.Context, n int) (string, error) {
	args := []string{"list-locations"}
	if n > 0 {
		args = append(args, fmt.Sprintf("%d", n))
	}
	return r.run(ctx, common.LocationsTimeout, false, args...)
}

// QueryLocations runs list-locations and parses the rows.
func (r *Runner) QueryLocations(ctx context.Context, n int) ([]Location, error) {
	out, err := r.ListLocations(ctx, n)
	if err != nil {
		return nil, err
	}
	return ParseLocations(out), nil
}

// ConnectFastest connects to the lowest-latency endpoint.
func (r *Runner) ConnectFastest(ctx context.Context) (string, error) {
	return r.run(ctx, common.ConnectTimeout, true, "connect", "--fastest", "-y")
}

// ConnectLocation connects to a named location (city or ISO code).
func (r *Runner) ConnectLocation(ctx context.Context, loc string) (string, error) {
	if strings.TrimSpace(loc) == "" {
		return "", common.ErrNoLocation
	}
	return r.run(ctx, common.ConnectTimeout, true, "connect", "-l", loc, "-y")
}

// Disconnect tears down the tunnel.
func (r *Runner) Disconnect(ctx context.Context) (string, error) {
	return r.run(ctx, common.DisconnectTimeout, true, "disconnect")
}

// ConfigShow returns the raw config listing.
func (r *Runner) ConfigShow(ctx context.Context) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, "config", "show")
}

// ConfigSet applies one config setting, e.g. ConfigSet(ctx, "mode", "tun").
// The key maps to the CLI's `config set-<key>` subcommand.
func (r *Runner) ConfigSet(ctx context.Context, key, value string) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, "config", "set-"+key, value)
}

// ExclusionsMode returns the raw site-exclusions mode output.
func (r *Runner) ExclusionsMode(ctx context.Context) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, "site-exclusions", "mode")
}

// ExclusionsSetMode switches between GENERAL and SELECTIVE.
func (r *Runner) ExclusionsSetMode(ctx context.Context, mode string) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, "site-exclusions", "mode", mode)
}

// ExclusionsShow lists excluded domains.
func (r *Runner) ExclusionsShow(ctx context.Context) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, "site-exclusions", "show")
}

// ExclusionsAdd adds domains to the exclusion list.
func (r *Runner) ExclusionsAdd(ctx context.Context, domains []string) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, append([]string{"site-exclusions", "add"}, domains...)...)
}

// ExclusionsRemove removes domains from the exclusion list.
func (r *Runner) ExclusionsRemove(ctx context.Context, domains []string) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, append([]string{"site-exclusions", "remove"}, domains...)...)
}

// ExclusionsClear empties the exclusion list.
func (r *Runner) ExclusionsClear(ctx context.Context) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, "site-exclusions", "clear")
}

// ExportLogs writes a support archive into dir.
func (r *Runner) ExportLogs(ctx context.Context, dir string) (string, error) {
	return r.run(ctx, common.ExportLogsTimeout, false, "export-logs", "-o", dir, "-f")
}

// License returns account/subscription details.
func (r *Runner) License(ctx context.Context) (string, error) {
	return r.run(ctx, common.DefaultCLITimeout, false, "license")
}

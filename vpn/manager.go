package vpn

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
)

// SudoPasswordKey is the credential-store key for the stored sudo password.
const SudoPasswordKey = "sudo_password"

// sudoersRulePath is written by the installer; its presence means sudo -n
// works without a password.
var sudoersRulePath = filepath.Join("/etc", "sudoers.d", "adguardvpn-gui")

// polkitRulePath is the pkexec counterpart.
var polkitRulePath = filepath.Join("/etc", "polkit-1", "rules.d", "49-adguardvpn-gui.rules")

// Manager owns the connection state. All state access is mutex-guarded;
// Connect/Disconnect block until the CLI finishes, so callers run them off
// the UI thread.
type Manager struct {
	mu      sync.RWMutex
	runner  *cli.Runner
	logger  common.Logger
	creds   common.CredentialStore
	state   common.ConnectionState
	status  cli.Status
	lastErr error
}

// NewManager creates a manager around runner. creds may be nil when no
// credential store is available; elevation then relies on the installer's
// rules alone.
func NewManager(runner *cli.Runner, creds common.CredentialStore, logger common.Logger) *Manager {
	m := &Manager{
		runner: runner,
		creds:  creds,
		logger: logger,
		state:  common.StateDisconnected,
	}
	m.setupElevation()
	return m
}

// setupElevation picks the least intrusive way to run privileged
// subcommands: nothing when already root, sudo -n when the installer's
// sudoers rule exists, a stored password when the user saved one, and
// pkexec as the last resort when only the polkit rule is present.
func (m *Manager) setupElevation() {
	if os.Geteuid() == 0 {
		return
	}
	if common.FileExists(sudoersRulePath) {
		m.runner.Elevate("")
		return
	}
	if m.creds != nil {
		if pw, err := m.creds.Get(SudoPasswordKey); err == nil && pw != "" {
			m.runner.Elevate(pw)
			return
		}
	}
	if common.FileExists(polkitRulePath) {
		m.runner.ElevatePkexec()
	}
}

// SetSudoPassword stores the password and switches the runner to it.
func (m *Manager) SetSudoPassword(password string) error {
	if m.creds != nil {
		if err := m.creds.Store(SudoPasswordKey, password); err != nil {
			return err
		}
	}
	m.runner.Elevate(password)
	return nil
}

// Runner exposes the underlying CLI runner for read-only subcommands.
func (m *Manager) Runner() *cli.Runner {
	return m.runner
}

// State returns the current connection state.
func (m *Manager) State() common.ConnectionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Status returns the last known CLI status.
func (m *Manager) Status() cli.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// LastError returns the error behind a StateError, if any.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) setState(state common.ConnectionState, status cli.Status, err error) {
	m.mu.Lock()
	m.state = state
	m.status = status
	m.lastErr = err
	m.mu.Unlock()
}

// Connect connects to a named location, or to the fastest endpoint when
// location is empty.
func (m *Manager) Connect(ctx context.Context, location string) error {
	m.mu.Lock()
	if m.state == common.StateConnecting || m.state == common.StateDisconnecting {
		m.mu.Unlock()
		return common.ErrAlreadyConnected
	}
	m.state = common.StateConnecting
	m.mu.Unlock()

	var err error
	if location == "" {
		m.logger.Info("connecting to fastest location")
		_, err = m.runner.ConnectFastest(ctx)
	} else {
		m.logger.Info("connecting to %s", location)
		_, err = m.runner.ConnectLocation(ctx, location)
	}
	if err != nil {
		m.logger.Error("connect failed: %v", err)
		m.setState(common.StateError, cli.Status{}, err)
		return err
	}

	// Resolve the transitional state here, never through Refresh: its
	// StateConnecting guard would otherwise leave a connect whose status
	// lags behind stuck until the next Disconnect.
	st, err := m.runner.QueryStatus(ctx)
	if err != nil {
		m.setState(common.StateError, cli.Status{}, err)
		return err
	}
	if st.Connected {
		m.setState(common.StateConnected, st, nil)
	} else {
		m.setState(common.StateDisconnected, st, nil)
	}
	return nil
}

// Disconnect tears the tunnel down.
func (m *Manager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	if m.state == common.StateDisconnected {
		m.mu.Unlock()
		return common.ErrNotConnected
	}
	m.state = common.StateDisconnecting
	m.mu.Unlock()

	if _, err := m.runner.Disconnect(ctx); err != nil {
		m.logger.Error("disconnect failed: %v", err)
		m.setState(common.StateError, cli.Status{}, err)
		return err
	}
	m.setState(common.StateDisconnected, cli.Status{}, nil)
	return nil
}

// Refresh re-reads the CLI status and updates the state. Transitional
// states set by an in-flight Connect/Disconnect are left alone.
func (m *Manager) Refresh(ctx context.Context) error {
	st, err := m.runner.QueryStatus(ctx)
	if err != nil {
		m.setState(common.StateError, cli.Status{}, err)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == common.StateDisconnecting {
		return nil
	}
	if m.state == common.StateConnecting && !st.Connected {
		return nil
	}
	m.status = st
	m.lastErr = nil
	if st.Connected {
		m.state = common.StateConnected
	} else {
		m.state = common.StateDisconnected
	}
	return nil
}

package vpn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
)

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}

// scriptedExec replays canned output per subcommand.
type scriptedExec struct {
	out  map[string]string // subcommand -> stdout
	fail map[string]error  // subcommand -> error
}

func (s *scriptedExec) run(_ context.Context, _ string, _ string, args ...string) ([]byte, []byte, error) {
	sub := ""
	if len(args) > 0 {
		sub = args[0]
	}
	if err, ok := s.fail[sub]; ok {
		return nil, []byte("operation failed"), err
	}
	return []byte(s.out[sub]), nil, nil
}

func newTestManager(script *scriptedExec) *Manager {
	runner := cli.NewRunnerWithExec("adguardvpn-cli", script.run)
	return &Manager{
		runner: runner,
		logger: discardLogger{},
		state:  common.StateDisconnected,
	}
}

func TestManager_ConnectUpdatesState(t *testing.T) {
	m := newTestManager(&scriptedExec{out: map[string]string{
		"connect": "Connected",
		"status":  "Connected to Frankfurt in TUN mode, running on tun0",
	}})

	if err := m.Connect(context.Background(), "Frankfurt"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if m.State() != common.StateConnected {
		t.Errorf("State() = %v, want Connected", m.State())
	}
	st := m.Status()
	if st.Location != "Frankfurt" || st.Iface != "tun0" {
		t.Errorf("Status() = %+v", st)
	}
}

func TestManager_ConnectFailureSetsError(t *testing.T) {
	m := newTestManager(&scriptedExec{fail: map[string]error{
		"connect": fmt.Errorf("exit status 1"),
	}})

	err := m.Connect(context.Background(), "")
	if err == nil {
		t.Fatal("Connect() should fail")
	}
	if m.State() != common.StateError {
		t.Errorf("State() = %v, want Error", m.State())
	}
	if !errors.Is(m.LastError(), common.ErrCLIFailed) {
		t.Errorf("LastError() = %v, want ErrCLIFailed", m.LastError())
	}
}

func TestManager_Disconnect(t *testing.T) {
	m := newTestManager(&scriptedExec{out: map[string]string{
		"disconnect": "Disconnected",
	}})
	m.state = common.StateConnected
	m.status = cli.Status{Connected: true, Location: "Frankfurt"}

	if err := m.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if m.State() != common.StateDisconnected {
		t.Errorf("State() = %v, want Disconnected", m.State())
	}
	if m.Status().Connected {
		t.Error("Status() should be cleared after disconnect")
	}
}

func TestManager_DisconnectWhenNotConnected(t *testing.T) {
	m := newTestManager(&scriptedExec{})

	if err := m.Disconnect(context.Background()); !errors.Is(err, common.ErrNotConnected) {
		t.Errorf("Disconnect() error = %v, want ErrNotConnected", err)
	}
	if m.State() != common.StateDisconnected {
		t.Errorf("State() = %v, want Disconnected", m.State())
	}
}

func TestManager_RefreshTracksExternalChanges(t *testing.T) {
	script := &scriptedExec{out: map[string]string{
		"status": "VPN is disconnected",
	}}
	m := newTestManager(script)
	m.state = common.StateConnected
	m.status = cli.Status{Connected: true, Location: "Frankfurt"}

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if m.State() != common.StateDisconnected {
		t.Errorf("State() = %v, want Disconnected after external disconnect", m.State())
	}

	script.out["status"] = "Connected to Tallinn in TUN mode, running on tun0"
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if m.State() != common.StateConnected || m.Status().Location != "Tallinn" {
		t.Errorf("state = %v status = %+v", m.State(), m.Status())
	}
}

func TestManager_ConnectResolvesWhenStatusLags(t *testing.T) {
	script := &scriptedExec{out: map[string]string{
		"connect": "Connected",
		"status":  "VPN is disconnected",
	}}
	m := newTestManager(script)

	if err := m.Connect(context.Background(), "Frankfurt"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if m.State() == common.StateConnecting {
		t.Fatalf("Connect() left the manager in Connecting")
	}
	if m.State() != common.StateDisconnected {
		t.Errorf("State() = %v, want Disconnected when status lags", m.State())
	}

	// The manager must not be wedged: a retry goes through once the CLI
	// reports the tunnel.
	script.out["status"] = "Connected to Frankfurt in TUN mode, running on tun0"
	if err := m.Connect(context.Background(), "Frankfurt"); err != nil {
		t.Fatalf("retry Connect() error = %v", err)
	}
	if m.State() != common.StateConnected {
		t.Errorf("State() = %v, want Connected after retry", m.State())
	}
}

func TestManager_RefreshLeavesTransitionalStates(t *testing.T) {
	m := newTestManager(&scriptedExec{out: map[string]string{
		"status": "VPN is disconnected",
	}})
	m.state = common.StateConnecting

	if err := m.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if m.State() != common.StateConnecting {
		t.Errorf("Refresh() must not clobber an in-flight connect, got %v", m.State())
	}
}

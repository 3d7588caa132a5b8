package vpn

import (
	"context"
	"testing"
	"time"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
)

func TestMonitor_FiresOnlyOnTransitions(t *testing.T) {
	script := &scriptedExec{out: map[string]string{
		"status": "VPN is disconnected",
	}}
	m := newTestManager(script)
	mon := NewMonitor(m, time.Hour, discardLogger{})

	type change struct {
		from, to common.ConnectionState
		status   cli.Status
	}
	var changes []change
	mon.SetOnChange(func(oldState, newState common.ConnectionState, status cli.Status) {
		changes = append(changes, change{oldState, newState, status})
	})

	// Disconnected -> disconnected: no transition.
	mon.Poll()
	mon.Poll()
	if len(changes) != 0 {
		t.Fatalf("no transition expected, got %v", changes)
	}

	// Someone connected from a terminal.
	script.out["status"] = "Connected to Frankfurt in TUN mode, running on tun0"
	mon.Poll()
	if len(changes) != 1 {
		t.Fatalf("expected one transition, got %d", len(changes))
	}
	if changes[0].from != common.StateDisconnected || changes[0].to != common.StateConnected {
		t.Errorf("transition = %v -> %v", changes[0].from, changes[0].to)
	}
	if changes[0].status.Location != "Frankfurt" {
		t.Errorf("status = %+v", changes[0].status)
	}

	// Steady state again.
	mon.Poll()
	if len(changes) != 1 {
		t.Errorf("steady state must not fire, got %d changes", len(changes))
	}
}

func TestMonitor_StartStop(t *testing.T) {
	m := newTestManager(&scriptedExec{out: map[string]string{
		"status": "VPN is disconnected",
	}})
	mon := NewMonitor(m, 10*time.Millisecond, discardLogger{})

	mon.Start()
	mon.Start() // second Start is a no-op
	if !mon.IsRunning() {
		t.Error("monitor should be running after Start")
	}

	mon.Stop()
	mon.Stop() // second Stop is a no-op
	if mon.IsRunning() {
		t.Error("monitor should not be running after Stop")
	}
}

func TestMonitor_DefaultInterval(t *testing.T) {
	m := newTestManager(&scriptedExec{})
	mon := NewMonitor(m, 0, discardLogger{})
	if mon.interval != common.StatusPollInterval {
		t.Errorf("interval = %v, want %v", mon.interval, common.StatusPollInterval)
	}
}

func TestMonitor_PollSurvivesCLIFailure(t *testing.T) {
	script := &scriptedExec{fail: map[string]error{"status": context.DeadlineExceeded}}
	m := newTestManager(script)
	mon := NewMonitor(m, time.Hour, discardLogger{})

	fired := 0
	mon.SetOnChange(func(common.ConnectionState, common.ConnectionState, cli.Status) { fired++ })

	mon.Poll()
	if m.State() != common.StateError {
		t.Errorf("State() = %v, want Error after failed poll", m.State())
	}
	if fired != 1 {
		t.Errorf("error transition should fire once, got %d", fired)
	}
}

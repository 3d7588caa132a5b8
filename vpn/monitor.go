package vpn

import (
	"context"
	"sync"
	"time"

	"github.com/markotdel/adguardvpn-gui/cli"
	"github.com/markotdel/adguardvpn-gui/common"
)

// Monitor polls the manager's status on a timer and reports transitions.
// A slow CLI call never stacks: at most one poll is in flight.
type Monitor struct {
	mu       sync.Mutex
	manager  *Manager
	logger   common.Logger
	interval time.Duration
	running  bool
	inFlight bool
	stopCh   chan struct{}
	onChange func(oldState, newState common.ConnectionState, status cli.Status)
}

// NewMonitor creates a monitor polling at interval (<= 0 selects the
// default).
func NewMonitor(manager *Manager, interval time.Duration, logger common.Logger) *Monitor {
	if interval <= 0 {
		interval = common.StatusPollInterval
	}
	return &Monitor{
		manager:  manager,
		logger:   logger,
		interval: interval,
	}
}

// SetOnChange registers the transition callback. It runs on the monitor's
// goroutine; UI callers must hop back to the main loop themselves.
func (mon *Monitor) SetOnChange(fn func(oldState, newState common.ConnectionState, status cli.Status)) {
	mon.mu.Lock()
	defer mon.mu.Unlock()
	mon.onChange = fn
}

// Start begins polling. Safe to call when already running.
func (mon *Monitor) Start() {
	mon.mu.Lock()
	if mon.running {
		mon.mu.Unlock()
		return
	}
	mon.running = true
	mon.stopCh = make(chan struct{})
	stop := mon.stopCh
	mon.mu.Unlock()

	mon.logger.Info("status monitor started (interval %v)", mon.interval)
	go mon.loop(stop)
}

// Stop halts polling. Safe to call when not running.
func (mon *Monitor) Stop() {
	mon.mu.Lock()
	if !mon.running {
		mon.mu.Unlock()
		return
	}
	mon.running = false
	close(mon.stopCh)
	mon.mu.Unlock()

	mon.logger.Info("status monitor stopped")
}

// IsRunning reports whether the monitor is polling.
func (mon *Monitor) IsRunning() bool {
	mon.mu.Lock()
	defer mon.mu.Unlock()
	return mon.running
}

func (mon *Monitor) loop(stop chan struct{}) {
	ticker := time.NewTicker(mon.interval)
	defer ticker.Stop()

	mon.Poll()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			mon.Poll()
		}
	}
}

// Poll refreshes the status once and fires the callback on a transition.
// A poll already in flight makes this a no-op.
func (mon *Monitor) Poll() {
	mon.mu.Lock()
	if mon.inFlight {
		mon.mu.Unlock()
		return
	}
	mon.inFlight = true
	fn := mon.onChange
	mon.mu.Unlock()

	defer func() {
		mon.mu.Lock()
		mon.inFlight = false
		mon.mu.Unlock()
	}()

	oldState := mon.manager.State()
	if err := mon.manager.Refresh(context.Background()); err != nil {
		mon.logger.Debug("status poll failed: %v", err)
	}
	newState := mon.manager.State()

	if newState != oldState && fn != nil {
		fn(oldState, newState, mon.manager.Status())
	}
}

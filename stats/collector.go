package stats

import (
	"sync"
	"time"

	"github.com/markotdel/adguardvpn-gui/common"
)

// Collector samples the tunnel interface byte counters while a connection
// is up and accumulates the deltas into the store. Counter resets (the
// interface was recreated) are treated as a fresh baseline, never as
// negative traffic.
type Collector struct {
	store  *Store
	logger common.Logger

	mu        sync.Mutex
	iface     string
	sessionID string
	lastRX    int64
	lastTX    int64
	sessRX    int64
	sessTX    int64
	ticker    *time.Ticker
	stopCh    chan struct{}
	running   bool

	// readBytes is swapped out by tests.
	readBytes func(iface string) (rx, tx int64, err error)
}

// NewCollector creates a collector writing to store.
func NewCollector(store *Store, logger common.Logger) *Collector {
	return &Collector{
		store:     store,
		logger:    logger,
		readBytes: InterfaceBytes,
	}
}

// Start begins sampling the named interface for a new session. Any
// previous session is ended first.
func (c *Collector) Start(iface, location string) {
	c.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.iface = iface
	c.sessRX, c.sessTX = 0, 0

	rx, tx, err := c.readBytes(iface)
	if err != nil {
		// The interface may not exist yet right after connect.
		rx, tx = 0, 0
	}
	c.lastRX, c.lastTX = rx, tx

	id, err := c.store.BeginSession(location, time.Now())
	if err != nil {
		c.logger.Warn("could not record session start: %v", err)
	}
	c.sessionID = id

	c.ticker = time.NewTicker(common.StatsTickInterval)
	c.stopCh = make(chan struct{})
	c.running = true
	go c.loop(c.ticker, c.stopCh)
}

// Stop ends the current session and stops sampling. Safe to call when not
// running.
func (c *Collector) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.ticker.Stop()
	close(c.stopCh)
	id := c.sessionID
	rx, tx := c.sessRX, c.sessTX
	c.mu.Unlock()

	if id != "" {
		if err := c.store.EndSession(id, time.Now(), rx, tx); err != nil {
			c.logger.Warn("could not record session end: %v", err)
		}
	}
}

// SessionTraffic returns the bytes accumulated in the current session.
func (c *Collector) SessionTraffic() (rx, tx int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessRX, c.sessTX
}

func (c *Collector) loop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.sample()
		}
	}
}

func (c *Collector) sample() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	iface := c.iface
	rx, tx, err := c.readBytes(iface)
	if err != nil {
		c.mu.Unlock()
		return
	}

	drx := rx - c.lastRX
	dtx := tx - c.lastTX
	if drx < 0 {
		drx = 0
	}
	if dtx < 0 {
		dtx = 0
	}
	c.lastRX, c.lastTX = rx, tx
	c.sessRX += drx
	c.sessTX += dtx
	c.mu.Unlock()

	if drx == 0 && dtx == 0 {
		return
	}
	if err := c.store.AddTraffic(Today(), drx, dtx); err != nil {
		c.logger.Warn("could not record traffic: %v", err)
	}
}

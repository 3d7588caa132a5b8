package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_AddTrafficAccumulates(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddTraffic("2026-08-23", 100, 50); err != nil {
		t.Fatalf("AddTraffic() error = %v", err)
	}
	if err := s.AddTraffic("2026-08-23", 25, 10); err != nil {
		t.Fatalf("AddTraffic() error = %v", err)
	}

	got, err := s.DayTotal("2026-08-23")
	if err != nil {
		t.Fatalf("DayTotal() error = %v", err)
	}
	if got.RX != 125 || got.TX != 60 {
		t.Errorf("DayTotal() = %+v, want rx=125 tx=60", got)
	}
}

func TestStore_DayTotalMissingDayIsZero(t *testing.T) {
	s := openTestStore(t)

	got, err := s.DayTotal("1999-01-01")
	if err != nil {
		t.Fatalf("DayTotal() error = %v", err)
	}
	if got.RX != 0 || got.TX != 0 {
		t.Errorf("DayTotal() = %+v, want zeros", got)
	}
}

func TestStore_HistoryNewestFirst(t *testing.T) {
	s := openTestStore(t)

	days := []string{"2026-08-20", "2026-08-22", "2026-08-21"}
	for i, d := range days {
		if err := s.AddTraffic(d, int64(i+1), 0); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.History(2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("History() returned %d rows, want 2", len(got))
	}
	if got[0].Day != "2026-08-22" || got[1].Day != "2026-08-21" {
		t.Errorf("History() order = %s, %s", got[0].Day, got[1].Day)
	}
}

func TestStore_SessionLifecycle(t *testing.T) {
	s := openTestStore(t)

	start := time.Date(2026, 8, 23, 10, 0, 0, 0, time.Local)
	id, err := s.BeginSession("Frankfurt", start)
	if err != nil {
		t.Fatalf("BeginSession() error = %v", err)
	}
	if id == "" {
		t.Fatal("BeginSession() returned empty id")
	}

	open, err := s.RecentSessions(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || !open[0].EndedAt.IsZero() {
		t.Errorf("open session = %+v, want EndedAt zero", open)
	}

	end := start.Add(30 * time.Minute)
	if err := s.EndSession(id, end, 1_000_000, 200_000); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	done, err := s.RecentSessions(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 {
		t.Fatalf("RecentSessions() returned %d rows, want 1", len(done))
	}
	sess := done[0]
	if sess.Location != "Frankfurt" || sess.RX != 1_000_000 || sess.TX != 200_000 {
		t.Errorf("session = %+v", sess)
	}
	if !sess.EndedAt.Equal(end.Truncate(time.Second)) {
		t.Errorf("EndedAt = %v, want %v", sess.EndedAt, end)
	}
}

func TestInterfaceBytes(t *testing.T) {
	root := t.TempDir()
	statDir := filepath.Join(root, "tun0", "statistics")
	if err := os.MkdirAll(statDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(statDir, "rx_bytes"), []byte("12345\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(statDir, "tx_bytes"), []byte("678\n"), 0644); err != nil {
		t.Fatal(err)
	}

	orig := sysClassNet
	sysClassNet = root
	t.Cleanup(func() { sysClassNet = orig })

	rx, tx, err := InterfaceBytes("tun0")
	if err != nil {
		t.Fatalf("InterfaceBytes() error = %v", err)
	}
	if rx != 12345 || tx != 678 {
		t.Errorf("InterfaceBytes() = %d, %d", rx, tx)
	}

	if _, _, err := InterfaceBytes("missing0"); err == nil {
		t.Error("InterfaceBytes(missing) should fail")
	}
}

func TestCollector_ClampsCounterResets(t *testing.T) {
	s := openTestStore(t)

	samples := [][2]int64{{1000, 500}, {1100, 600}, {50, 20}, {150, 70}}
	i := 0
	c := NewCollector(s, discardLogger{})
	c.readBytes = func(string) (int64, int64, error) {
		v := samples[i%len(samples)]
		i++
		return v[0], v[1], nil
	}

	// Feed samples directly instead of waiting on the ticker.
	c.mu.Lock()
	c.running = true
	c.iface = "tun0"
	rx, tx, _ := c.readBytes("tun0")
	c.lastRX, c.lastTX = rx, tx
	c.mu.Unlock()

	for range samples[1:] {
		c.sample()
	}

	gotRX, gotTX := c.SessionTraffic()
	// 1000->1100 adds 100, 1100->50 is a reset (clamped to 0), 50->150 adds 100.
	if gotRX != 200 {
		t.Errorf("session rx = %d, want 200", gotRX)
	}
	if gotTX != 150 {
		t.Errorf("session tx = %d, want 150", gotTX)
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}

package stats

import (
	"log"
	"sync"
	"time"

	"stillpoint/internal/core/model"
)

// StorageKey is the persisted-store key holding the serialized ledger.
const StorageKey = "stats"

// Saver persists the full ledger snapshot after every commit.
type Saver interface {
	Set(key string, value any) error
}

// Ledger accumulates completed practice minutes into lifetime totals and a
// calendar-day history. Every commit writes the whole snapshot through to
// storage; a failed write is logged and the in-memory ledger stays
// authoritative.
type Ledger struct {
	mu    sync.Mutex
	data  model.SessionStats
	saver Saver
	now   func() time.Time
}

// New creates a ledger seeded from previously persisted stats.
func New(initial model.SessionStats, saver Saver) *Ledger {
	if initial.DailyMinutes == nil {
		initial.DailyMinutes = map[string]int{}
	}
	return &Ledger{
		data:  initial,
		saver: saver,
		now:   time.Now,
	}
}

// Record commits a finished session of the given length. Callers filter out
// zero-minute early stops before calling.
func (ledger *Ledger) Record(minutes int) {
	ledger.mu.Lock()
	today := ledger.now().Format("2006-01-02")
	ledger.data.TotalMinutes += minutes
	ledger.data.TotalSessions++
	ledger.data.DailyMinutes[today] += minutes
	snapshot := ledger.snapshotLocked()
	ledger.mu.Unlock()

	if ledger.saver == nil {
		return
	}
	if err := ledger.saver.Set(StorageKey, snapshot); err != nil {
		log.Printf("stats: save ledger: %v", err)
	}
}

// Snapshot returns a copy of the current totals and daily history.
func (ledger *Ledger) Snapshot() model.SessionStats {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	return ledger.snapshotLocked()
}

func (ledger *Ledger) snapshotLocked() model.SessionStats {
	daily := make(map[string]int, len(ledger.data.DailyMinutes))
	for day, minutes := range ledger.data.DailyMinutes {
		daily[day] = minutes
	}
	return model.SessionStats{
		TotalMinutes:  ledger.data.TotalMinutes,
		TotalSessions: ledger.data.TotalSessions,
		DailyMinutes:  daily,
	}
}

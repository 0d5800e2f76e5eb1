package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stillpoint/internal/core/model"
)

type fakeSaver struct {
	keys   []string
	saved  []model.SessionStats
	failed bool
}

func (saver *fakeSaver) Set(key string, value any) error {
	if saver.failed {
		return errors.New("disk full")
	}
	saver.keys = append(saver.keys, key)
	saver.saved = append(saver.saved, value.(model.SessionStats))
	return nil
}

func fixedClock(day string) func() time.Time {
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func TestRecord_AccumulatesSameDay(t *testing.T) {
	saver := &fakeSaver{}
	ledger := New(model.NewSessionStats(), saver)
	ledger.now = fixedClock("2026-09-01")

	ledger.Record(5)
	ledger.Record(10)

	snapshot := ledger.Snapshot()
	require.Equal(t, 15, snapshot.TotalMinutes)
	require.Equal(t, 2, snapshot.TotalSessions)
	require.Equal(t, map[string]int{"2026-09-01": 15}, snapshot.DailyMinutes)
}

func TestRecord_BucketsByCalendarDay(t *testing.T) {
	ledger := New(model.NewSessionStats(), nil)

	ledger.now = fixedClock("2026-08-31")
	ledger.Record(20)
	ledger.now = fixedClock("2026-09-01")
	ledger.Record(7)

	snapshot := ledger.Snapshot()
	require.Equal(t, 27, snapshot.TotalMinutes)
	require.Equal(t, map[string]int{
		"2026-08-31": 20,
		"2026-09-01": 7,
	}, snapshot.DailyMinutes)
}

func TestRecord_PersistsWholeSnapshotEveryCommit(t *testing.T) {
	saver := &fakeSaver{}
	ledger := New(model.NewSessionStats(), saver)
	ledger.now = fixedClock("2026-09-01")

	ledger.Record(3)
	ledger.Record(4)

	require.Equal(t, []string{StorageKey, StorageKey}, saver.keys)
	require.Len(t, saver.saved, 2)
	require.Equal(t, 3, saver.saved[0].TotalMinutes)
	require.Equal(t, 7, saver.saved[1].TotalMinutes)
	require.Equal(t, ledger.Snapshot(), saver.saved[1])
}

func TestRecord_SaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	saver := &fakeSaver{failed: true}
	ledger := New(model.NewSessionStats(), saver)
	ledger.now = fixedClock("2026-09-01")

	ledger.Record(12)

	snapshot := ledger.Snapshot()
	require.Equal(t, 12, snapshot.TotalMinutes)
	require.Equal(t, 1, snapshot.TotalSessions)
}

func TestNew_SeedsFromPersistedStats(t *testing.T) {
	ledger := New(model.SessionStats{
		TotalMinutes:  40,
		TotalSessions: 3,
		DailyMinutes:  map[string]int{"2026-08-30": 40},
	}, nil)
	ledger.now = fixedClock("2026-09-01")

	ledger.Record(5)

	snapshot := ledger.Snapshot()
	require.Equal(t, 45, snapshot.TotalMinutes)
	require.Equal(t, 4, snapshot.TotalSessions)
	require.Equal(t, 40, snapshot.DailyMinutes["2026-08-30"])
	require.Equal(t, 5, snapshot.DailyMinutes["2026-09-01"])
}

func TestNew_ToleratesNilDailyMap(t *testing.T) {
	ledger := New(model.SessionStats{TotalMinutes: 10, TotalSessions: 1}, nil)
	ledger.now = fixedClock("2026-09-01")

	ledger.Record(2)
	require.Equal(t, 2, ledger.Snapshot().DailyMinutes["2026-09-01"])
}

func TestSnapshot_IsACopy(t *testing.T) {
	ledger := New(model.NewSessionStats(), nil)
	ledger.now = fixedClock("2026-09-01")
	ledger.Record(5)

	snapshot := ledger.Snapshot()
	snapshot.DailyMinutes["2026-09-01"] = 999

	require.Equal(t, 5, ledger.Snapshot().DailyMinutes["2026-09-01"], "mutating a snapshot must not touch the ledger")
}

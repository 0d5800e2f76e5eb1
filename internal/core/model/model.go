package model

// MinDurationMinutes and MaxDurationMinutes bound a session length.
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 120
)

// SessionConfig is the single input of a meditation session.
type SessionConfig struct {
	DurationMinutes int
}

// Valid reports whether the duration is inside the accepted range.
// Input surfaces must reject invalid configs before the timer sees them.
func (config SessionConfig) Valid() bool {
	return config.DurationMinutes >= MinDurationMinutes && config.DurationMinutes <= MaxDurationMinutes
}

// TotalSeconds returns the countdown length in seconds.
func (config SessionConfig) TotalSeconds() int {
	return config.DurationMinutes * 60
}

// SoundTrack describes one ambient loop from the catalog.
// Enabled and Volume are user-mutable and persisted; ID and Name come
// from the track manifest.
type SoundTrack struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	File    string `json:"file" yaml:"file"`
	Enabled bool   `json:"enabled" yaml:"-"`
	Volume  int    `json:"volume" yaml:"-"`
}

// SessionStats is the cumulative practice ledger. All fields only grow.
type SessionStats struct {
	TotalMinutes  int            `json:"totalMinutes"`
	TotalSessions int            `json:"totalSessions"`
	DailyMinutes  map[string]int `json:"dailyMinutes"`
}

// NewSessionStats returns an empty ledger with an allocated daily map.
func NewSessionStats() SessionStats {
	return SessionStats{DailyMinutes: map[string]int{}}
}

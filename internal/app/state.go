// Package app holds the process-wide state shared by every screen: the
// selected theme and breathing speed, the sound-track catalog and the
// practice ledger. The composition root creates one State, calls Init and
// passes it down; there is no ambient singleton.
package app

import (
	"log"
	"sync"

	"stillpoint/internal/core/cadence"
	"stillpoint/internal/core/model"
	"stillpoint/internal/core/stats"
	"stillpoint/internal/storage"
)

// Persisted store keys.
const (
	KeyTheme  = "currentTheme"
	KeySpeed  = "breathingSpeed"
	KeyTracks = "soundTracks"
)

// DefaultThemeID is used until the user picks a theme.
const DefaultThemeID = "deep-ocean"

// State is the shared application state. Reads return copies; mutators
// write through to storage immediately and keep the in-memory value on
// failure.
type State struct {
	mu      sync.Mutex
	store   *storage.Store
	themeID string
	speed   cadence.Speed
	tracks  []model.SoundTrack
	ledger  *stats.Ledger
}

// NewState creates an uninitialized state over the store.
func NewState(store *storage.Store) *State {
	return &State{
		store:   store,
		themeID: DefaultThemeID,
		speed:   cadence.SpeedNormal,
		ledger:  stats.New(model.NewSessionStats(), store),
	}
}

// Init loads every persisted key. Read failures are logged and the
// defaults stand; the app never refuses to start over bad state files.
func (state *State) Init() {
	state.mu.Lock()
	defer state.mu.Unlock()

	var themeID string
	if found, err := state.store.Get(KeyTheme, &themeID); err != nil {
		log.Printf("app: load theme: %v", err)
	} else if found && themeID != "" {
		state.themeID = themeID
	}

	var speed string
	if found, err := state.store.Get(KeySpeed, &speed); err != nil {
		log.Printf("app: load breathing speed: %v", err)
	} else if found {
		state.speed = cadence.ParseSpeed(speed)
	}

	catalog, err := state.store.LoadCatalog()
	if err != nil {
		log.Printf("app: load track catalog: %v", err)
	}
	var saved []model.SoundTrack
	if _, err := state.store.Get(KeyTracks, &saved); err != nil {
		log.Printf("app: load sound tracks: %v", err)
	}
	state.tracks = mergeTracks(catalog, saved)

	statsData := model.NewSessionStats()
	if _, err := state.store.Get(stats.StorageKey, &statsData); err != nil {
		log.Printf("app: load stats: %v", err)
	}
	state.ledger = stats.New(statsData, state.store)
}

// ThemeID returns the selected theme id.
func (state *State) ThemeID() string {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.themeID
}

// SetTheme selects a theme and persists the choice.
func (state *State) SetTheme(themeID string) {
	state.mu.Lock()
	state.themeID = themeID
	state.mu.Unlock()

	if err := state.store.Set(KeyTheme, themeID); err != nil {
		log.Printf("app: save theme: %v", err)
	}
}

// Speed returns the selected breathing speed.
func (state *State) Speed() cadence.Speed {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.speed
}

// SetSpeed selects a breathing speed and persists the choice.
func (state *State) SetSpeed(speed cadence.Speed) {
	state.mu.Lock()
	state.speed = speed
	state.mu.Unlock()

	if err := state.store.Set(KeySpeed, string(speed)); err != nil {
		log.Printf("app: save breathing speed: %v", err)
	}
}

// Tracks returns a copy of the sound-track catalog with user settings.
func (state *State) Tracks() []model.SoundTrack {
	state.mu.Lock()
	defer state.mu.Unlock()
	tracks := make([]model.SoundTrack, len(state.tracks))
	copy(tracks, state.tracks)
	return tracks
}

// UpdateTrack changes a track's enabled flag and volume, persisting the
// whole track list.
func (state *State) UpdateTrack(trackID string, enabled bool, volume int) {
	state.mu.Lock()
	for index := range state.tracks {
		if state.tracks[index].ID == trackID {
			state.tracks[index].Enabled = enabled
			state.tracks[index].Volume = volume
			break
		}
	}
	tracks := make([]model.SoundTrack, len(state.tracks))
	copy(tracks, state.tracks)
	state.mu.Unlock()

	if err := state.store.Set(KeyTracks, tracks); err != nil {
		log.Printf("app: save sound tracks: %v", err)
	}
}

// Ledger returns the practice statistics ledger.
func (state *State) Ledger() *stats.Ledger {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.ledger
}

// Stats returns the current practice totals.
func (state *State) Stats() model.SessionStats {
	return state.Ledger().Snapshot()
}

// mergeTracks overlays persisted enabled/volume settings onto the catalog.
// The manifest stays authoritative for id, name and file.
func mergeTracks(catalog, saved []model.SoundTrack) []model.SoundTrack {
	savedByID := make(map[string]model.SoundTrack, len(saved))
	for _, track := range saved {
		savedByID[track.ID] = track
	}
	merged := make([]model.SoundTrack, len(catalog))
	copy(merged, catalog)
	for index := range merged {
		if track, ok := savedByID[merged[index].ID]; ok {
			merged[index].Enabled = track.Enabled
			merged[index].Volume = clampVolume(track.Volume)
		}
	}
	return merged
}

func clampVolume(volume int) int {
	if volume < 0 {
		return 0
	}
	if volume > 100 {
		return 100
	}
	return volume
}

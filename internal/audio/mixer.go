package audio

import (
	"context"
	"log"
	"sync"

	"stillpoint/internal/core/model"
)

// MasterGainCap is the fixed ceiling multiplied into every track's
// effective volume. Ambient loops must never overpower a silent room,
// however high the user pushes a slider.
const MasterGainCap = 0.3

// EffectiveGain converts a 0..100 user volume into the applied gain.
func EffectiveGain(volume int) float64 {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	return float64(volume) / 100 * MasterGainCap
}

// Handle is one loaded looping audio resource.
type Handle interface {
	SetGain(ctx context.Context, gain float64) error
	Start(ctx context.Context) error
	// Stop halts playback and rewinds to the beginning, so a later Start
	// plays from the top of the loop.
	Stop(ctx context.Context) error
	IsPlaying(ctx context.Context) (bool, error)
	Close() error
}

// Engine creates looping playback resources for audio assets.
type Engine interface {
	CreateLoop(ctx context.Context, asset string) (Handle, error)
}

// trackHandle pairs a loaded resource with its own mutex so operations on
// one track are serialized: a quick toggle off/on cannot land its stop and
// play out of order.
type trackHandle struct {
	mu     sync.Mutex
	handle Handle
	gain   float64
}

// Mixer owns the set of loaded ambient loops. Every operation degrades to
// a log line on failure; a track that cannot load or play stays silent
// while the session continues.
type Mixer struct {
	mu      sync.Mutex
	engine  Engine
	handles map[string]*trackHandle
}

// NewMixer creates a mixer over the given playback engine. A nil engine is
// tolerated: every track simply fails to load.
func NewMixer(engine Engine) *Mixer {
	return &Mixer{
		engine:  engine,
		handles: map[string]*trackHandle{},
	}
}

// Load acquires a silent looping resource for the track. Loading an
// already-loaded id is a no-op.
func (mixer *Mixer) Load(ctx context.Context, track model.SoundTrack) {
	mixer.mu.Lock()
	if _, ok := mixer.handles[track.ID]; ok {
		mixer.mu.Unlock()
		return
	}
	if mixer.engine == nil {
		mixer.mu.Unlock()
		log.Printf("audio: load %s: engine unavailable", track.ID)
		return
	}
	entry := &trackHandle{}
	entry.mu.Lock()
	mixer.handles[track.ID] = entry
	mixer.mu.Unlock()

	handle, err := mixer.engine.CreateLoop(ctx, track.File)
	if err != nil {
		entry.mu.Unlock()
		mixer.mu.Lock()
		delete(mixer.handles, track.ID)
		mixer.mu.Unlock()
		log.Printf("audio: load %s: %v", track.ID, err)
		return
	}
	entry.handle = handle
	entry.mu.Unlock()
}

// Play applies the capped gain for the stored volume and starts the loop
// if it is not already playing. A playing track only has its gain changed;
// it is never restarted.
func (mixer *Mixer) Play(ctx context.Context, trackID string, volume int) {
	entry := mixer.lookup(trackID)
	if entry == nil {
		log.Printf("audio: play %s: not loaded", trackID)
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	gain := EffectiveGain(volume)
	if err := entry.handle.SetGain(ctx, gain); err != nil {
		log.Printf("audio: play %s: set gain: %v", trackID, err)
		return
	}
	entry.gain = gain

	playing, err := entry.handle.IsPlaying(ctx)
	if err != nil {
		log.Printf("audio: play %s: query state: %v", trackID, err)
		return
	}
	if !playing {
		if err := entry.handle.Start(ctx); err != nil {
			log.Printf("audio: play %s: %v", trackID, err)
		}
	}
}

// Stop halts a playing track and rewinds it. Unknown or idle tracks are
// no-ops.
func (mixer *Mixer) Stop(ctx context.Context, trackID string) {
	entry := mixer.lookup(trackID)
	if entry == nil {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	playing, err := entry.handle.IsPlaying(ctx)
	if err != nil {
		log.Printf("audio: stop %s: query state: %v", trackID, err)
		return
	}
	if !playing {
		return
	}
	if err := entry.handle.Stop(ctx); err != nil {
		log.Printf("audio: stop %s: %v", trackID, err)
	}
}

// SetVolume re-gains a track without interrupting playback.
func (mixer *Mixer) SetVolume(ctx context.Context, trackID string, volume int) {
	entry := mixer.lookup(trackID)
	if entry == nil {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	gain := EffectiveGain(volume)
	if err := entry.handle.SetGain(ctx, gain); err != nil {
		log.Printf("audio: set volume %s: %v", trackID, err)
		return
	}
	entry.gain = gain
}

// Gain returns the last applied effective gain for a loaded track.
func (mixer *Mixer) Gain(trackID string) (float64, bool) {
	entry := mixer.lookup(trackID)
	if entry == nil {
		return 0, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.gain, true
}

// Loaded reports whether the track has a playback handle.
func (mixer *Mixer) Loaded(trackID string) bool {
	return mixer.lookup(trackID) != nil
}

// StopAll silences every loaded track. The session screen waits on this
// before considering teardown finished so no loop outlives the UI.
func (mixer *Mixer) StopAll(ctx context.Context) {
	var wait sync.WaitGroup
	for _, trackID := range mixer.trackIDs() {
		wait.Add(1)
		go func(id string) {
			defer wait.Done()
			mixer.Stop(ctx, id)
		}(trackID)
	}
	wait.Wait()
}

// UnloadAll releases every loaded resource. Used at app teardown only.
func (mixer *Mixer) UnloadAll(ctx context.Context) {
	mixer.mu.Lock()
	handles := mixer.handles
	mixer.handles = map[string]*trackHandle{}
	mixer.mu.Unlock()

	for trackID, entry := range handles {
		entry.mu.Lock()
		if entry.handle != nil {
			_ = entry.handle.Stop(ctx)
			if err := entry.handle.Close(); err != nil {
				log.Printf("audio: unload %s: %v", trackID, err)
			}
		}
		entry.mu.Unlock()
	}
}

// lookup returns the track entry only once its handle is ready; an entry
// still loading counts as not loaded.
func (mixer *Mixer) lookup(trackID string) *trackHandle {
	mixer.mu.Lock()
	entry, ok := mixer.handles[trackID]
	mixer.mu.Unlock()
	if !ok {
		return nil
	}
	entry.mu.Lock()
	ready := entry.handle != nil
	entry.mu.Unlock()
	if !ready {
		return nil
	}
	return entry
}

func (mixer *Mixer) trackIDs() []string {
	mixer.mu.Lock()
	defer mixer.mu.Unlock()
	ids := make([]string, 0, len(mixer.handles))
	for trackID := range mixer.handles {
		ids = append(ids, trackID)
	}
	return ids
}

package timer

import (
	"context"
	"sync"
	"time"

	"stillpoint/internal/core/model"
)

// Cadence gates the breathing animation on and off with the countdown.
type Cadence interface {
	Activate()
	Deactivate()
}

// Mixer controls ambient track playback for the session.
type Mixer interface {
	Play(ctx context.Context, trackID string, volume int)
	StopAll(ctx context.Context)
}

// Ledger accumulates completed practice minutes.
type Ledger interface {
	Record(minutes int)
}

// Config contains runtime options for Timer.
type Config struct {
	TickInterval time.Duration
}

// Timer is the state machine coordinating one meditation session: it owns
// the countdown, drives the cadence engine's active flag, and silences the
// mixer and commits minutes to the ledger on any terminal transition.
// A Timer is single-use; the session screen creates one per session.
type Timer struct {
	mu        sync.Mutex
	options   Config
	cadence   Cadence
	mixer     Mixer
	ledger    Ledger
	ctx       context.Context
	total     int
	remaining int
	phase     Phase
	events    []chan Event
	stopCh    chan struct{}
	started   bool
}

// New creates a session timer with its collaborators.
func New(cadence Cadence, mixer Mixer, ledger Ledger, options Config) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	return &Timer{
		options: options,
		cadence: cadence,
		mixer:   mixer,
		ledger:  ledger,
		stopCh:  make(chan struct{}),
	}
}

// Subscribe registers a new observer channel. Channels are closed after the
// terminal event has been emitted.
func (session *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	session.mu.Lock()
	if session.phase.Terminal() {
		session.mu.Unlock()
		close(ch)
		return ch
	}
	session.events = append(session.events, ch)
	session.mu.Unlock()
	return ch
}

// Start seeds the countdown, activates the cadence engine, starts every
// enabled track at its stored volume and launches the ticking loop.
// The config must already be validated by the input surface.
func (session *Timer) Start(ctx context.Context, config model.SessionConfig, tracks []model.SoundTrack) {
	session.mu.Lock()
	if session.started {
		session.mu.Unlock()
		return
	}
	session.started = true
	session.ctx = ctx
	session.total = config.TotalSeconds()
	session.remaining = session.total
	session.phase = PhaseRunning

	session.cadence.Activate()
	for _, track := range tracks {
		if track.Enabled {
			session.mixer.Play(ctx, track.ID, track.Volume)
		}
	}
	session.emitLocked(Event{
		Type:      EventPhaseChange,
		Phase:     PhaseRunning,
		Remaining: session.remaining,
		At:        time.Now(),
	})
	session.mu.Unlock()

	go session.run()
}

// Tick advances the countdown by one second. It is a no-op in any phase
// other than Running, so a late ticker fire after pause or stop is safe.
func (session *Timer) Tick() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseRunning {
		return
	}

	session.remaining--
	if session.remaining <= 0 {
		session.remaining = 0
		session.finishLocked(PhaseCompleted, session.total/60, true)
		return
	}
	session.emitLocked(Event{
		Type:      EventTick,
		Phase:     PhaseRunning,
		Remaining: session.remaining,
		At:        time.Now(),
	})
}

// Pause freezes the countdown and rests the breathing circle.
func (session *Timer) Pause() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseRunning {
		return
	}
	session.phase = PhasePaused
	session.cadence.Deactivate()
	session.emitLocked(Event{
		Type:      EventPhaseChange,
		Phase:     PhasePaused,
		Remaining: session.remaining,
		At:        time.Now(),
	})
}

// Resume restarts the countdown and the breathing circle together.
func (session *Timer) Resume() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhasePaused {
		return
	}
	session.phase = PhaseRunning
	session.cadence.Activate()
	session.emitLocked(Event{
		Type:      EventPhaseChange,
		Phase:     PhaseRunning,
		Remaining: session.remaining,
		At:        time.Now(),
	})
}

// Stop ends the session early. Whole elapsed minutes are committed to the
// ledger when nonzero; audio and cadence are silenced regardless.
func (session *Timer) Stop() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.phase != PhaseRunning && session.phase != PhasePaused {
		return
	}
	minutes := (session.total - session.remaining) / 60
	session.finishLocked(PhaseStopped, minutes, minutes > 0)
}

// State is a point-in-time snapshot of the countdown.
type State struct {
	TotalSeconds     int
	RemainingSeconds int
	Paused           bool
	Phase            Phase
}

// State returns the current countdown snapshot.
func (session *Timer) State() State {
	session.mu.Lock()
	defer session.mu.Unlock()
	return State{
		TotalSeconds:     session.total,
		RemainingSeconds: session.remaining,
		Paused:           session.phase == PhasePaused,
		Phase:            session.phase,
	}
}

func (session *Timer) run() {
	ticker := time.NewTicker(session.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-session.stopCh:
			return
		case <-ticker.C:
			session.Tick()
		}
	}
}

// finishLocked applies a terminal transition: commit, silence, deactivate,
// notify, cancel the tick loop. Commit happens before silencing so minutes
// are never lost however the session ends.
func (session *Timer) finishLocked(phase Phase, minutes int, commit bool) {
	session.phase = phase
	close(session.stopCh)

	if commit {
		session.ledger.Record(minutes)
	}
	session.mixer.StopAll(session.ctx)
	session.cadence.Deactivate()

	eventType := EventStopped
	if phase == PhaseCompleted {
		eventType = EventCompleted
	}
	session.emitLocked(Event{
		Type:      eventType,
		Phase:     phase,
		Remaining: session.remaining,
		Minutes:   minutes,
		At:        time.Now(),
	})

	for _, ch := range session.events {
		close(ch)
	}
	session.events = nil
}

func (session *Timer) emitLocked(event Event) {
	for _, ch := range session.events {
		select {
		case ch <- event:
		default:
		}
	}
}

package cadence

import (
	"context"
	"sync"
	"time"
)

// DefaultFrameInterval is the spacing between pushed frames.
const DefaultFrameInterval = 33 * time.Millisecond

// Engine drives the breathing cycle as a restartable frame loop. While
// active it pushes a pose through the callback at the frame interval;
// deactivating cancels the loop and settles the circle back to rest over
// ReleaseDuration. The callback runs on the engine's goroutine, so UI
// consumers must marshal onto their own thread.
type Engine struct {
	mu        sync.Mutex
	profile   Profile
	interval  time.Duration
	pushFrame func(Frame)
	cancel    context.CancelFunc
	last      Frame
	active    bool
}

// New creates an engine with the given profile and frame callback.
func New(profile Profile, pushFrame func(Frame)) *Engine {
	return &Engine{
		profile:   profile,
		interval:  DefaultFrameInterval,
		pushFrame: pushFrame,
		last:      Rest(),
	}
}

// SetProfile swaps the breathing profile. An active cycle restarts from
// inhale so the new timings apply cleanly.
func (engine *Engine) SetProfile(profile Profile) {
	engine.mu.Lock()
	engine.profile = profile
	wasActive := engine.active
	engine.mu.Unlock()

	if wasActive {
		engine.Activate()
	}
}

// Active reports whether the breathing cycle is running.
func (engine *Engine) Active() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.active
}

// Activate starts (or restarts) the breathing cycle at the beginning of
// inhale.
func (engine *Engine) Activate() {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	engine.cancel = cancel
	engine.active = true
	profile := engine.profile
	engine.mu.Unlock()

	go engine.runCycle(runCtx, profile)
}

// Deactivate cancels the cycle and animates the circle back to rest.
func (engine *Engine) Deactivate() {
	engine.mu.Lock()
	if !engine.active {
		engine.mu.Unlock()
		return
	}
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(context.Background())
	engine.cancel = cancel
	engine.active = false
	from := engine.last
	engine.mu.Unlock()

	go engine.runRelease(runCtx, from)
}

// Stop terminates any running loop without the release animation. Used at
// screen teardown.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
	engine.active = false
}

func (engine *Engine) runCycle(ctx context.Context, profile Profile) {
	start := time.Now()
	ticker := time.NewTicker(engine.interval)
	defer ticker.Stop()

	engine.push(profile.FrameAt(0))
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			engine.push(profile.FrameAt(now.Sub(start)))
		}
	}
}

func (engine *Engine) runRelease(ctx context.Context, from Frame) {
	start := time.Now()
	ticker := time.NewTicker(engine.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			engine.push(Release(from, elapsed))
			if elapsed >= ReleaseDuration {
				return
			}
		}
	}
}

func (engine *Engine) push(frame Frame) {
	engine.mu.Lock()
	engine.last = frame
	callback := engine.pushFrame
	engine.mu.Unlock()

	if callback != nil {
		callback(frame)
	}
}

// Package beepengine implements the mixer's playback engine on top of the
// beep speaker. Each loop is an mp3 stream wrapped in an infinite looper,
// a gain stage and a pause control, mixed by the shared speaker.
package beepengine

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"stillpoint/internal/audio"
)

const mixRate = beep.SampleRate(44100)

// Engine owns the speaker. Create exactly one per process.
type Engine struct{}

// New initializes the speaker mix loop.
func New() (*Engine, error) {
	if err := speaker.Init(mixRate, mixRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Engine{}, nil
}

// Close shuts the speaker down.
func (engine *Engine) Close() {
	speaker.Close()
}

// CreateLoop decodes the asset and attaches it to the speaker, silent and
// paused. The returned handle starts, stops and re-gains the loop.
func (engine *Engine) CreateLoop(ctx context.Context, asset string) (audio.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(asset)
	if err != nil {
		return nil, fmt.Errorf("open audio asset: %w", err)
	}

	stream, format, err := mp3.Decode(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("decode audio asset: %w", err)
	}

	looped, err := beep.Loop2(stream)
	if err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("loop audio asset: %w", err)
	}

	var source beep.Streamer = looped
	if format.SampleRate != mixRate {
		source = beep.Resample(4, format.SampleRate, mixRate, looped)
	}

	// Gain 0 maps to effects.Gain -1 (full attenuation).
	gainStage := &effects.Gain{Streamer: source, Gain: -1}
	control := &beep.Ctrl{Streamer: gainStage, Paused: true}
	speaker.Play(control)

	return &loopHandle{
		stream:  stream,
		gain:    gainStage,
		control: control,
	}, nil
}

type loopHandle struct {
	mu      sync.Mutex
	stream  beep.StreamSeekCloser
	gain    *effects.Gain
	control *beep.Ctrl
	playing bool
	closed  bool
}

func (handle *loopHandle) SetGain(ctx context.Context, gain float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	if handle.closed {
		return fmt.Errorf("loop closed")
	}
	speaker.Lock()
	handle.gain.Gain = gain - 1
	speaker.Unlock()
	return nil
}

func (handle *loopHandle) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	if handle.closed {
		return fmt.Errorf("loop closed")
	}
	speaker.Lock()
	handle.control.Paused = false
	speaker.Unlock()
	handle.playing = true
	return nil
}

func (handle *loopHandle) Stop(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	if handle.closed {
		return nil
	}
	speaker.Lock()
	handle.control.Paused = true
	err := handle.stream.Seek(0)
	speaker.Unlock()
	handle.playing = false
	if err != nil {
		return fmt.Errorf("rewind loop: %w", err)
	}
	return nil
}

func (handle *loopHandle) IsPlaying(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return handle.playing, nil
}

func (handle *loopHandle) Close() error {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	if handle.closed {
		return nil
	}
	handle.closed = true
	handle.playing = false
	speaker.Lock()
	handle.control.Paused = true
	handle.control.Streamer = nil
	speaker.Unlock()
	return handle.stream.Close()
}

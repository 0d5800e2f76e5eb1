package audio

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"stillpoint/internal/core/model"
)

type fakeHandle struct {
	mu      sync.Mutex
	gain    float64
	playing bool
	starts  int
	stops   int
	closed  bool
}

func (handle *fakeHandle) SetGain(_ context.Context, gain float64) error {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	handle.gain = gain
	return nil
}

func (handle *fakeHandle) Start(context.Context) error {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	handle.starts++
	handle.playing = true
	return nil
}

func (handle *fakeHandle) Stop(context.Context) error {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	handle.stops++
	handle.playing = false
	return nil
}

func (handle *fakeHandle) IsPlaying(context.Context) (bool, error) {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return handle.playing, nil
}

func (handle *fakeHandle) Close() error {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	handle.closed = true
	return nil
}

func (handle *fakeHandle) snapshot() fakeHandle {
	handle.mu.Lock()
	defer handle.mu.Unlock()
	return fakeHandle{
		gain:    handle.gain,
		playing: handle.playing,
		starts:  handle.starts,
		stops:   handle.stops,
		closed:  handle.closed,
	}
}

type fakeEngine struct {
	mu      sync.Mutex
	created map[string]int
	handles map[string]*fakeHandle
	fail    bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		created: map[string]int{},
		handles: map[string]*fakeHandle{},
	}
}

func (engine *fakeEngine) CreateLoop(_ context.Context, asset string) (Handle, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.fail {
		return nil, errors.New("decode failed")
	}
	engine.created[asset]++
	handle := &fakeHandle{}
	engine.handles[asset] = handle
	return handle, nil
}

func track(id string) model.SoundTrack {
	return model.SoundTrack{ID: id, Name: id, File: id + ".mp3"}
}

func TestEffectiveGain(t *testing.T) {
	require.InDelta(t, 0.3, EffectiveGain(100), 1e-9)
	require.InDelta(t, 0.15, EffectiveGain(50), 1e-9)
	require.InDelta(t, 0.0, EffectiveGain(0), 1e-9)
	require.InDelta(t, 0.225, EffectiveGain(75), 1e-9)
	require.InDelta(t, 0.0, EffectiveGain(-5), 1e-9, "clamped below")
	require.InDelta(t, 0.3, EffectiveGain(250), 1e-9, "clamped above")
}

func TestLoad_Idempotent(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()

	mixer.Load(ctx, track("ocean-waves"))
	mixer.Load(ctx, track("ocean-waves"))

	require.Equal(t, 1, engine.created["ocean-waves.mp3"], "one handle per track id")
	require.True(t, mixer.Loaded("ocean-waves"))
}

func TestLoad_EngineFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.fail = true
	mixer := NewMixer(engine)
	ctx := context.Background()

	mixer.Load(ctx, track("fire"))
	require.False(t, mixer.Loaded("fire"))

	// A later retry may succeed.
	engine.fail = false
	mixer.Load(ctx, track("fire"))
	require.True(t, mixer.Loaded("fire"))
}

func TestLoad_NilEngine(t *testing.T) {
	mixer := NewMixer(nil)
	ctx := context.Background()

	mixer.Load(ctx, track("thunder"))
	require.False(t, mixer.Loaded("thunder"))
	mixer.Play(ctx, "thunder", 80)
	mixer.StopAll(ctx)
}

func TestPlay_AppliesCappedGain(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	mixer.Load(ctx, track("tibetan-bowls"))

	for volume, expected := range map[int]float64{100: 0.3, 50: 0.15, 0: 0.0} {
		mixer.Play(ctx, "tibetan-bowls", volume)

		gain, ok := mixer.Gain("tibetan-bowls")
		require.True(t, ok)
		require.InDelta(t, expected, gain, 1e-9)
		require.InDelta(t, expected, engine.handles["tibetan-bowls.mp3"].snapshot().gain, 1e-9)
	}
}

func TestPlay_DoesNotRestartPlayingTrack(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	mixer.Load(ctx, track("fire"))

	mixer.Play(ctx, "fire", 50)
	mixer.Play(ctx, "fire", 90)

	state := engine.handles["fire.mp3"].snapshot()
	require.Equal(t, 1, state.starts, "volume changes never restart playback")
	require.True(t, state.playing)
	require.InDelta(t, EffectiveGain(90), state.gain, 1e-9)
}

func TestPlay_UnloadedTrackIsSilentNoOp(t *testing.T) {
	mixer := NewMixer(newFakeEngine())
	mixer.Play(context.Background(), "missing", 50)

	_, ok := mixer.Gain("missing")
	require.False(t, ok)
}

func TestStop_NonPlayingIsNoOp(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	mixer.Load(ctx, track("thunder"))

	mixer.Stop(ctx, "thunder")
	mixer.Stop(ctx, "unknown")

	require.Equal(t, 0, engine.handles["thunder.mp3"].snapshot().stops)
}

func TestStop_HaltsPlayingTrack(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	mixer.Load(ctx, track("thunder"))
	mixer.Play(ctx, "thunder", 60)

	mixer.Stop(ctx, "thunder")

	state := engine.handles["thunder.mp3"].snapshot()
	require.Equal(t, 1, state.stops)
	require.False(t, state.playing)
}

func TestSetVolume_KeepsPlaying(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	mixer.Load(ctx, track("ocean-waves"))
	mixer.Play(ctx, "ocean-waves", 40)

	mixer.SetVolume(ctx, "ocean-waves", 80)

	state := engine.handles["ocean-waves.mp3"].snapshot()
	require.True(t, state.playing)
	require.Equal(t, 1, state.starts)
	require.InDelta(t, EffectiveGain(80), state.gain, 1e-9)
}

func TestStopAll_SilencesEveryTrack(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	for _, id := range []string{"ocean-waves", "thunder", "fire"} {
		mixer.Load(ctx, track(id))
	}
	mixer.Play(ctx, "ocean-waves", 50)
	mixer.Play(ctx, "fire", 50)

	mixer.StopAll(ctx)

	for asset, handle := range engine.handles {
		require.False(t, handle.snapshot().playing, "%s still playing", asset)
	}
}

func TestUnloadAll_ReleasesHandles(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	mixer.Load(ctx, track("ocean-waves"))
	mixer.Load(ctx, track("fire"))
	mixer.Play(ctx, "fire", 30)

	mixer.UnloadAll(ctx)

	require.False(t, mixer.Loaded("ocean-waves"))
	require.False(t, mixer.Loaded("fire"))
	for asset, handle := range engine.handles {
		require.True(t, handle.snapshot().closed, "%s not closed", asset)
	}
}

func TestConcurrentToggles_StaySerialized(t *testing.T) {
	engine := newFakeEngine()
	mixer := NewMixer(engine)
	ctx := context.Background()
	mixer.Load(ctx, track("street-ambience"))

	var wait sync.WaitGroup
	for i := 0; i < 50; i++ {
		wait.Add(2)
		go func() {
			defer wait.Done()
			mixer.Play(ctx, "street-ambience", 60)
		}()
		go func() {
			defer wait.Done()
			mixer.Stop(ctx, "street-ambience")
		}()
	}
	wait.Wait()

	// Serialized per-track operations always leave a coherent final state.
	state := engine.handles["street-ambience.mp3"].snapshot()
	require.GreaterOrEqual(t, state.starts, state.stops)
}

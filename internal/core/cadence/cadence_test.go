package cadence

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSpeed(t *testing.T) {
	require.Equal(t, SpeedNormal, ParseSpeed("normal"))
	require.Equal(t, SpeedSlow, ParseSpeed("slow"))
	require.Equal(t, SpeedNormal, ParseSpeed(""), "unknown values default to normal")
	require.Equal(t, SpeedNormal, ParseSpeed("fast"))
}

func TestProfileFor(t *testing.T) {
	normal := ProfileFor(SpeedNormal)
	require.Equal(t, 4*time.Second, normal.Inhale)
	require.Equal(t, 2*time.Second, normal.Hold)
	require.Equal(t, 6*time.Second, normal.Exhale)
	require.Equal(t, 12*time.Second, normal.Cycle())

	slow := ProfileFor(SpeedSlow)
	require.Equal(t, 5*time.Second, slow.Inhale)
	require.Equal(t, 3*time.Second, slow.Hold)
	require.Equal(t, 7*time.Second, slow.Exhale)
	require.Equal(t, 15*time.Second, slow.Cycle())
}

func TestFrameAt_StartsAtRest(t *testing.T) {
	frame := ProfileFor(SpeedNormal).FrameAt(0)
	require.InDelta(t, RestScale, frame.Scale, 1e-9)
	require.InDelta(t, RestOpacity, frame.Opacity, 1e-9)
}

func TestFrameAt_PeaksThroughHold(t *testing.T) {
	profile := ProfileFor(SpeedNormal)

	for _, elapsed := range []time.Duration{
		profile.Inhale,
		profile.Inhale + profile.Hold/2,
		profile.Inhale + profile.Hold - time.Millisecond,
	} {
		frame := profile.FrameAt(elapsed)
		require.InDelta(t, PeakScale, frame.Scale, 1e-9, "held high at %v", elapsed)
		require.InDelta(t, PeakOpacity, frame.Opacity, 1e-9, "held bright at %v", elapsed)
	}
}

func TestFrameAt_ExhaleReturnsToRest(t *testing.T) {
	profile := ProfileFor(SpeedSlow)
	frame := profile.FrameAt(profile.Cycle() - time.Millisecond)
	require.InDelta(t, RestScale, frame.Scale, 0.001)
	require.InDelta(t, RestOpacity, frame.Opacity, 0.001)
}

func TestFrameAt_Loops(t *testing.T) {
	profile := ProfileFor(SpeedNormal)
	for _, offset := range []time.Duration{0, time.Second, 7 * time.Second, 11 * time.Second} {
		first := profile.FrameAt(offset)
		wrapped := profile.FrameAt(profile.Cycle() + offset)
		require.InDelta(t, first.Scale, wrapped.Scale, 1e-9)
		require.InDelta(t, first.Opacity, wrapped.Opacity, 1e-9)
	}
}

func TestFrameAt_ScaleStaysInBounds(t *testing.T) {
	profile := ProfileFor(SpeedNormal)
	for elapsed := time.Duration(0); elapsed < 2*profile.Cycle(); elapsed += 100 * time.Millisecond {
		frame := profile.FrameAt(elapsed)
		require.GreaterOrEqual(t, frame.Scale, RestScale)
		require.LessOrEqual(t, frame.Scale, PeakScale)
		require.GreaterOrEqual(t, frame.Opacity, RestOpacity)
		require.LessOrEqual(t, frame.Opacity, PeakOpacity)
	}
}

func TestRelease_SettlesToRest(t *testing.T) {
	from := Frame{Scale: PeakScale, Opacity: PeakOpacity}

	start := Release(from, 0)
	require.InDelta(t, from.Scale, start.Scale, 1e-9)

	middle := Release(from, ReleaseDuration/2)
	require.Less(t, middle.Scale, from.Scale)
	require.Greater(t, middle.Scale, RestScale)

	done := Release(from, ReleaseDuration)
	require.Equal(t, Rest(), done)
	require.Equal(t, Rest(), Release(from, time.Minute), "late frames stay at rest")
}

func TestEase_Endpoints(t *testing.T) {
	require.Equal(t, 0.0, ease(0))
	require.Equal(t, 1.0, ease(1))
	require.InDelta(t, 0.5, ease(0.5), 1e-9)
	require.Equal(t, 0.0, ease(-1), "clamped below")
	require.Equal(t, 1.0, ease(2), "clamped above")
}

func TestEngine_ActivatePushesFrames(t *testing.T) {
	frames := make(chan Frame, 256)
	engine := New(ProfileFor(SpeedNormal), func(frame Frame) {
		select {
		case frames <- frame:
		default:
		}
	})
	defer engine.Stop()

	engine.Activate()
	require.True(t, engine.Active())
	require.Eventually(t, func() bool {
		return len(frames) > 0
	}, time.Second, 10*time.Millisecond, "frames flow while active")

	first := <-frames
	require.InDelta(t, RestScale, first.Scale, 0.01, "cycle restarts at inhale")
}

func TestEngine_DeactivateReleasesToRest(t *testing.T) {
	var recorder frameRecorder
	engine := New(ProfileFor(SpeedNormal), recorder.record)
	defer engine.Stop()

	engine.Activate()
	require.Eventually(t, func() bool { return recorder.count() > 2 }, time.Second, 10*time.Millisecond)

	engine.Deactivate()
	require.False(t, engine.Active())
	require.Eventually(t, func() bool {
		last, ok := recorder.last()
		return ok && last == Rest()
	}, time.Second, 10*time.Millisecond, "release ends at the rest pose")
}

func TestEngine_StopWithoutActivate(t *testing.T) {
	engine := New(ProfileFor(SpeedSlow), nil)
	engine.Deactivate()
	engine.Stop()
	require.False(t, engine.Active())
}

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (recorder *frameRecorder) record(frame Frame) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.frames = append(recorder.frames, frame)
}

func (recorder *frameRecorder) count() int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return len(recorder.frames)
}

func (recorder *frameRecorder) last() (Frame, bool) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	if len(recorder.frames) == 0 {
		return Frame{}, false
	}
	return recorder.frames[len(recorder.frames)-1], true
}

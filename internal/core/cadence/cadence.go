package cadence

import "time"

// Speed selects one of the fixed breathing profiles.
type Speed string

const (
	SpeedNormal Speed = "normal"
	SpeedSlow   Speed = "slow"
)

// ParseSpeed maps a stored value onto a known speed, defaulting to normal.
func ParseSpeed(value string) Speed {
	if Speed(value) == SpeedSlow {
		return SpeedSlow
	}
	return SpeedNormal
}

// Profile defines the three sub-phase durations of one breathing cycle.
type Profile struct {
	Inhale time.Duration
	Hold   time.Duration
	Exhale time.Duration
}

// ProfileFor returns the profile for a speed: a 12s cycle for normal,
// a 15s cycle for slow.
func ProfileFor(speed Speed) Profile {
	if speed == SpeedSlow {
		return Profile{
			Inhale: 5 * time.Second,
			Hold:   3 * time.Second,
			Exhale: 7 * time.Second,
		}
	}
	return Profile{
		Inhale: 4 * time.Second,
		Hold:   2 * time.Second,
		Exhale: 6 * time.Second,
	}
}

// Cycle returns the total length of one inhale-hold-exhale repetition.
func (profile Profile) Cycle() time.Duration {
	return profile.Inhale + profile.Hold + profile.Exhale
}

// Visual bounds of the breathing circle.
const (
	RestScale   = 0.85
	PeakScale   = 1.05
	RestOpacity = 0.60
	PeakOpacity = 0.90
)

// ReleaseDuration is how long the circle takes to settle back to the rest
// pose when the cadence deactivates, instead of snapping.
const ReleaseDuration = 500 * time.Millisecond

// Frame is the circle's pose at one instant.
type Frame struct {
	Scale   float64
	Opacity float64
}

// Rest returns the inactive pose.
func Rest() Frame {
	return Frame{Scale: RestScale, Opacity: RestOpacity}
}

// FrameAt returns the pose at the given time since activation. The cycle
// loops indefinitely; each activation starts at the beginning of inhale.
func (profile Profile) FrameAt(elapsed time.Duration) Frame {
	cycle := profile.Cycle()
	if cycle <= 0 {
		return Rest()
	}
	if elapsed < 0 {
		elapsed = 0
	}
	offset := elapsed % cycle

	switch {
	case offset < profile.Inhale:
		progress := ease(float64(offset) / float64(profile.Inhale))
		return lerpFrame(Rest(), peak(), progress)
	case offset < profile.Inhale+profile.Hold:
		return peak()
	default:
		exhaled := offset - profile.Inhale - profile.Hold
		progress := ease(float64(exhaled) / float64(profile.Exhale))
		return lerpFrame(peak(), Rest(), progress)
	}
}

// Release returns the pose at the given time into the settle-to-rest
// animation that starts from a captured frame.
func Release(from Frame, elapsed time.Duration) Frame {
	if elapsed >= ReleaseDuration {
		return Rest()
	}
	if elapsed < 0 {
		elapsed = 0
	}
	progress := ease(float64(elapsed) / float64(ReleaseDuration))
	return lerpFrame(from, Rest(), progress)
}

func peak() Frame {
	return Frame{Scale: PeakScale, Opacity: PeakOpacity}
}

func lerpFrame(from, to Frame, progress float64) Frame {
	return Frame{
		Scale:   from.Scale + (to.Scale-from.Scale)*progress,
		Opacity: from.Opacity + (to.Opacity-from.Opacity)*progress,
	}
}

// ease is a cubic in-out curve, the closest analytic match to the
// reference animation's bezier(0.42, 0, 0.58, 1) timing.
func ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}

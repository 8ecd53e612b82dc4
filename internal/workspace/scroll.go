package workspace

import (
	"math"
	"time"
)

// ScrollPhase identifies which state the scroll state machine is in
// (spec.md C4 "Scroll state machine").
type ScrollPhase int

const (
	PhaseIdle ScrollPhase = iota
	PhaseAnimating
	PhaseMomentum
)

type scrollState struct {
	phase ScrollPhase

	startTime time.Time
	startPos  float64

	// Animating fields.
	targetPos float64
	duration  time.Duration

	// Momentum fields.
	velocity float64
}

const (
	baseAnimationDuration = 250 * time.Millisecond
	maxAnimationDuration  = 800 * time.Millisecond
)

// animationDuration scales mildly with distance, capped at 800ms, per
// spec.md's "base (250 ms) * (1 + dist/2000)" formula.
func animationDuration(distance float64) time.Duration {
	d := time.Duration(float64(baseAnimationDuration) * (1 + distance/2000))
	if d > maxAnimationDuration {
		d = maxAnimationDuration
	}
	return d
}

// easeOutCubic computes p(t) = 1 - (1-t)^3 for t in [0,1].
func easeOutCubic(t float64) float64 {
	inv := t - 1
	return inv*inv*inv + 1
}

// easeOutCubicDerivative is d/dt of easeOutCubic, used to derive a
// velocity estimate while animating.
func easeOutCubicDerivative(t float64) float64 {
	inv := t - 1
	return 3 * inv * inv
}

// scrollToColumn begins an eased animation to the given column's x-origin.
func (w *Strip) scrollToColumn(index int32, now time.Time) {
	w.ensureColumn(index)
	target := float64(index) * w.config.ColumnWidth

	distance := math.Abs(target - w.currentPos)
	w.state = scrollState{
		phase:     PhaseAnimating,
		startTime: now,
		startPos:  w.currentPos,
		targetPos: target,
		duration:  animationDuration(distance),
	}
	w.focusedColumn = index
	w.targetPos = target
}

// startMomentumScroll begins inertial scrolling driven by a gesture
// velocity (px/s), scaled by the configured scroll speed. Velocities below
// a fixed 10px/s floor are ignored, matching original_source's guard.
func (w *Strip) startMomentumScroll(velocity float64, now time.Time) {
	const minStartVelocity = 10.0
	if math.Abs(velocity) <= minStartVelocity {
		return
	}
	w.state = scrollState{
		phase:     PhaseMomentum,
		startTime: now,
		startPos:  w.currentPos,
		velocity:  velocity * w.config.ScrollSpeed,
	}
}

// cancelScroll aborts any in-flight animation/momentum and comes to rest
// at the current position (spec.md §5 cancellation: "Momentum --
// user_input--> cancel -> Idle").
func (w *Strip) cancelScroll() {
	w.state = scrollState{phase: PhaseIdle}
}

// updateAnimation advances the scroll state machine by one tick; it must
// be called once per frame/tick with a monotonically increasing now.
func (w *Strip) updateAnimation(now time.Time) {
	switch w.state.phase {
	case PhaseAnimating:
		elapsed := now.Sub(w.state.startTime)
		if elapsed >= w.state.duration {
			w.currentPos = w.state.targetPos
			w.velocity = 0
			w.state = scrollState{phase: PhaseIdle}
			return
		}
		progress := elapsed.Seconds() / w.state.duration.Seconds()
		eased := easeOutCubic(progress)
		w.currentPos = w.state.startPos + (w.state.targetPos-w.state.startPos)*eased
		w.velocity = (w.state.targetPos - w.state.startPos) * easeOutCubicDerivative(progress) / w.state.duration.Seconds()

	case PhaseMomentum:
		elapsed := now.Sub(w.state.startTime).Seconds()
		friction := clamp(w.config.MomentumFriction, 0, 0.9999)
		currentVelocity := w.state.velocity * math.Pow(friction, elapsed*60)

		if math.Abs(currentVelocity) < w.config.MomentumMinVelocity {
			nearest := int32(math.Round(w.currentPos / w.config.ColumnWidth))
			target := float64(nearest) * w.config.ColumnWidth
			if math.Abs(w.currentPos-target) <= w.config.SnapThresholdPx {
				w.scrollToColumn(nearest, now)
			} else {
				w.currentPos = w.state.startPos + w.state.velocity*elapsed
				w.velocity = currentVelocity
			}
			return
		}
		w.currentPos = w.state.startPos + w.state.velocity*elapsed
		w.velocity = currentVelocity

	case PhaseIdle:
		w.velocity *= 0.9
		if math.Abs(w.velocity) < 0.1 {
			w.velocity = 0
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Phase reports the current scroll state machine phase.
func (w *Strip) Phase() ScrollPhase { return w.state.phase }

// ScrollProgress reports animation progress in [0,1], 0 outside of
// PhaseAnimating.
func (w *Strip) ScrollProgress(now time.Time) float64 {
	if w.state.phase != PhaseAnimating {
		return 0
	}
	elapsed := now.Sub(w.state.startTime)
	p := elapsed.Seconds() / w.state.duration.Seconds()
	return clamp(p, 0, 1)
}

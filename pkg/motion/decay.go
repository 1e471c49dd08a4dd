package motion

import (
	"fmt"
	"math"
)

// Default tuning constants for the decay animation. These match the feel of
// the gallery pan view: a fling decelerates under friction and, when it would
// leave the allowed range, eases onto the nearest edge within about 200ms.
const (
	DefaultDeceleration = 0.997 // exponential decay factor per millisecond

	restDisplacementThreshold = 0.5 // snap-back convergence distance, domain units
	minStartVelocity          = 80.0
	velocityEpsilon           = 1.0
	maxFrameDeltaMs           = 64.0 // cap dt after pauses (app backgrounding)

	snapDurationMs   = 200.0
	snapGainPerFrame = 0.15 // fraction of the remaining gap closed each frame
)

// Bounds is the inclusive interval the animated position must stay within.
type Bounds struct {
	Lower float64
	Upper float64
}

// phase of the animation state machine. The snap target only exists while
// phase == phaseSnapping, so out-of-phase field combinations cannot occur.
type phase int

const (
	phaseDecaying phase = iota
	phaseSnapping
	phaseDone
)

// Animation is a single-shot decay animation clamped to a closed interval.
// It is driven by one caller at a time via Step, once per display frame, and
// holds no shared state.
type Animation struct {
	position     float64
	velocity     float64 // domain units per second
	bounds       Bounds
	deceleration float64

	phase           phase
	snapTarget      float64
	snapStartMs     float64
	lastFrameMs     float64
	firstFrame      bool
	naturalFinish   bool
	onComplete      func(natural bool)
	completeEmitted bool
}

// Option adjusts animation tuning at construction time.
type Option func(*Animation)

// WithDeceleration overrides the per-millisecond exponential decay factor.
// Values outside (0,1) are rejected by NewAnimation.
func WithDeceleration(d float64) Option {
	return func(a *Animation) { a.deceleration = d }
}

// WithOnComplete registers a callback invoked exactly once when the animation
// ends: natural is true when the value came to rest on its own, false when
// the run was cancelled (superseded by a new gesture).
func WithOnComplete(fn func(natural bool)) Option {
	return func(a *Animation) { a.onComplete = fn }
}

// NewAnimation creates a decay animation starting at position with the given
// fling velocity. Velocities below the start threshold are treated as rest so
// gesture noise does not trigger micro-decays. Malformed bounds are a caller
// error and fail fast.
func NewAnimation(position, velocity float64, b Bounds, opts ...Option) (*Animation, error) {
	if b.Lower > b.Upper {
		return nil, fmt.Errorf("motion: invalid bounds [%v, %v]: lower exceeds upper", b.Lower, b.Upper)
	}

	// Degenerate velocity must not poison the position integration.
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		velocity = 0
	}
	if math.Abs(velocity) < minStartVelocity {
		velocity = 0
	}

	a := &Animation{
		position:     position,
		velocity:     velocity,
		bounds:       b,
		deceleration: DefaultDeceleration,
		phase:        phaseDecaying,
		firstFrame:   true,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.deceleration <= 0 || a.deceleration >= 1 {
		return nil, fmt.Errorf("motion: deceleration %v out of range (0,1)", a.deceleration)
	}

	return a, nil
}

// Step advances the animation to the frame timestamp nowMs (monotonic,
// milliseconds) and returns the position to render plus whether the animation
// has finished. Calling Step after the animation finished is a no-op that
// returns the final position.
func (a *Animation) Step(nowMs float64) (float64, bool) {
	if a.phase == phaseDone {
		return a.position, true
	}

	if a.firstFrame {
		a.firstFrame = false
		a.lastFrameMs = nowMs
	}

	dt := nowMs - a.lastFrameMs
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDeltaMs {
		dt = maxFrameDeltaMs
	}
	a.lastFrameMs = nowMs

	if a.phase == phaseSnapping {
		return a.stepSnap(nowMs)
	}
	return a.stepDecay(nowMs, dt)
}

// Cancel terminates the animation without letting it come to rest, firing the
// completion callback with natural=false. Safe to call more than once;
// cancelling an already-finished animation does nothing.
func (a *Animation) Cancel() {
	if a.phase == phaseDone {
		return
	}
	a.phase = phaseDone
	a.emitComplete(false)
}

// Position returns the current position without advancing the animation.
func (a *Animation) Position() float64 {
	return a.position
}

// Finished reports whether the animation reached a terminal state.
func (a *Animation) Finished() bool {
	return a.phase == phaseDone
}

func (a *Animation) stepDecay(nowMs, dt float64) (float64, bool) {
	// Closed-form exponential decay over the frame interval: kv scales the
	// velocity, kx integrates it into displacement.
	kv := math.Pow(a.deceleration, dt)
	kx := a.deceleration * (1 - kv) / (1 - a.deceleration)

	v0 := a.velocity / 1000 // units per millisecond
	next := a.position + v0*kx
	v := v0 * kv * 1000

	if next < a.bounds.Lower || next > a.bounds.Upper {
		// Overshoot: redirect to the crossed edge. The position is left
		// untouched this frame; the snap phase owns it from here on.
		target := a.bounds.Upper
		if next <= a.bounds.Lower {
			target = a.bounds.Lower
		}
		a.phase = phaseSnapping
		a.snapTarget = target
		a.snapStartMs = nowMs
		a.velocity = 0
		return a.position, false
	}

	a.position = next
	a.velocity = v

	if math.Abs(v) < velocityEpsilon {
		return a.finish()
	}
	return a.position, false
}

func (a *Animation) stepSnap(nowMs float64) (float64, bool) {
	elapsed := nowMs - a.snapStartMs
	progress := elapsed / snapDurationMs
	if progress > 1 {
		progress = 1
	}

	// Geometric approach: each frame closes a fixed fraction of the
	// remaining gap, which reads as an ease-out onto the edge.
	a.position += (a.snapTarget - a.position) * snapGainPerFrame

	if math.Abs(a.snapTarget-a.position) < restDisplacementThreshold {
		a.position = a.snapTarget
		return a.finish()
	}
	if progress >= 1 {
		// Deadline: land exactly on the edge rather than trickle forever.
		a.position = a.snapTarget
		return a.finish()
	}
	return a.position, false
}

func (a *Animation) finish() (float64, bool) {
	a.phase = phaseDone
	a.emitComplete(true)
	return a.position, true
}

func (a *Animation) emitComplete(natural bool) {
	if a.completeEmitted || a.onComplete == nil {
		a.completeEmitted = true
		return
	}
	a.completeEmitted = true
	a.onComplete(natural)
}

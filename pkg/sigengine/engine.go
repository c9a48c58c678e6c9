// Package sigengine implements the signal/event engine: the two
// touched-signal queues (parallel and sequential), the transmit
// entry points the evaluator calls, and the fixed-point propagation
// loop that commits future values, traces transitions, and activates
// edge-triggered subscribers.
package sigengine

import (
	"sync"

	"github.com/oisee/hdlsim/internal/simlog"
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
)

// Tracer observes every signal whose current value was just committed
// by UpdateSignals — the VCD/plain-text printer implements this.
// SetTime tells the tracer simulated time has advanced, so it can
// emit a time marker before the next batch of OnCommit calls.
type Tracer interface {
	OnCommit(sig *ir.Signal)
	SetTime(t uint64)
}

// Runner executes an activated subscriber. Untimed behaviors and
// external code run synchronously on the engine's own goroutine (the
// scheduler thread, per §5's concurrency model); timed behaviors may
// be activated but are never run from the activation queue — they
// advance purely through the scheduler's wait/active_time mechanism.
type Runner interface {
	RunBehavior(b *ir.Behavior)
	RunCode(c *ir.Code)
}

// Engine holds the two touched queues and the pending activation
// queue. UpdateSignals itself is only ever called from the scheduler
// thread (per §5, "the scheduler thread owns propagation"), but
// several timed-behavior goroutines can be mid-step — and therefore
// calling Transmit/TransmitSeq concurrently — between one barrier
// release and the next, so the enqueue side is mutex-guarded.
type Engine struct {
	Tracer Tracer
	Runner Runner

	mu         sync.Mutex
	parTouched []*ir.Signal
	seqTouched []*ir.Signal
	activation []ir.Subscriber

	parQueued map[*ir.Signal]bool
	seqQueued map[*ir.Signal]bool
}

// New returns an empty Engine.
func New(tracer Tracer, runner Runner) *Engine {
	return &Engine{
		Tracer:    tracer,
		Runner:    runner,
		parQueued: map[*ir.Signal]bool{},
		seqQueued: map[*ir.Signal]bool{},
	}
}

// Transmit is the parallel write path: v is copied into sig's future
// value (copy if sig is fading, else copy_no_z, so a later 'z' driver
// in the same step cannot clobber an earlier strong driver), sig is
// enqueued on the parallel touched queue, and fading is cleared.
func (e *Engine) Transmit(v *value.Value, sig *ir.Signal) {
	if sig.Fading {
		value.Copy(v, sig.Future)
	} else {
		value.CopyNoZ(v, sig.Future)
	}
	sig.Fading = false
	e.enqueuePar(sig)
}

// TransmitSeq is the sequential write path: same Z rule into the
// future value, but it commits to the current value immediately
// (unless unchanged) rather than waiting for propagation.
func (e *Engine) TransmitSeq(v *value.Value, sig *ir.Signal) {
	if sig.Fading {
		value.Copy(v, sig.Future)
	} else {
		value.CopyNoZ(v, sig.Future)
	}
	if value.SameContent(sig.Future, sig.Cur) {
		return
	}
	value.Copy(sig.Future, sig.Cur)
	sig.Fading = false
	e.enqueueSeq(sig)
}

// TransmitRange is Transmit restricted to [first,last] (units of
// base) of sig's future value.
func (e *Engine) TransmitRange(v *value.Value, first, last uint64, base simtype.Type, sig *ir.Signal) {
	if sig.Fading {
		value.WriteRange(v, first, last, base, sig.Future)
	} else {
		value.WriteRangeNoZ(v, first, last, base, sig.Future)
	}
	sig.Fading = false
	e.enqueuePar(sig)
}

// TransmitRangeSeq is TransmitSeq restricted to [first,last].
func (e *Engine) TransmitRangeSeq(v *value.Value, first, last uint64, base simtype.Type, sig *ir.Signal) {
	if sig.Fading {
		value.WriteRange(v, first, last, base, sig.Future)
	} else {
		value.WriteRangeNoZ(v, first, last, base, sig.Future)
	}
	if value.SameContent(sig.Future, sig.Cur) {
		return
	}
	value.Copy(sig.Future, sig.Cur)
	sig.Fading = false
	e.enqueueSeq(sig)
}

func (e *Engine) enqueuePar(sig *ir.Signal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.parQueued[sig] {
		return
	}
	e.parQueued[sig] = true
	e.parTouched = append(e.parTouched, sig)
}

func (e *Engine) enqueueSeq(sig *ir.Signal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.seqQueued[sig] {
		return
	}
	e.seqQueued[sig] = true
	e.seqTouched = append(e.seqTouched, sig)
}

// UpdateSignals drains both touched queues and the activation queue,
// repeating until all three are empty — the fixed-point propagation
// loop of §4.5.
func (e *Engine) UpdateSignals() {
	for {
		e.mu.Lock()
		parQueue := e.parTouched
		e.parTouched = nil
		seqQueue := e.seqTouched
		e.seqTouched = nil
		e.mu.Unlock()

		e.mu.Lock()
		for _, sig := range parQueue {
			delete(e.parQueued, sig)
		}
		for _, sig := range seqQueue {
			delete(e.seqQueued, sig)
		}
		e.mu.Unlock()

		for _, sig := range parQueue {
			if value.SameContent(sig.Cur, sig.Future) {
				continue
			}
			value.Copy(sig.Future, sig.Cur)
			e.Tracer.OnCommit(sig)
			e.activateSubscribers(sig)
		}
		for _, sig := range seqQueue {
			e.Tracer.OnCommit(sig)
			e.activateSubscribers(sig)
		}

		actQueue := e.activation
		e.activation = nil
		for _, sub := range actQueue {
			e.dispatch(sub)
		}

		if len(parQueue) == 0 && len(seqQueue) == 0 && len(actQueue) == 0 {
			return
		}
	}
}

func (e *Engine) activateSubscribers(sig *ir.Signal) {
	simlog.Signalf("%s committed, activating subscribers", ir.FullName(sig))
	for _, s := range sig.Any {
		e.activate(s)
	}
	if !value.IsZero(sig.Cur) {
		for _, s := range sig.Pos {
			e.activate(s)
		}
	} else {
		for _, s := range sig.Neg {
			e.activate(s)
		}
	}
}

func (e *Engine) activate(s ir.Subscriber) {
	if s.IsActivated() {
		return
	}
	s.SetActivated(true)
	e.activation = append(e.activation, s)
}

func (e *Engine) dispatch(sub ir.Subscriber) {
	defer sub.SetActivated(false)
	if !sub.IsEnabled() || !sub.IsActivated() {
		return
	}
	switch s := sub.(type) {
	case *ir.Behavior:
		if s.Timed == ir.Untimed {
			e.Runner.RunBehavior(s)
		}
	case *ir.Code:
		e.Runner.RunCode(s)
	}
}

// TouchAll traces every registered signal's current value and
// activates its subscribers unconditionally, even though nothing
// "changed" — the initial all-signals touch the scheduler performs
// at time 0 before the first propagation round, so default values
// are traced as time-0 records and any behaviors sensitive to a
// signal's reset level still run once. Unlike Transmit/UpdateSignals, this bypasses
// the change-detection a normal touched-queue entry requires; the
// subsequent UpdateSignals call drains whatever this activation pass
// enqueued.
func (e *Engine) TouchAll(reg *ir.Registry) {
	reg.EachAllSignal(func(sig *ir.Signal) {
		e.Tracer.OnCommit(sig)
		e.activateSubscribers(sig)
	})
}

// MarkAllFading sets every registered signal's Fading flag, the
// per-time-step reset the scheduler performs at AdvanceTime.
func MarkAllFading(reg *ir.Registry) {
	reg.EachAllSignal(func(sig *ir.Signal) {
		sig.Fading = true
	})
}

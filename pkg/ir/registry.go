package ir

// Registry is the flat, append-only store of every signal and timed
// behavior created during elaboration. Ids are assigned in
// registration order, matching the original engine's register_signal/
// register_timed_behavior arrays — a map would make VCD identifier
// assignment depend on iteration order instead of construction order,
// breaking the "stable across runs" invariant (spec §8).
type Registry struct {
	signals         []*Signal
	behaviors       []*Behavior
	timedBehaviors  []*Behavior
	codes           []*Code
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// RegisterSignal appends sig and assigns it the next dense id.
func (r *Registry) RegisterSignal(sig *Signal) {
	sig.ID = uint64(len(r.signals))
	r.signals = append(r.signals, sig)
}

// RegisterBehavior appends b, assigns it the next dense id, and — if
// b contains a time-wait anywhere in its block (Builder.MakeBehavior
// already classified this into b.Timed) — also appends it to the
// timed-behavior list the scheduler iterates.
func (r *Registry) RegisterBehavior(b *Behavior) {
	b.ID = uint64(len(r.behaviors))
	r.behaviors = append(r.behaviors, b)
	if b.Timed != Untimed {
		r.timedBehaviors = append(r.timedBehaviors, b)
	}
}

// RegisterCode appends c and assigns it the next dense id.
func (r *Registry) RegisterCode(c *Code) {
	c.ID = uint64(len(r.codes))
	r.codes = append(r.codes, c)
}

// Signals returns every registered signal, in registration order.
func (r *Registry) Signals() []*Signal { return r.signals }

// Behaviors returns every registered behavior, in registration order.
func (r *Registry) Behaviors() []*Behavior { return r.behaviors }

// TimedBehaviors returns every registered timed behavior, in
// registration order — the scheduler's worker set.
func (r *Registry) TimedBehaviors() []*Behavior { return r.timedBehaviors }

// Codes returns every registered external-code node.
func (r *Registry) Codes() []*Code { return r.codes }

// EachAllSignal visits every registered signal once. The scheduler
// uses this for the initial all-signals touch at time 0 (recovered
// from the original's each_all_signal call before the first
// propagation round) so that the tracer and any behaviors sensitive
// to a signal's default level see it.
func (r *Registry) EachAllSignal(fn func(*Signal)) {
	for _, s := range r.signals {
		fn(s)
	}
}

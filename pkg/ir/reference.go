package ir

import (
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
)

// Reference is implemented by every transmit left-hand-side variant:
// a bare signal, an indexed/ranged sub-reference, or a concatenation
// of references. pkg/eval resolves a Reference to a write against the
// signal(s) it ultimately names.
type Reference interface {
	isReference()
	// TargetSignal returns the single signal this reference ultimately
	// writes through. RefConcat has no single target and returns nil;
	// callers decompose it member-by-member instead.
	TargetSignal() *Signal
}

// RefSignal names a signal directly.
type RefSignal struct {
	Signal *Signal
}

func (*RefSignal) isReference()          {}
func (r *RefSignal) TargetSignal() *Signal { return r.Signal }

// RefIndex selects a single element of Base at Index, sized in units
// of BaseType.
type RefIndex struct {
	Base     Reference
	Index    Expression
	BaseType simtype.Type
}

func (*RefIndex) isReference() {}
func (r *RefIndex) TargetSignal() *Signal { return r.Base.TargetSignal() }

// RefRange selects the inclusive element range [First,Last] of Base,
// sized in units of BaseType; the sign of Last-First gives direction.
type RefRange struct {
	Base     Reference
	First    Expression
	Last     Expression
	BaseType simtype.Type
}

func (*RefRange) isReference() {}
func (r *RefRange) TargetSignal() *Signal { return r.Base.TargetSignal() }

// RefConcat concatenates several references into one write target:
// a transmit into a RefConcat decomposes the right-hand value by each
// member's width, in Dir order, and issues one sub-write per member.
type RefConcat struct {
	Dir  value.Dir
	Refs []Reference
}

func (*RefConcat) isReference()            {}
func (r *RefConcat) TargetSignal() *Signal { return nil }

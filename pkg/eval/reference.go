package eval

import (
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
)

// target is a reference resolved down to a signal plus an optional
// element range expressed in units of base. Index/range expressions
// nested inside a reference chain (ref-of-ref-of-signal) are
// evaluated once, here, and composed into a single absolute range
// against the ultimate target signal.
type target struct {
	sig      *ir.Signal
	ranged   bool
	first    uint64
	last     uint64
	base     simtype.Type
}

func (e *Evaluator) resolveTarget(ref ir.Reference) target {
	switch r := ref.(type) {
	case *ir.RefSignal:
		return target{sig: r.Signal}
	case *ir.RefIndex:
		parent := e.resolveTarget(r.Base)
		slot := e.Pool.Get()
		idx := value.ToUint(e.CalcExpression(r.Index, slot))
		e.Pool.Free()
		if parent.ranged {
			idx = parent.first + idx
		}
		return target{sig: parent.sig, ranged: true, first: idx, last: idx, base: r.BaseType}
	case *ir.RefRange:
		parent := e.resolveTarget(r.Base)
		fSlot := e.Pool.Get()
		first := value.ToUint(e.CalcExpression(r.First, fSlot))
		e.Pool.Free()
		lSlot := e.Pool.Get()
		last := value.ToUint(e.CalcExpression(r.Last, lSlot))
		e.Pool.Free()
		if parent.ranged {
			first, last = parent.first+first, parent.first+last
		}
		return target{sig: parent.sig, ranged: true, first: first, last: last, base: r.BaseType}
	default:
		return target{}
	}
}

// readRef reads the value named by ref into dst (or returns a value
// in place when no copy is needed).
func (e *Evaluator) readRef(ref ir.Reference, dst *value.Value) *value.Value {
	if rc, ok := ref.(*ir.RefConcat); ok {
		parts := make([]*value.Value, len(rc.Refs))
		slots := make([]*value.Value, len(rc.Refs))
		for i, sub := range rc.Refs {
			slots[i] = e.Pool.Get()
			parts[i] = e.readRef(sub, slots[i])
		}
		result := value.Concat(rc.Dir, dst, parts...)
		for range slots {
			e.Pool.Free()
		}
		return result
	}
	t := e.resolveTarget(ref)
	if !t.ranged {
		return t.sig.Cur
	}
	return value.ReadRange(t.sig.Cur, t.first, t.last, t.base, dst)
}

// writeRef writes rhs through ref, per mode's commit discipline. A
// RefConcat decomposes rhs by each member's width, in Dir order, and
// issues one sub-write per member — the "transmit-to-concat" rule in
// §4.4.
func (e *Evaluator) writeRef(ref ir.Reference, rhs *value.Value, mode ir.Mode) {
	if rc, ok := ref.(*ir.RefConcat); ok {
		e.writeRefConcat(rc, rhs, mode)
		return
	}
	t := e.resolveTarget(ref)
	if !t.ranged {
		if mode == ir.SEQ {
			e.Sink.TransmitSeq(rhs, t.sig)
		} else {
			e.Sink.Transmit(rhs, t.sig)
		}
		return
	}
	if mode == ir.SEQ {
		e.Sink.TransmitRangeSeq(rhs, t.first, t.last, t.base, t.sig)
	} else {
		e.Sink.TransmitRange(rhs, t.first, t.last, t.base, t.sig)
	}
}

func (e *Evaluator) writeRefConcat(rc *ir.RefConcat, rhs *value.Value, mode ir.Mode) {
	members := rc.Refs
	// order members by concat direction: Little means the first member
	// holds the lowest bits, matching value.Concat's own convention.
	order := make([]ir.Reference, len(members))
	copy(order, members)
	if rc.Dir == value.Big {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	var pos uint64
	for _, m := range order {
		w := memberWidth(e, m)
		slot := e.Pool.Get()
		sub := value.ReadRange(rhs, pos, pos+w-1, simtype.Bit(), slot)
		e.writeRef(m, sub, mode)
		e.Pool.Free()
		pos += w
	}
}

func memberWidth(e *Evaluator, ref ir.Reference) uint64 {
	sig := ref.TargetSignal()
	if sig == nil {
		return 0
	}
	t := e.resolveTarget(ref)
	if !t.ranged {
		return simtype.Width(sig.Type)
	}
	count := t.last - t.first
	if t.first > t.last {
		count = t.first - t.last
	}
	return simtype.Width(t.base) * (count + 1)
}

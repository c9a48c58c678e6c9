// Package eval implements the tree-walking evaluator: CalcExpression
// recursively evaluates an expression into a caller-supplied
// destination, and ExecuteStatement runs one statement of a behavior,
// honoring the block mode (PAR/SEQ) in effect. Every recursive step
// reserves and releases a value-pool slot symmetrically, so the pool's
// watermark is the same after a step as before it.
package eval

import (
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
	"github.com/oisee/hdlsim/pkg/valuepool"
)

// SignalSink is the signal/event engine's write surface, as seen by
// the evaluator: a transmit decomposes down to one of these four
// calls. The engine, not the evaluator, decides fading/copy_no_z —
// the evaluator only ever says "this value, this signal, this range,
// this commit discipline".
type SignalSink interface {
	Transmit(v *value.Value, sig *ir.Signal)
	TransmitSeq(v *value.Value, sig *ir.Signal)
	TransmitRange(v *value.Value, first, last uint64, base simtype.Type, sig *ir.Signal)
	TransmitRangeSeq(v *value.Value, first, last uint64, base simtype.Type, sig *ir.Signal)
}

// Scheduler is the evaluator's view of the scheduler: time-wait calls
// Wait, time-terminate calls Terminate. Terminated lets a cooperative
// infinite time-repeat (negative count, §9 open question) notice a
// shutdown between iterations that contain no wait of their own,
// instead of spinning past it.
type Scheduler interface {
	Wait(delay uint64, beh *ir.Behavior)
	Terminate()
	Terminated() bool
}

// PrintSink receives the two printer hooks a print statement drives:
// a literal string argument, or an evaluated expression argument.
type PrintSink interface {
	PrintString(s string)
	PrintStringValue(v *value.Value)
}

// Evaluator ties the tree evaluator to one behavior's pool and to the
// three external collaborators above. Each goroutine running a timed
// behavior owns its own Evaluator (and Pool); untimed behaviors and
// code executed synchronously on the scheduler thread share the
// scheduler's own Evaluator.
type Evaluator struct {
	Pool   *valuepool.Pool
	Sink   SignalSink
	Sched  Scheduler
	Printf PrintSink
}

// New returns an Evaluator with a fresh pool.
func New(sink SignalSink, sched Scheduler, printer PrintSink) *Evaluator {
	return &Evaluator{Pool: valuepool.New(), Sink: sink, Sched: sched, Printf: printer}
}

// CalcExpression evaluates expr, writing into dst where a computation
// is required, and returns the value actually holding the result —
// for literals and signal reads this is the node's own value, never
// copied into dst, matching the tree evaluator's "may be the
// destination or the value-in-place" contract.
func (e *Evaluator) CalcExpression(expr ir.Expression, dst *value.Value) *value.Value {
	switch x := expr.(type) {
	case *ir.Literal:
		return x.Value
	case *ir.SignalRead:
		return x.Signal.Cur
	case *ir.Unary:
		slot := e.Pool.Get()
		operand := e.CalcExpression(x.Operand, slot)
		result := x.Op(operand, dst)
		e.Pool.Free()
		return result
	case *ir.Binary:
		lslot := e.Pool.Get()
		left := e.CalcExpression(x.Left, lslot)
		rslot := e.Pool.Get()
		right := e.CalcExpression(x.Right, rslot)
		result := x.Op(left, right, dst)
		e.Pool.Free()
		e.Pool.Free()
		return result
	case *ir.Cast:
		slot := e.Pool.Get()
		src := e.CalcExpression(x.Operand, slot)
		result := value.Cast(src, x.Type, dst)
		e.Pool.Free()
		return result
	case *ir.Select:
		condSlot := e.Pool.Get()
		cond := e.CalcExpression(x.Cond, condSlot)
		choices := make([]*value.Value, len(x.Choices))
		slots := make([]*value.Value, len(x.Choices))
		for i, c := range x.Choices {
			slots[i] = e.Pool.Get()
			choices[i] = e.CalcExpression(c, slots[i])
		}
		result := value.Select(cond, dst, choices...)
		for range slots {
			e.Pool.Free()
		}
		e.Pool.Free()
		return result
	case *ir.Concat:
		vals := make([]*value.Value, len(x.Values))
		for i, v := range x.Values {
			slot := e.Pool.Get()
			vals[i] = e.CalcExpression(v, slot)
		}
		result := value.Concat(x.Dir, dst, vals...)
		for range vals {
			e.Pool.Free()
		}
		return result
	case *ir.RefExpr:
		return e.readRef(x.Ref, dst)
	default:
		return dst
	}
}

// ExecuteStatement runs one statement. mode is the commit discipline
// in effect for transmits; a nested *ir.Block overrides mode for its
// own children with its own Mode field.
func (e *Evaluator) ExecuteStatement(stmt ir.Statement, mode ir.Mode, beh *ir.Behavior) {
	switch s := stmt.(type) {
	case *ir.Block:
		for _, inner := range s.Stmnts {
			e.ExecuteStatement(inner, s.Mode, beh)
		}
	case *ir.Transmit:
		slot := e.Pool.Get()
		rhs := e.CalcExpression(s.Right, slot)
		e.writeRef(s.Left, rhs, mode)
		e.Pool.Free()
	case *ir.Print:
		e.executePrint(s)
	case *ir.HIf:
		e.executeHIf(s, mode, beh)
	case *ir.HCase:
		e.executeHCase(s, mode, beh)
	case *ir.TimeWait:
		e.Sched.Wait(s.Delay, beh)
	case *ir.TimeRepeat:
		e.executeTimeRepeat(s, mode, beh)
	case *ir.TimeTerminate:
		e.Sched.Terminate()
	}
}

func (e *Evaluator) executePrint(s *ir.Print) {
	for _, a := range s.Args {
		if a.Expr == nil {
			e.Printf.PrintString(a.String)
			continue
		}
		slot := e.Pool.Get()
		v := e.CalcExpression(a.Expr, slot)
		e.Printf.PrintStringValue(v)
		e.Pool.Free()
	}
}

// executeHIf evaluates each branch condition in order; the first
// whose value is defined and non-zero runs and short-circuits the
// rest. No runs only if no branch matched — an undefined condition is
// treated as "branch not taken" per the error-handling design (§7),
// not an error.
func (e *Evaluator) executeHIf(s *ir.HIf, mode ir.Mode, beh *ir.Behavior) {
	for _, br := range s.Branches {
		slot := e.Pool.Get()
		cond := e.CalcExpression(br.Cond, slot)
		taken := value.IsDefined(cond) && !value.IsZero(cond)
		e.Pool.Free()
		if taken {
			e.ExecuteStatement(br.Block, mode, beh)
			return
		}
	}
	if s.No != nil {
		e.ExecuteStatement(s.No, mode, beh)
	}
}

// executeHCase evaluates the scrutinee once, compares against each
// match with C-style equality (undefined bits never match), and falls
// through to Default if nothing matched.
func (e *Evaluator) executeHCase(s *ir.HCase, mode ir.Mode, beh *ir.Behavior) {
	scrutSlot := e.Pool.Get()
	scrut := e.CalcExpression(s.Value, scrutSlot)
	matched := false
	for _, m := range s.Matches {
		mSlot := e.Pool.Get()
		mv := e.CalcExpression(m.Match, mSlot)
		eqSlot := e.Pool.Get()
		eq := value.EqC(scrut, mv, eqSlot)
		isMatch := !value.IsZero(eq)
		e.Pool.Free()
		e.Pool.Free()
		if isMatch {
			matched = true
			e.ExecuteStatement(m.Block, mode, beh)
			break
		}
	}
	e.Pool.Free()
	if !matched && s.Default != nil {
		e.ExecuteStatement(s.Default, mode, beh)
	}
}

// executeTimeRepeat runs Body Count times, or forever when Count is
// negative. An unbounded repeat checks Sched.Terminated between
// iterations so a shutdown request is observed even if Body itself
// never waits — the open question in §9 is resolved this way: the
// loop is cooperative with shutdown, not with other workers' time
// progress (a body with no time-wait inside an infinite repeat still
// monopolizes its own goroutine, matching the original's behavior).
func (e *Evaluator) executeTimeRepeat(s *ir.TimeRepeat, mode ir.Mode, beh *ir.Behavior) {
	if s.Count < 0 {
		for !e.Sched.Terminated() {
			e.ExecuteStatement(s.Body, mode, beh)
		}
		return
	}
	for i := int64(0); i < s.Count; i++ {
		e.ExecuteStatement(s.Body, mode, beh)
	}
}

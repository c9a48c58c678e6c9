package ir

import (
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
)

// Builder is the elaboration-time construction API (spec §6): one
// method per IR node kind, plus get_type_*, add_* (on Scope/Block
// directly), set_* and load_c. It owns the Registry every constructed
// Signal/Behavior/Code is assigned into, so ids stay dense and
// deterministic regardless of which front end drives construction.
type Builder struct {
	Registry *Registry
}

// NewBuilder returns a Builder backed by a fresh Registry.
func NewBuilder() *Builder {
	return &Builder{Registry: NewRegistry()}
}

// --- get_type_* ---

func (b *Builder) GetTypeBit() simtype.Type               { return simtype.Bit() }
func (b *Builder) GetTypeSigned() simtype.Type            { return simtype.SignedBit() }
func (b *Builder) GetTypeVector(base simtype.Type, n uint64) simtype.Type { return simtype.Vector(base, n) }

// --- make_systemT / make_scope / make_systemI ---

// MakeSystemT creates a system type with the given boundary ports and
// an empty root scope.
func (b *Builder) MakeSystemT(name string, ports ...Port) *SystemType {
	t := newSystemType(name, nil)
	t.Ports = append(t.Ports, ports...)
	// The root scope is unnamed so FullName does not repeat the
	// system type's name for signals under it.
	t.Root = newScope("", t)
	return t
}

// MakeScope creates a scope owned by owner (a *Scope, *SystemType, or
// nil for a detached scope the caller attaches later via SetOwner).
func (b *Builder) MakeScope(name string, owner HierarchyNode) *Scope {
	return newScope(name, owner)
}

// MakeSystemI creates a system instance choosing among types, with
// types[0] active by default.
func (b *Builder) MakeSystemI(name string, owner HierarchyNode, types ...*SystemType) *SystemInstance {
	si := newSystemInstance(name, owner, types...)
	if len(types) > 0 {
		si.Configure(0)
	}
	return si
}

// --- make_signal ---

// MakeSignal creates and registers a signal of the given type.
func (b *Builder) MakeSignal(name string, t simtype.Type, owner HierarchyNode) *Signal {
	sig := newSignal(0, name, t, owner)
	b.Registry.RegisterSignal(sig)
	return sig
}

// SetSignalValue sets a signal's initial current and future value,
// bypassing the signal-engine write path (used only at elaboration,
// before simulation starts).
func (b *Builder) SetSignalValue(sig *Signal, v *value.Value) {
	sig.Cur = v
	sig.Future = value.New(v.Type, false)
	value.Copy(v, sig.Future)
}

// --- make_event ---

// MakeEvent builds a sensitivity-list entry.
func (b *Builder) MakeEvent(edge Edge, sig *Signal) Event {
	return Event{Edge: edge, Signal: sig}
}

// --- make_behavior ---

// MakeBehavior creates and registers a behavior with the given
// sensitivity list and root block. Timed classification (whether this
// behavior owns a goroutine in the scheduler) is derived by scanning
// the block for any time-wait statement, however deeply nested in
// time-repeat, if, case or block statements, matching the
// data model's "a timed behavior is one that contains at least one
// time-wait".
func (b *Builder) MakeBehavior(name string, owner HierarchyNode, events []Event, block *Block) *Behavior {
	beh := newBehavior(0, owner)
	beh.name = name
	beh.Events = events
	beh.Block = block
	if containsTimeWait(block) {
		beh.Timed = TimedRunning
		beh.Done = make(chan struct{})
	}
	for _, ev := range events {
		ev.Signal.Subscribe(ev.Edge, beh)
	}
	b.Registry.RegisterBehavior(beh)
	return beh
}

func containsTimeWait(b *Block) bool {
	if b == nil {
		return false
	}
	for _, s := range b.Stmnts {
		if stmtContainsTimeWait(s) {
			return true
		}
	}
	return false
}

func stmtContainsTimeWait(s Statement) bool {
	switch v := s.(type) {
	case *TimeWait:
		return true
	case *TimeRepeat:
		return stmtContainsTimeWait(v.Body)
	case *Block:
		return containsTimeWait(v)
	case *HIf:
		for _, br := range v.Branches {
			if containsTimeWait(br.Block) {
				return true
			}
		}
		return containsTimeWait(v.No)
	case *HCase:
		for _, m := range v.Matches {
			if containsTimeWait(m.Block) {
				return true
			}
		}
		return containsTimeWait(v.Default)
	default:
		return false
	}
}

// SetBehaviorBlock replaces a behavior's root block (used when a
// front end builds the block incrementally after MakeBehavior).
func (b *Builder) SetBehaviorBlock(beh *Behavior, block *Block) {
	beh.Block = block
	if containsTimeWait(block) && beh.Timed == Untimed {
		beh.Timed = TimedRunning
		beh.Done = make(chan struct{})
	}
}

// --- make_code / load_c ---

// MakeCode creates and registers an external-code node.
func (b *Builder) MakeCode(owner HierarchyNode, events []Event) *Code {
	c := newCode(0, owner)
	c.Events = events
	for _, ev := range events {
		ev.Signal.Subscribe(ev.Edge, c)
	}
	b.Registry.RegisterCode(c)
	return c
}

// LoadC binds a code node to a dynamically loaded native function.
// With no dynamic loader in scope (spec §1 non-goal), the loader
// itself is an external collaborator: callers supply the already-
// resolved Go function. symbol is recorded for diagnostics only.
func (b *Builder) LoadC(c *Code, library, symbol string, fn func(*Code)) error {
	if fn == nil {
		return newConstructionError("load_c", "missing dynamic symbol "+library+":"+symbol)
	}
	c.Library, c.Symbol = library, symbol
	c.Native = fn
	return nil
}

// --- make_block ---

// MakeBlock creates an empty block in the given mode.
func (b *Builder) MakeBlock(mode Mode, owner HierarchyNode) *Block {
	return newBlock(mode, owner)
}

// --- statement constructors ---

func (b *Builder) MakeTransmit(left Reference, right Expression) *Transmit {
	return &Transmit{Left: left, Right: right}
}

func (b *Builder) MakePrint(args ...PrintArg) *Print {
	return &Print{Args: args}
}

func (b *Builder) MakeTimeWait(delayPS uint64) *TimeWait {
	return &TimeWait{Delay: delayPS}
}

func (b *Builder) MakeTimeRepeat(count int64, body Statement) *TimeRepeat {
	return &TimeRepeat{Count: count, Body: body}
}

func (b *Builder) MakeTimeTerminate() *TimeTerminate {
	return &TimeTerminate{}
}

func (b *Builder) MakeHIf(branches []HIfBranch, no *Block) *HIf {
	return &HIf{Branches: branches, No: no}
}

func (b *Builder) MakeHCase(scrutinee Expression, matches []HCaseMatch, deflt *Block) *HCase {
	return &HCase{Value: scrutinee, Matches: matches, Default: deflt}
}

// --- expression constructors ---

func (b *Builder) MakeValueNumeric(t simtype.Type, n uint64) *Literal {
	return &Literal{Value: value.FromUint(t, n)}
}

func (b *Builder) MakeValueBitstring(t simtype.Type, bits []byte) *Literal {
	return &Literal{Value: value.FromBits(t, bits)}
}

func (b *Builder) MakeSignalRead(sig *Signal) *SignalRead {
	return &SignalRead{Signal: sig}
}

func (b *Builder) MakeCast(operand Expression, t simtype.Type) *Cast {
	return &Cast{Operand: operand, Type: t}
}

func (b *Builder) MakeSelect(cond Expression, choices ...Expression) *Select {
	return &Select{Cond: cond, Choices: choices}
}

func (b *Builder) MakeConcat(dir value.Dir, values ...Expression) *Concat {
	return &Concat{Dir: dir, Values: values}
}

func (b *Builder) MakeStringE(s string) PrintArg {
	return PrintArg{String: s}
}

// unaryOps/binaryOps resolve an operator symbol to the value-package
// function it invokes, at construction time — an unrecognized symbol
// is a construction error (spec §7), never a panic at evaluation time.
var unaryOps = map[string]UnaryOp{
	"-":  value.Neg,
	"~":  value.Not,
	"|":  value.ReduceOr,
}

var binaryOps = map[string]BinaryOp{
	"+":   value.Add,
	"-":   value.Sub,
	"*":   value.Mul,
	"/":   value.Div,
	"%":   value.Mod,
	"&":   value.And,
	"|":   value.Or,
	"^":   value.Xor,
	"<<":  value.Shl,
	">>":  value.Shr,
	"<":   value.Lt,
	"<=":  value.Le,
	">":   value.Gt,
	">=":  value.Ge,
	"==":  value.Eq,
	"!=":  value.Ne,
	"===": value.EqC,
	"!==": value.NeC,
}

// MakeUnary resolves symbol to a unary operator and builds the node.
func (b *Builder) MakeUnary(symbol string, operand Expression) (*Unary, error) {
	op, ok := unaryOps[symbol]
	if !ok {
		return nil, newConstructionError("make_unary", "invalid operator symbol "+symbol)
	}
	return &Unary{Op: op, OpName: symbol, Operand: operand}, nil
}

// MakeBinary resolves symbol to a binary operator and builds the node.
func (b *Builder) MakeBinary(symbol string, left, right Expression) (*Binary, error) {
	op, ok := binaryOps[symbol]
	if !ok {
		return nil, newConstructionError("make_binary", "invalid operator symbol "+symbol)
	}
	return &Binary{Op: op, OpName: symbol, Left: left, Right: right}, nil
}

// --- reference constructors ---

func (b *Builder) MakeRefIndex(base Reference, index Expression, baseType simtype.Type) *RefIndex {
	return &RefIndex{Base: base, Index: index, BaseType: baseType}
}

func (b *Builder) MakeRefRange(base Reference, first, last Expression, baseType simtype.Type) *RefRange {
	return &RefRange{Base: base, First: first, Last: last, BaseType: baseType}
}

func (b *Builder) MakeRefConcat(dir value.Dir, refs ...Reference) *RefConcat {
	return &RefConcat{Dir: dir, Refs: refs}
}

func (b *Builder) MakeRefSignal(sig *Signal) *RefSignal {
	return &RefSignal{Signal: sig}
}

// --- set_* ---

// SetOwner reparents child under owner, overwriting any prior owner.
func SetOwner(child, owner HierarchyNode) {
	switch c := child.(type) {
	case *Scope:
		c.owner = owner
	case *Signal:
		c.owner = owner
	case *Behavior:
		c.owner = owner
	case *Code:
		c.owner = owner
	case *SystemInstance:
		c.owner = owner
	case *SystemType:
		c.owner = owner
	case *Block:
		c.owner = owner
	}
}

// SetSystemTScope replaces a system type's root scope.
func (b *Builder) SetSystemTScope(t *SystemType, root *Scope) {
	root.owner = t
	t.Root = root
}

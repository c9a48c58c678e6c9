package ir

import (
	"testing"

	"github.com/oisee/hdlsim/pkg/value"
)

func TestRegistryDenseIDs(t *testing.T) {
	b := NewBuilder()
	bit := b.GetTypeBit()
	s1 := b.MakeSignal("a", bit, nil)
	s2 := b.MakeSignal("b", bit, nil)
	s3 := b.MakeSignal("c", bit, nil)

	if s1.ID != 0 || s2.ID != 1 || s3.ID != 2 {
		t.Fatalf("want dense ids 0,1,2; got %d,%d,%d", s1.ID, s2.ID, s3.ID)
	}
	if len(b.Registry.Signals()) != 3 {
		t.Fatalf("want 3 registered signals, got %d", len(b.Registry.Signals()))
	}
}

func TestMakeBehaviorTimedClassification(t *testing.T) {
	b := NewBuilder()
	bit := b.GetTypeBit()
	clk := b.MakeSignal("clk", bit, nil)
	sig := b.MakeSignal("q", bit, nil)

	untimedBlock := b.MakeBlock(SEQ, nil)
	untimedBlock.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig), b.MakeValueNumeric(bit, 1)))
	untimed := b.MakeBehavior("untimed", nil, []Event{b.MakeEvent(AnyEdge, clk)}, untimedBlock)
	if untimed.Timed != Untimed {
		t.Fatal("behavior with no time-wait must classify as Untimed")
	}
	if untimed.Done != nil {
		t.Fatal("untimed behavior must not get a Done channel")
	}

	timedBlock := b.MakeBlock(SEQ, nil)
	timedBlock.AddStatement(b.MakeTimeWait(5))
	timedBlock.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig), b.MakeValueNumeric(bit, 0)))
	timed := b.MakeBehavior("timed", nil, nil, timedBlock)
	if timed.Timed != TimedRunning {
		t.Fatal("behavior containing a time-wait must classify as TimedRunning")
	}
	if timed.Done == nil {
		t.Fatal("timed behavior must get a Done channel")
	}

	nestedBlock := b.MakeBlock(SEQ, nil)
	inner := b.MakeBlock(SEQ, nil)
	inner.AddStatement(b.MakeTimeWait(1))
	nestedBlock.AddStatement(b.MakeHIf([]HIfBranch{{Cond: b.MakeValueNumeric(bit, 1), Block: inner}}, nil))
	nested := b.MakeBehavior("nested", nil, nil, nestedBlock)
	if nested.Timed != TimedRunning {
		t.Fatal("a time-wait nested inside an hif branch must still classify the behavior as timed")
	}
}

func TestMakeBehaviorSubscribesEvents(t *testing.T) {
	b := NewBuilder()
	bit := b.GetTypeBit()
	clk := b.MakeSignal("clk", bit, nil)
	blk := b.MakeBlock(SEQ, nil)
	beh := b.MakeBehavior("beh", nil, []Event{b.MakeEvent(PosEdge, clk)}, blk)

	if len(clk.Pos) != 1 || clk.Pos[0] != Subscriber(beh) {
		t.Fatalf("MakeBehavior must subscribe the behavior onto its events' signals")
	}
}

func TestMakeUnaryBinaryInvalidSymbol(t *testing.T) {
	b := NewBuilder()
	bit := b.GetTypeBit()
	lit := b.MakeValueNumeric(bit, 1)

	if _, err := b.MakeBinary("nonsense", lit, lit); err == nil {
		t.Fatal("expected a ConstructionError for an unknown binary operator symbol")
	} else if _, ok := err.(*ConstructionError); !ok {
		t.Fatalf("expected *ConstructionError, got %T", err)
	}

	if _, err := b.MakeUnary("?", lit); err == nil {
		t.Fatal("expected a ConstructionError for an unknown unary operator symbol")
	}

	if _, err := b.MakeBinary("+", lit, lit); err != nil {
		t.Fatalf("valid operator symbol must not error: %v", err)
	}
}

func TestLoadCRequiresNativeFunc(t *testing.T) {
	b := NewBuilder()
	c := b.MakeCode(nil, nil)
	if err := b.LoadC(c, "libx", "sym", nil); err == nil {
		t.Fatal("LoadC with a nil function must return a construction error")
	}
	called := false
	if err := b.LoadC(c, "libx", "sym", func(*Code) { called = true }); err != nil {
		t.Fatalf("LoadC with a valid function must succeed: %v", err)
	}
	c.Run()
	if !called {
		t.Fatal("Code.Run must invoke the bound native function")
	}
}

func TestFullNameHierarchy(t *testing.T) {
	b := NewBuilder()
	top := b.MakeSystemT("top")
	root := top.Root
	sub := b.MakeScope("sub", root)
	root.AddScope(sub)
	bit := b.GetTypeBit()
	sig := b.MakeSignal("x", bit, sub)
	sub.AddInner(sig)

	if got, want := FullName(sig), "top.sub.x"; got != want {
		t.Fatalf("FullName: got %q want %q", got, want)
	}
}

func TestSetSignalValue(t *testing.T) {
	b := NewBuilder()
	vec4 := b.GetTypeVector(b.GetTypeBit(), 4)
	sig := b.MakeSignal("v", vec4, nil)
	b.SetSignalValue(sig, value.FromUint(vec4, 5))

	if value.ToUint(sig.Cur) != 5 || value.ToUint(sig.Future) != 5 {
		t.Fatalf("SetSignalValue must set both current and future: cur=%v future=%v", sig.Cur, sig.Future)
	}
	if sig.Cur.Type != vec4 || sig.Future.Type != vec4 {
		t.Fatalf("current and future types must match the signal's type")
	}
}

package scheduler

import (
	"testing"

	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/value"
)

// recordingTracer is both a sigengine.Tracer and an eval.PrintSink
// stub: it records every commit as a (time, signal, value) triple, in
// order, so a test can assert on the resulting trace.
type recordingTracer struct {
	curTime uint64
	trace   []string
}

func (r *recordingTracer) SetTime(t uint64) { r.curTime = t }
func (r *recordingTracer) OnCommit(sig *ir.Signal) {
	r.trace = append(r.trace, sigTrace(r.curTime, sig))
}
func (r *recordingTracer) PrintString(string)             {}
func (r *recordingTracer) PrintStringValue(*value.Value) {}

func sigTrace(t uint64, sig *ir.Signal) string {
	return sig.Name() + "@" + itoa(t) + "=" + itoa(value.ToUint(sig.Cur))
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func TestSingleTimedBehaviorAdvancesGlobalTime(t *testing.T) {
	b := ir.NewBuilder()
	bit := b.GetTypeBit()
	sig := b.MakeSignal("q", bit, nil)
	b.SetSignalValue(sig, value.FromUint(bit, 0))

	blk := b.MakeBlock(ir.SEQ, nil)
	blk.AddStatement(b.MakeTimeWait(5))
	blk.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig), b.MakeValueNumeric(bit, 1)))
	blk.AddStatement(b.MakeTimeWait(5))
	blk.AddStatement(b.MakeTimeTerminate())
	b.MakeBehavior("driver", nil, nil, blk)

	tracer := &recordingTracer{}
	s := New(b.Registry, tracer, tracer, Config{Limit: 100})
	s.Run()

	if s.globalTime < 5 {
		t.Fatalf("expected global time to reach at least 5ps, got %d", s.globalTime)
	}
	found := false
	for _, tr := range tracer.trace {
		if tr == "q@5=1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected q to commit to 1 at t=5, trace: %v", tracer.trace)
	}
}

func TestSingleTimedBehaviorStopsAtLimit(t *testing.T) {
	b := ir.NewBuilder()
	blk := b.MakeBlock(ir.SEQ, nil)
	blk.AddStatement(b.MakeTimeRepeat(-1, withWait(b, 10)))
	b.MakeBehavior("looper", nil, nil, blk)

	tracer := &recordingTracer{}
	s := New(b.Registry, tracer, tracer, Config{Limit: 35})
	s.Run()

	if s.globalTime < 35 {
		t.Fatalf("scheduler must run until the limit; got globalTime=%d", s.globalTime)
	}
}

func withWait(b *ir.Builder, ps uint64) *ir.Block {
	blk := b.MakeBlock(ir.SEQ, nil)
	blk.AddStatement(b.MakeTimeWait(ps))
	return blk
}

func TestMultiTimedBehaviorBarrier(t *testing.T) {
	b := ir.NewBuilder()
	bit := b.GetTypeBit()
	sig1 := b.MakeSignal("sig1", bit, nil)
	sig2 := b.MakeSignal("sig2", bit, nil)
	b.SetSignalValue(sig1, value.FromUint(bit, 0))
	b.SetSignalValue(sig2, value.FromUint(bit, 0))

	// Neither block calls time_terminate: per §4.6, when a timed
	// behavior's block simply returns, only that worker marks itself
	// timed-finished — the other keeps running. time_terminate is a
	// simulation-wide process-exit (§7) and would end behavior "bee"
	// the moment "a" calls it, well before t=20.
	blockA := b.MakeBlock(ir.SEQ, nil)
	blockA.AddStatement(b.MakeTimeWait(10))
	blockA.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig1), b.MakeValueNumeric(bit, 1)))
	blockA.AddStatement(b.MakeTimeWait(5))
	b.MakeBehavior("a", nil, nil, blockA)

	blockB := b.MakeBlock(ir.SEQ, nil)
	blockB.AddStatement(b.MakeTimeWait(20))
	blockB.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig2), b.MakeValueNumeric(bit, 1)))
	blockB.AddStatement(b.MakeTimeWait(5))
	b.MakeBehavior("bee", nil, nil, blockB)

	tracer := &recordingTracer{}
	s := New(b.Registry, tracer, tracer, Config{Limit: 100})
	s.Run()

	sawSig1At10, sawSig2At20 := false, false
	for _, tr := range tracer.trace {
		if tr == "sig1@10=1" {
			sawSig1At10 = true
		}
		if tr == "sig2@20=1" {
			sawSig2At20 = true
		}
	}
	if !sawSig1At10 {
		t.Errorf("expected sig1 to commit at t=10, trace: %v", tracer.trace)
	}
	if !sawSig2At20 {
		t.Errorf("expected sig2 to commit at t=20, trace: %v", tracer.trace)
	}
}

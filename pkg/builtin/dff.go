package builtin

import (
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/value"
)

// buildDff is spec scenario 1: a behavior sensitive to posedge(clk)
// samples d into q (SEQ), driven by a timed behavior that walks clk
// and d through four 5-ps ticks.
func buildDff() *Demo {
	b := ir.NewBuilder()
	top := b.MakeSystemT("dff")
	root := top.Root
	bit := b.GetTypeBit()

	clk := b.MakeSignal("clk", bit, root)
	d := b.MakeSignal("d", bit, root)
	q := b.MakeSignal("q", bit, root)
	root.AddInner(clk)
	root.AddInner(d)
	root.AddInner(q)
	for _, sig := range []*ir.Signal{clk, d, q} {
		b.SetSignalValue(sig, value.FromUint(bit, 0))
	}

	capture := b.MakeBlock(ir.SEQ, root)
	capture.AddStatement(b.MakeTransmit(b.MakeRefSignal(q), b.MakeSignalRead(d)))
	dff := b.MakeBehavior("dff", root, []ir.Event{b.MakeEvent(ir.PosEdge, clk)}, capture)
	root.AddBehavior(dff)

	driver := b.MakeBlock(ir.SEQ, root)
	setBit := func(sig *ir.Signal, bitVal uint64) {
		driver.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig), b.MakeValueNumeric(simtype.Bit(), bitVal)))
	}
	driver.AddStatement(b.MakeTimeWait(5))
	setBit(clk, 1)
	setBit(d, 1)
	driver.AddStatement(b.MakeTimeWait(5))
	setBit(clk, 0)
	driver.AddStatement(b.MakeTimeWait(5))
	setBit(clk, 1)
	setBit(d, 0)
	driver.AddStatement(b.MakeTimeWait(5))
	setBit(clk, 0)
	driver.AddStatement(b.MakeTimeWait(0))
	driver.AddStatement(b.MakeTimeTerminate())
	root.AddBehavior(b.MakeBehavior("driver", root, nil, driver))

	return &Demo{Name: "dff", Top: "dff", Registry: b.Registry, Root: root}
}

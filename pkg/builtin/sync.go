package builtin

import (
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/value"
)

// buildSync is spec scenario 5: behavior A waits 10 ps then sets
// sig1; behavior B, sensitive only to posedge(sig1), transmits sig2
// in the same propagation round — the two behaviors never share a
// goroutine, only the signal engine's activation queue.
func buildSync() *Demo {
	b := ir.NewBuilder()
	top := b.MakeSystemT("sync")
	root := top.Root
	bit := b.GetTypeBit()

	sig1 := b.MakeSignal("sig1", bit, root)
	sig2 := b.MakeSignal("sig2", bit, root)
	root.AddInner(sig1)
	root.AddInner(sig2)
	b.SetSignalValue(sig1, value.FromUint(bit, 0))
	b.SetSignalValue(sig2, value.FromUint(bit, 0))

	reactBlock := b.MakeBlock(ir.SEQ, root)
	reactBlock.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig2), b.MakeValueNumeric(bit, 1)))
	react := b.MakeBehavior("b", root, []ir.Event{b.MakeEvent(ir.PosEdge, sig1)}, reactBlock)
	root.AddBehavior(react)

	driver := b.MakeBlock(ir.SEQ, root)
	driver.AddStatement(b.MakeTimeWait(10))
	driver.AddStatement(b.MakeTransmit(b.MakeRefSignal(sig1), b.MakeValueNumeric(bit, 1)))
	driver.AddStatement(b.MakeTimeWait(0))
	driver.AddStatement(b.MakeTimeTerminate())
	root.AddBehavior(b.MakeBehavior("a", root, nil, driver))

	return &Demo{Name: "sync", Top: "sync", Registry: b.Registry, Root: root}
}

package builtin

import (
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/value"
)

// buildAdder is spec scenario 2: a,b:bit[4] feed an untimed behavior
// sensitive to anyedge(a), anyedge(b), computing s <- cast(a,bit[5]) +
// cast(b,bit[5]) (PAR). A timed driver sets a and b once.
func buildAdder() *Demo {
	b := ir.NewBuilder()
	top := b.MakeSystemT("adder")
	root := top.Root
	bit := b.GetTypeBit()
	vec4 := b.GetTypeVector(bit, 4)
	vec5 := b.GetTypeVector(bit, 5)

	a := b.MakeSignal("a", vec4, root)
	sb := b.MakeSignal("b", vec4, root)
	s := b.MakeSignal("s", vec5, root)
	root.AddInner(a)
	root.AddInner(sb)
	root.AddInner(s)
	b.SetSignalValue(a, value.FromUint(vec4, 0))
	b.SetSignalValue(sb, value.FromUint(vec4, 0))
	b.SetSignalValue(s, value.FromUint(vec5, 0))

	sum, err := b.MakeBinary("+",
		b.MakeCast(b.MakeSignalRead(a), vec5),
		b.MakeCast(b.MakeSignalRead(sb), vec5))
	if err != nil {
		panic(err)
	}
	combo := b.MakeBlock(ir.PAR, root)
	combo.AddStatement(b.MakeTransmit(b.MakeRefSignal(s), sum))
	events := []ir.Event{b.MakeEvent(ir.AnyEdge, a), b.MakeEvent(ir.AnyEdge, sb)}
	root.AddBehavior(b.MakeBehavior("adder", root, events, combo))

	driver := b.MakeBlock(ir.SEQ, root)
	driver.AddStatement(b.MakeTimeWait(1))
	driver.AddStatement(b.MakeTransmit(b.MakeRefSignal(a), b.MakeValueNumeric(vec4, 0b0011)))
	driver.AddStatement(b.MakeTransmit(b.MakeRefSignal(sb), b.MakeValueNumeric(vec4, 0b0110)))
	driver.AddStatement(b.MakeTimeWait(0))
	driver.AddStatement(b.MakeTimeTerminate())
	root.AddBehavior(b.MakeBehavior("driver", root, nil, driver))

	return &Demo{Name: "adder", Top: "adder", Registry: b.Registry, Root: root}
}

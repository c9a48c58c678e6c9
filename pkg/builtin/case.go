package builtin

import (
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/value"
)

// buildCase is spec scenario 6: hcase(v=2) with matches {1, 3} and a
// default falls through to the default branch.
func buildCase() *Demo {
	b := ir.NewBuilder()
	top := b.MakeSystemT("case")
	root := top.Root
	bit := b.GetTypeBit()
	vec2 := b.GetTypeVector(bit, 2)

	v := b.MakeSignal("v", vec2, root)
	matchA := b.MakeSignal("match_a", bit, root)
	matchB := b.MakeSignal("match_b", bit, root)
	matchDefault := b.MakeSignal("match_default", bit, root)
	for _, sig := range []*ir.Signal{v, matchA, matchB, matchDefault} {
		root.AddInner(sig)
	}
	b.SetSignalValue(v, value.FromUint(vec2, 0))
	b.SetSignalValue(matchA, value.FromUint(bit, 0))
	b.SetSignalValue(matchB, value.FromUint(bit, 0))
	b.SetSignalValue(matchDefault, value.FromUint(bit, 0))

	blockA := b.MakeBlock(ir.SEQ, root)
	blockA.AddStatement(b.MakeTransmit(b.MakeRefSignal(matchA), b.MakeValueNumeric(bit, 1)))
	blockB := b.MakeBlock(ir.SEQ, root)
	blockB.AddStatement(b.MakeTransmit(b.MakeRefSignal(matchB), b.MakeValueNumeric(bit, 1)))
	blockDefault := b.MakeBlock(ir.SEQ, root)
	blockDefault.AddStatement(b.MakeTransmit(b.MakeRefSignal(matchDefault), b.MakeValueNumeric(bit, 1)))

	hcase := b.MakeHCase(b.MakeSignalRead(v), []ir.HCaseMatch{
		{Match: b.MakeValueNumeric(vec2, 1), Block: blockA},
		{Match: b.MakeValueNumeric(vec2, 3), Block: blockB},
	}, blockDefault)
	mux := b.MakeBlock(ir.PAR, root)
	mux.AddStatement(hcase)
	root.AddBehavior(b.MakeBehavior("mux", root, []ir.Event{b.MakeEvent(ir.AnyEdge, v)}, mux))

	driver := b.MakeBlock(ir.SEQ, root)
	driver.AddStatement(b.MakeTimeWait(1))
	driver.AddStatement(b.MakeTransmit(b.MakeRefSignal(v), b.MakeValueNumeric(vec2, 2)))
	driver.AddStatement(b.MakeTimeWait(0))
	driver.AddStatement(b.MakeTimeTerminate())
	root.AddBehavior(b.MakeBehavior("driver", root, nil, driver))

	return &Demo{Name: "case", Top: "case", Registry: b.Registry, Root: root}
}

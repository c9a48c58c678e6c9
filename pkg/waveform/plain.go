package waveform

import (
	"fmt"
	"io"

	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/value"
)

// PlainText prints one line per committed signal change, in the form
// "<time>ps <hierarchy.path> = <value>" — used by `hdlsim run --out
// standard`, the visible-by-default counterpart to the VCD file.
type PlainText struct {
	w       io.Writer
	curTime uint64
}

func NewPlainText(w io.Writer) *PlainText { return &PlainText{w: w} }

func (p *PlainText) SetTime(t uint64) { p.curTime = t }

func (p *PlainText) OnCommit(sig *ir.Signal) {
	fmt.Fprintf(p.w, "%dps %s = %s\n", p.curTime, ir.FullName(sig), formatValue(sig.Cur))
}

func (p *PlainText) PrintTime(t uint64)          { fmt.Fprintf(p.w, "%dps\n", t) }
func (p *PlainText) PrintName(n ir.HierarchyNode) { fmt.Fprintf(p.w, "%s\n", ir.FullName(n)) }
func (p *PlainText) PrintValue(v *value.Value)   { fmt.Fprintf(p.w, "%s\n", formatValue(v)) }
func (p *PlainText) PrintSignal(sig *ir.Signal)  { p.OnCommit(sig) }
func (p *PlainText) PrintString(s string)        { fmt.Fprintf(p.w, "%s\n", s) }
func (p *PlainText) PrintStringName(n ir.HierarchyNode) {
	fmt.Fprintf(p.w, "%s\n", ir.FullName(n))
}
func (p *PlainText) PrintStringValue(v *value.Value) { fmt.Fprintf(p.w, "%s\n", formatValue(v)) }

func formatValue(v *value.Value) string {
	w := v.Width()
	bits := make([]byte, w)
	for i := uint64(0); i < w; i++ {
		bits[w-1-i] = value.BitAt(v, i)
	}
	return string(bits)
}

// Mute discards every hook — `hdlsim run --out mute`, used by the
// demo and snapshot tests, which read each signal's settled value
// after the run rather than any printed output.
type Mute struct{}

func (Mute) SetTime(uint64)                {}
func (Mute) OnCommit(*ir.Signal)           {}
func (Mute) PrintTime(uint64)              {}
func (Mute) PrintName(ir.HierarchyNode)    {}
func (Mute) PrintValue(*value.Value)       {}
func (Mute) PrintSignal(*ir.Signal)        {}
func (Mute) PrintString(string)            {}
func (Mute) PrintStringName(ir.HierarchyNode) {}
func (Mute) PrintStringValue(*value.Value) {}

// Package waveform implements the pluggable printer of §4.7: a
// record of hooks the signal engine and evaluator drive as the
// simulation runs, with two concrete implementations — a VCD emitter
// and a plain-text trace — plus a no-op Mute, and the base-94
// identifier encoder the VCD emitter uses.
package waveform

import (
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/value"
)

// Printer is the full hook set: print_time/print_name/print_value/
// print_signal/print_string/print_string_name/print_string_value.
// PrintString and PrintStringValue double as eval.PrintSink; OnCommit
// and SetTime double as sigengine.Tracer — a Printer satisfies both
// collaborator interfaces structurally, no adapter needed.
type Printer interface {
	PrintTime(t uint64)
	PrintName(n ir.HierarchyNode)
	PrintValue(v *value.Value)
	PrintSignal(sig *ir.Signal)
	PrintString(s string)
	PrintStringName(n ir.HierarchyNode)
	PrintStringValue(v *value.Value)

	// SetTime and OnCommit let a Printer serve directly as the
	// sigengine.Tracer the scheduler drives.
	SetTime(t uint64)
	OnCommit(sig *ir.Signal)
}

// idBase94 maps a dense signal id to a short printable-ASCII
// identifier: digits drawn from '!'(33) through '~'(126), a 94-symbol
// alphabet, least-significant digit first — matching the original's
// (id % 94) + 33 iterative encoding.
func idBase94(id uint64) string {
	const base = 94
	const first = 33
	if id == 0 {
		return string(rune(first))
	}
	var buf []byte
	for id > 0 {
		buf = append(buf, byte(first+id%base))
		id /= base
	}
	return string(buf)
}

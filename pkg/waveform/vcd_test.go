package waveform

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/value"
)

func TestIDBase94(t *testing.T) {
	seen := map[string]uint64{}
	for id := uint64(0); id < 300; id++ {
		s := idBase94(id)
		if s == "" {
			t.Fatalf("idBase94(%d) returned empty string", id)
		}
		for _, r := range s {
			if r < '!' || r > '~' {
				t.Fatalf("idBase94(%d) = %q contains a non-printable-ASCII byte", id, s)
			}
		}
		if prev, ok := seen[s]; ok {
			t.Fatalf("idBase94 collision: %d and %d both produced %q", prev, id, s)
		}
		seen[s] = id
	}
}

func TestVCDInitAndDumpvars(t *testing.T) {
	b := ir.NewBuilder()
	bit := b.GetTypeBit()
	top := b.MakeSystemT("top")
	root := top.Root
	a := b.MakeSignal("a", bit, root)
	root.AddInner(a)
	b.SetSignalValue(a, value.FromUint(bit, 1))

	var buf bytes.Buffer
	vcd := NewVCD(&buf)
	vcd.Init("top", root, b.Registry)
	if err := vcd.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"$scope module top $end", "$var wire 1 ", "$dumpvars", "$enddefinitions $end"} {
		if !strings.Contains(out, want) {
			t.Errorf("VCD header missing %q:\n%s", want, out)
		}
	}
}

func TestVCDInitEmitsNestedScopeTree(t *testing.T) {
	b := ir.NewBuilder()
	bit := b.GetTypeBit()
	top := b.MakeSystemT("top")
	root := top.Root
	sub := b.MakeScope("sub", root)
	root.AddScope(sub)

	outer := b.MakeSignal("outer", bit, root)
	root.AddInner(outer)
	inner := b.MakeSignal("inner", bit, sub)
	sub.AddInner(inner)
	b.SetSignalValue(outer, value.FromUint(bit, 0))
	b.SetSignalValue(inner, value.FromUint(bit, 0))

	var buf bytes.Buffer
	vcd := NewVCD(&buf)
	vcd.Init("top", root, b.Registry)
	if err := vcd.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	out := buf.String()
	wantOrder := []string{
		"$scope module top $end",
		"$var wire 1 ", // outer, under top
		"$scope module sub $end",
		"$var wire 1 ", // inner, under sub
		"$upscope $end", // closes sub
		"$upscope $end", // closes top
		"$enddefinitions $end",
	}
	pos := 0
	for _, want := range wantOrder {
		idx := strings.Index(out[pos:], want)
		if idx < 0 {
			t.Fatalf("expected %q to appear after offset %d, out:\n%s", want, pos, out)
		}
		pos += idx + len(want)
	}
	if strings.Count(out, "$scope module") != 2 {
		t.Fatalf("expected one $scope per hierarchy level, got:\n%s", out)
	}
	if strings.Count(out, "$upscope $end") != 2 {
		t.Fatalf("expected one $upscope per hierarchy level, got:\n%s", out)
	}
	if !strings.Contains(out, "inner") {
		t.Fatalf("expected inner's local name in its own $var line, got:\n%s", out)
	}
}

func TestVCDOnCommitEmitsOneTimeMarkerPerTimestep(t *testing.T) {
	b := ir.NewBuilder()
	bit := b.GetTypeBit()
	top := b.MakeSystemT("top")
	root := top.Root
	a := b.MakeSignal("a", bit, root)
	bb := b.MakeSignal("b", bit, root)
	root.AddInner(a)
	root.AddInner(bb)
	b.SetSignalValue(a, value.FromUint(bit, 0))
	b.SetSignalValue(bb, value.FromUint(bit, 0))

	var buf bytes.Buffer
	vcd := NewVCD(&buf)
	vcd.Init("top", root, b.Registry)

	vcd.SetTime(5)
	value.Copy(value.FromUint(bit, 1), a.Cur)
	vcd.OnCommit(a)
	value.Copy(value.FromUint(bit, 1), bb.Cur)
	vcd.OnCommit(bb)
	vcd.Flush()

	out := buf.String()
	if strings.Count(out, "#5\n") != 1 {
		t.Fatalf("expected exactly one #5 marker for two commits at the same time, got:\n%s", out)
	}
}

func TestSanitizeName(t *testing.T) {
	if got, want := sanitizeName("top:sub:sig"), "top$sub$sig"; got != want {
		t.Errorf("sanitizeName: got %q want %q", got, want)
	}
}

func TestPlainTextOnCommit(t *testing.T) {
	b := ir.NewBuilder()
	bit := b.GetTypeBit()
	sig := b.MakeSignal("q", bit, nil)
	b.SetSignalValue(sig, value.FromUint(bit, 1))

	var buf bytes.Buffer
	p := NewPlainText(&buf)
	p.SetTime(10)
	p.OnCommit(sig)

	if got, want := buf.String(), "10ps q = 1\n"; got != want {
		t.Errorf("PlainText.OnCommit: got %q want %q", got, want)
	}
}

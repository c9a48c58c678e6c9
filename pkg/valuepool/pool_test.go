package valuepool

import "testing"

func TestGetFreeBalance(t *testing.T) {
	p := New()
	v1 := p.Get()
	v2 := p.Get()
	if v1 == v2 {
		t.Fatalf("Get() returned the same slot twice without a Free()")
	}
	p.Free()
	p.Free()
	if p.Pos() != 0 {
		t.Fatalf("pos = %d, want 0", p.Pos())
	}
}

func TestFreeOnEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic freeing an empty pool")
		}
	}()
	New().Free()
}

func TestSaveRestoreNested(t *testing.T) {
	p := New()
	p.Get()
	p.Save()
	p.Get()
	p.Get()
	if p.Pos() != 3 {
		t.Fatalf("pos = %d, want 3", p.Pos())
	}
	p.Restore()
	if p.Pos() != 1 {
		t.Fatalf("pos after restore = %d, want 1", p.Pos())
	}
}

func TestRestoreWithoutSavePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic restoring an unbalanced pool")
		}
	}()
	New().Restore()
}

func TestGrowsGeometrically(t *testing.T) {
	p := New()
	for i := 0; i < 200; i++ {
		p.Get()
	}
	if p.Pos() != 200 {
		t.Fatalf("pos = %d, want 200", p.Pos())
	}
	for i := 0; i < 200; i++ {
		p.Free()
	}
}

func TestSetPos(t *testing.T) {
	p := New()
	p.Get()
	p.Get()
	mark := p.Pos()
	p.Get()
	p.Get()
	p.SetPos(mark)
	if p.Pos() != mark {
		t.Fatalf("pos = %d, want %d", p.Pos(), mark)
	}
}

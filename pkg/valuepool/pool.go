// Package valuepool implements the scratch-value allocator used by the
// tree evaluator: a LIFO stack of pre-allocated *value.Value slots,
// grown geometrically, with a secondary stack of watermarks so nested
// evaluations can save and restore the pool's position.
//
// A Pool is not safe for concurrent use — each goroutine executing a
// behavior owns its own Pool, matching the single-threaded-per-behavior
// execution model described by the scheduler.
package valuepool

import (
	"fmt"

	"github.com/oisee/hdlsim/pkg/value"
)

const initialCapacity = 16

// Pool is a LIFO allocator of scratch values.
type Pool struct {
	slots []*value.Value
	pos   int
	marks []int
}

// New returns an empty pool; slots are allocated lazily on first Get.
func New() *Pool {
	return &Pool{}
}

// Get returns the next scratch value, growing the pool geometrically
// if needed. The returned value's previous contents are not cleared —
// callers always fully overwrite it before reading.
func (p *Pool) Get() *value.Value {
	if p.pos == len(p.slots) {
		p.grow()
	}
	v := p.slots[p.pos]
	p.pos++
	return v
}

func (p *Pool) grow() {
	cap := len(p.slots)
	if cap == 0 {
		cap = initialCapacity
	}
	fresh := make([]*value.Value, cap)
	for i := range fresh {
		fresh[i] = &value.Value{}
	}
	p.slots = append(p.slots, fresh...)
}

// Free releases the most recently obtained value back to the pool.
// It panics if the pool is empty — every Get along a control-flow path
// must be matched by exactly one Free or a Restore that subsumes it.
func (p *Pool) Free() {
	if p.pos <= 0 {
		panic("valuepool: free() called on an empty pool")
	}
	p.pos--
}

// Pos returns the pool's current watermark.
func (p *Pool) Pos() int { return p.pos }

// SetPos restores the pool's watermark to pos, releasing every slot
// obtained since.
func (p *Pool) SetPos(pos int) { p.pos = pos }

// Save pushes the current watermark onto the secondary stack, for
// later Restore.
func (p *Pool) Save() { p.marks = append(p.marks, p.pos) }

// Restore pops the most recently Saved watermark and resets the pool
// to it. It panics if Save was never called without a matching
// Restore — a balance bug in the evaluator.
func (p *Pool) Restore() {
	if len(p.marks) == 0 {
		panic("valuepool: restore() with no matching save()")
	}
	n := len(p.marks) - 1
	p.pos = p.marks[n]
	p.marks = p.marks[:n]
}

// String reports the pool's occupancy, useful in panic messages from
// callers that detect an imbalance indirectly.
func (p *Pool) String() string {
	return fmt.Sprintf("valuepool{pos=%d/%d, saves=%d}", p.pos, len(p.slots), len(p.marks))
}

package value

import "github.com/oisee/hdlsim/pkg/simtype"

// elementIndices enumerates the element positions covered by [first,last]
// (inclusive), in read/write order. The sign of last-first selects the
// direction: first >= last walks downward, matching the endianness
// rule in the spec ("endianness implied by the sign of first-last").
func elementIndices(first, last uint64) []uint64 {
	step := int64(1)
	if last < first {
		step = -1
	}
	count := int64(last) - int64(first)
	if count < 0 {
		count = -count
	}
	count++
	idx := make([]uint64, count)
	cur := int64(first)
	for i := range idx {
		idx[i] = uint64(cur)
		cur += step
	}
	return idx
}

// ReadRange extracts the elements of src in [first,last] (a type `base`
// each), concatenated LSB-first into dst. Out-of-bound source bits
// read as x.
func ReadRange(src *Value, first, last uint64, base simtype.Type, dst *Value) *Value {
	idx := elementIndices(first, last)
	elemW := simtype.Width(base)
	resultW := elemW * uint64(len(idx))
	bits := make([]byte, resultW)
	srcW := simtype.Width(src.Type)
	for k, elem := range idx {
		for j := uint64(0); j < elemW; j++ {
			srcPos := elem*elemW + j
			var b byte = Unknown
			if srcPos < srcW {
				b = bitAt(src, srcPos)
			}
			bits[uint64(k)*elemW+j] = b
		}
	}
	dst.Type = simtype.Type{Base: elemW, Count: uint64(len(idx)), Signed: base.Signed}
	dst.setBitstring(bits)
	return dst
}

// writeRangeImpl writes src's bits into the [first,last] element range
// of dst, preserving bits outside that range. When preserveZ is true,
// destination bits whose corresponding source bit is 'z' are left
// untouched (write_range_no_z semantics).
func writeRangeImpl(src *Value, first, last uint64, base simtype.Type, dst *Value, preserveZ bool) *Value {
	idx := elementIndices(first, last)
	elemW := simtype.Width(base)
	dstW := simtype.Width(dst.Type)
	cur := make([]byte, dstW)
	for i := uint64(0); i < dstW; i++ {
		cur[i] = bitAt(dst, i)
	}
	for k, elem := range idx {
		for j := uint64(0); j < elemW; j++ {
			dstPos := elem*elemW + j
			if dstPos >= dstW {
				continue
			}
			srcPos := uint64(k)*elemW + j
			b := bitAt(src, srcPos)
			if preserveZ && b == HighZ {
				continue
			}
			cur[dstPos] = b
		}
	}
	dst.setBitstring(cur)
	return dst
}

// WriteRange overwrites dst's [first,last] element range with src,
// preserving the rest of dst.
func WriteRange(src *Value, first, last uint64, base simtype.Type, dst *Value) *Value {
	return writeRangeImpl(src, first, last, base, dst, false)
}

// WriteRangeNoZ is WriteRange but leaves dst bits untouched wherever
// the corresponding src bit is 'z'.
func WriteRangeNoZ(src *Value, first, last uint64, base simtype.Type, dst *Value) *Value {
	return writeRangeImpl(src, first, last, base, dst, true)
}

// SameContent reports whether a and b hold the same bit pattern,
// ignoring their declared Type.
func SameContent(a, b *Value) bool {
	wa, wb := simtype.Width(a.Type), simtype.Width(b.Type)
	w := wa
	if wb > w {
		w = wb
	}
	for i := uint64(0); i < w; i++ {
		if bitAt(a, i) != bitAt(b, i) {
			return false
		}
	}
	return true
}

// SameContentRange reports whether a's [first,last] bit range matches
// b, ignoring Type.
func SameContentRange(a *Value, first, last uint64, b *Value) bool {
	extracted := ReadRange(a, first, last, simtype.Bit(), &Value{})
	return SameContent(extracted, b)
}

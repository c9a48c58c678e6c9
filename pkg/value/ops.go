package value

import "github.com/oisee/hdlsim/pkg/simtype"

func defined(b byte) bool { return b == Zero || b == One }

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// binType computes the type of a binary operator's destination: the
// wider of the two operand widths, signed if either operand is.
func binType(a, b simtype.Type) simtype.Type {
	return simtype.Type{Base: maxU64(simtype.Width(a), simtype.Width(b)), Count: 1, Signed: a.Signed || b.Signed}
}

func fillBits(dst *Value, t simtype.Type, sym byte) *Value {
	w := simtype.Width(t)
	bits := make([]byte, w)
	for i := range bits {
		bits[i] = sym
	}
	dst.Type = t
	dst.setBitstring(bits)
	return dst
}

func setNumeric(dst *Value, t simtype.Type, n uint64) *Value {
	dst.Type = t
	dst.Numeric = true
	dst.Data = n & widthMask(simtype.Width(t))
	return dst
}

func widthMask(w uint64) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << w) - 1
}

func signExtend(n uint64, w uint64) int64 {
	if w == 0 || w >= 64 {
		return int64(n)
	}
	sign := uint64(1) << (w - 1)
	if n&sign != 0 {
		return int64(n | ^widthMask(w))
	}
	return int64(n)
}

func toSigned(v *Value) int64 {
	n := ToUint(v)
	w := simtype.Width(v.Type)
	if v.Type.Signed {
		return signExtend(n, w)
	}
	return int64(n)
}

// --- unary ---

// Neg computes the two's complement negation of src into dst.
func Neg(src, dst *Value) *Value {
	if IsDefined(src) {
		return setNumeric(dst, src.Type, uint64(-int64(ToUint(src))))
	}
	return fillBits(dst, src.Type, Unknown)
}

// Not computes the bitwise complement of src into dst.
func Not(src, dst *Value) *Value {
	w := simtype.Width(src.Type)
	bits := make([]byte, w)
	for i := uint64(0); i < w; i++ {
		b := bitAt(src, i)
		switch b {
		case Zero:
			bits[i] = One
		case One:
			bits[i] = Zero
		default:
			bits[i] = Unknown
		}
	}
	dst.Type = src.Type
	dst.setBitstring(bits)
	return dst
}

// ReduceOr ORs every bit of src together into a single-bit dst.
func ReduceOr(src, dst *Value) *Value {
	w := simtype.Width(src.Type)
	result := byte(Zero)
	for i := uint64(0); i < w; i++ {
		b := bitAt(src, i)
		if b == One {
			result = One
			break
		}
		if !defined(b) {
			result = Unknown
		}
	}
	dst.Type = simtype.Bit()
	dst.setBitstring([]byte{result})
	return dst
}

// --- bitwise binary ---

func perBitBinary(a, b, dst *Value, fn func(x, y byte) byte) *Value {
	t := binType(a.Type, b.Type)
	w := simtype.Width(t)
	bits := make([]byte, w)
	for i := uint64(0); i < w; i++ {
		bits[i] = fn(bitAt(a, i), bitAt(b, i))
	}
	dst.Type = t
	dst.setBitstring(bits)
	return dst
}

func andBit(a, b byte) byte {
	if a == Zero || b == Zero {
		return Zero
	}
	if defined(a) && defined(b) {
		return One
	}
	return Unknown
}

func orBit(a, b byte) byte {
	if a == One || b == One {
		return One
	}
	if defined(a) && defined(b) {
		return Zero
	}
	return Unknown
}

func xorBit(a, b byte) byte {
	if defined(a) && defined(b) {
		if a == b {
			return Zero
		}
		return One
	}
	return Unknown
}

// And computes the bitwise AND of a and b into dst.
func And(a, b, dst *Value) *Value { return perBitBinary(a, b, dst, andBit) }

// Or computes the bitwise OR of a and b into dst.
func Or(a, b, dst *Value) *Value { return perBitBinary(a, b, dst, orBit) }

// Xor computes the bitwise XOR of a and b into dst.
func Xor(a, b, dst *Value) *Value { return perBitBinary(a, b, dst, xorBit) }

// --- arithmetic binary ---

func arith(a, b, dst *Value, fn func(x, y int64) int64) *Value {
	t := binType(a.Type, b.Type)
	if IsDefined(a) && IsDefined(b) {
		var x, y int64
		if t.Signed {
			x, y = toSigned(a), toSigned(b)
		} else {
			x, y = int64(ToUint(a)), int64(ToUint(b))
		}
		return setNumeric(dst, t, uint64(fn(x, y)))
	}
	return fillBits(dst, t, Unknown)
}

// Add computes a+b into dst.
func Add(a, b, dst *Value) *Value { return arith(a, b, dst, func(x, y int64) int64 { return x + y }) }

// Sub computes a-b into dst.
func Sub(a, b, dst *Value) *Value { return arith(a, b, dst, func(x, y int64) int64 { return x - y }) }

// Mul computes a*b into dst.
func Mul(a, b, dst *Value) *Value { return arith(a, b, dst, func(x, y int64) int64 { return x * y }) }

// Div computes a/b into dst. Division by zero yields an all-undefined
// destination, the same as any other undefined-input arithmetic.
func Div(a, b, dst *Value) *Value {
	if IsDefined(a) && IsDefined(b) && ToUint(b) == 0 {
		return fillBits(dst, binType(a.Type, b.Type), Unknown)
	}
	return arith(a, b, dst, func(x, y int64) int64 { return x / y })
}

// Mod computes a%b into dst.
func Mod(a, b, dst *Value) *Value {
	if IsDefined(a) && IsDefined(b) && ToUint(b) == 0 {
		return fillBits(dst, binType(a.Type, b.Type), Unknown)
	}
	return arith(a, b, dst, func(x, y int64) int64 { return x % y })
}

// Shl computes a<<b into dst.
func Shl(a, b, dst *Value) *Value {
	return arith(a, b, dst, func(x, y int64) int64 { return x << uint(y) })
}

// Shr computes a>>b into dst.
func Shr(a, b, dst *Value) *Value {
	return arith(a, b, dst, func(x, y int64) int64 { return x >> uint(y) })
}

// --- comparisons ---

func relBit(a, b *Value, fn func(x, y int64) bool) *Value {
	if !IsDefined(a) || !IsDefined(b) {
		return nil
	}
	t := binType(a.Type, b.Type)
	var x, y int64
	if t.Signed {
		x, y = toSigned(a), toSigned(b)
	} else {
		x, y = int64(ToUint(a)), int64(ToUint(b))
	}
	if fn(x, y) {
		return FromBits(simtype.Bit(), []byte{One})
	}
	return FromBits(simtype.Bit(), []byte{Zero})
}

func rel(a, b, dst *Value, fn func(x, y int64) bool) *Value {
	if r := relBit(a, b, fn); r != nil {
		dst.Type = r.Type
		dst.setBitstring(r.Bits)
		return dst
	}
	return fillBits(dst, simtype.Bit(), Unknown)
}

// Lt computes a<b (single bit) into dst.
func Lt(a, b, dst *Value) *Value { return rel(a, b, dst, func(x, y int64) bool { return x < y }) }

// Le computes a<=b (single bit) into dst.
func Le(a, b, dst *Value) *Value { return rel(a, b, dst, func(x, y int64) bool { return x <= y }) }

// Gt computes a>b (single bit) into dst.
func Gt(a, b, dst *Value) *Value { return rel(a, b, dst, func(x, y int64) bool { return x > y }) }

// Ge computes a>=b (single bit) into dst.
func Ge(a, b, dst *Value) *Value { return rel(a, b, dst, func(x, y int64) bool { return x >= y }) }

// Eq computes a==b (single bit); any undefined input yields x.
func Eq(a, b, dst *Value) *Value {
	return rel(a, b, dst, func(x, y int64) bool { return x == y })
}

// Ne computes a!=b (single bit); any undefined input yields x.
func Ne(a, b, dst *Value) *Value {
	eq := relBit(a, b, func(x, y int64) bool { return x == y })
	if eq == nil {
		return fillBits(dst, simtype.Bit(), Unknown)
	}
	result := byte(One)
	if eq.Bits[0] == One {
		result = Zero
	}
	dst.Type = simtype.Bit()
	dst.setBitstring([]byte{result})
	return dst
}

func (v *Value) copyInto(dst *Value) *Value {
	dst.Type = v.Type
	dst.Numeric = v.Numeric
	dst.Data = v.Data
	dst.setBitstring(append([]byte(nil), v.Bits...))
	if v.Numeric {
		dst.Numeric = true
	}
	return dst
}

// EqC computes the C-style equality: equality with any undefined bit
// is false.
func EqC(a, b, dst *Value) *Value {
	w := maxU64(simtype.Width(a.Type), simtype.Width(b.Type))
	eq := byte(One)
	for i := uint64(0); i < w; i++ {
		ba, bb := bitAt(a, i), bitAt(b, i)
		if !defined(ba) || !defined(bb) || ba != bb {
			eq = Zero
			break
		}
	}
	dst.Type = simtype.Bit()
	dst.setBitstring([]byte{eq})
	return dst
}

// NeC computes the C-style inequality: inequality with any undefined
// bit is true.
func NeC(a, b, dst *Value) *Value {
	eq := EqC(a, b, &Value{})
	if eq.Bits[0] == One {
		dst.Type = simtype.Bit()
		dst.setBitstring([]byte{Zero})
	} else {
		dst.Type = simtype.Bit()
		dst.setBitstring([]byte{One})
	}
	return dst
}

// --- multi-ary ---

// Select picks values[idx] where idx = cond's integer value, clamping
// out-of-range indices to the last choice. An undefined cond yields an
// all-undefined destination sized to the first choice's width.
func Select(cond, dst *Value, choices ...*Value) *Value {
	if len(choices) == 0 {
		return dst
	}
	if !IsDefined(cond) {
		return fillBits(dst, choices[0].Type, Unknown)
	}
	idx := ToUint(cond)
	if idx >= uint64(len(choices)) {
		idx = uint64(len(choices) - 1)
	}
	return choices[idx].copyInto(dst)
}

// Direction of a concatenation.
type Dir int

const (
	// Little: the first argument occupies the lowest bits.
	Little Dir = iota
	// Big: the first argument occupies the highest bits.
	Big
)

// Concat concatenates values into dst according to dir. Total width is
// the sum of the operand widths.
func Concat(dir Dir, dst *Value, values ...*Value) *Value {
	var total uint64
	for _, v := range values {
		total += simtype.Width(v.Type)
	}
	bits := make([]byte, total)
	var pos uint64
	order := make([]*Value, len(values))
	copy(order, values)
	if dir == Big {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	for _, v := range order {
		w := simtype.Width(v.Type)
		for i := uint64(0); i < w; i++ {
			bits[pos+i] = bitAt(v, i)
		}
		pos += w
	}
	dst.Type = simtype.Type{Base: total, Count: 1, Signed: false}
	dst.setBitstring(bits)
	return dst
}

// Cast converts src to type t into dst: truncates high bits when
// narrower, sign-extends (if src is signed) or zero-extends (otherwise)
// when wider. Never introduces new x/z beyond what src already held.
func Cast(src *Value, t simtype.Type, dst *Value) *Value {
	w := simtype.Width(t)
	srcW := simtype.Width(src.Type)
	bits := make([]byte, w)
	var fill byte = Zero
	if src.Type.Signed && srcW > 0 {
		fill = bitAt(src, srcW-1)
	}
	for i := uint64(0); i < w; i++ {
		if i < srcW {
			bits[i] = bitAt(src, i)
		} else {
			bits[i] = fill
		}
	}
	dst.Type = t
	dst.setBitstring(bits)
	return dst
}

// Copy copies src into dst at dst's current declared width, using 'z'
// from src to overwrite dst.
func Copy(src, dst *Value) *Value {
	w := simtype.Width(dst.Type)
	if w == 0 {
		w = simtype.Width(src.Type)
		dst.Type = src.Type
	}
	bits := make([]byte, w)
	for i := uint64(0); i < w; i++ {
		bits[i] = bitAt(src, i)
	}
	dst.setBitstring(bits)
	return dst
}

// CopyNoZ copies src into dst like Copy, except bit positions where
// src is 'z' leave dst's existing bit unchanged.
func CopyNoZ(src, dst *Value) *Value {
	w := simtype.Width(dst.Type)
	if w == 0 {
		w = simtype.Width(src.Type)
		dst.Type = src.Type
	}
	cur := make([]byte, w)
	for i := uint64(0); i < w; i++ {
		cur[i] = bitAt(dst, i)
	}
	for i := uint64(0); i < w; i++ {
		b := bitAt(src, i)
		if b != HighZ {
			cur[i] = b
		}
	}
	dst.setBitstring(cur)
	return dst
}

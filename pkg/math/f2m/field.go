// Package f2m implements arithmetic in binary extension fields GF(2^m) in polynomial basis.
//
// Elements are polynomials over GF(2) packed into 64-bit words, bit i holding the
// coefficient of t^i. Addition is XOR; nothing in this package uses integer carries.
package f2m

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
)

// MaxWords bounds the degree of supported fields to m <= 256.
const MaxWords = 4

// Element is a reduced field element, little-endian words.
type Element [MaxWords]uint64

var (
	// ErrOutOfRange is returned when an encoded value is not below the field size.
	ErrOutOfRange = errors.New("f2m: value out of range")
	// ErrLength is returned for encodings that are not Bytes() long.
	ErrLength = errors.New("f2m: wrong encoding length")
)

// Field is GF(2)[t] / (t^m + t^k3 + t^k2 + t^k1 + 1), or a trinomial when only k1 is given.
type Field struct {
	m       int
	ks      []int
	n       int
	byteLen int

	// sqrtT = t^(2^(m-1)), the square root of t.
	sqrtT Element
	// traceMask has bit i set when Tr(t^i) = 1.
	traceMask Element
}

// New creates GF(2^m) reduced by t^m + Σ t^k + 1, for the middle exponents ks.
//
// Reduction folds each word at once, which needs m - max(ks) >= 64.
func New(m int, ks ...int) *Field {
	if m > 64*MaxWords || (len(ks) != 1 && len(ks) != 3) {
		panic(fmt.Sprintf("f2m.New: unsupported field t^%d %v", m, ks))
	}
	for _, k := range ks {
		if k <= 0 || m-k < 64 {
			panic(fmt.Sprintf("f2m.New: unsupported reduction exponent %d for m=%d", k, m))
		}
	}
	f := &Field{
		m:       m,
		ks:      append([]int(nil), ks...),
		n:       (m + 63) / 64,
		byteLen: (m + 7) / 8,
	}

	var t Element
	t[0] = 2
	f.SquarePow(&f.sqrtT, &t, m-1)

	var basis Element
	for i := 0; i < m; i++ {
		basis = Element{}
		basis[i>>6] = 1 << uint(i&63)
		if f.traceSlow(&basis) == 1 {
			f.traceMask[i>>6] |= 1 << uint(i&63)
		}
	}
	return f
}

// M returns the extension degree.
func (f *Field) M() int { return f.m }

// ByteLen returns the length of the fixed-width encoding of an element.
func (f *Field) ByteLen() int { return f.byteLen }

// Add sets z = x + y.
func (f *Field) Add(z, x, y *Element) {
	for i := 0; i < MaxWords; i++ {
		z[i] = x[i] ^ y[i]
	}
}

// AddOne sets z = x + 1.
func (f *Field) AddOne(z, x *Element) {
	*z = *x
	z[0] ^= 1
}

// reduce sets z = c mod f for an unreduced product c of degree < 2m.
func (f *Field) reduce(z *Element, c *[2 * MaxWords]uint64) {
	m := f.m
	for i := 2*f.n - 1; 64*i+63 >= m; i-- {
		w := c[i]
		if 64*i < m {
			s := uint(m - 64*i)
			w = w >> s << s
		}
		if w == 0 {
			continue
		}
		c[i] ^= w
		base := 64*i - m
		xorAt(c, w, base)
		for _, k := range f.ks {
			xorAt(c, w, base+k)
		}
	}
	*z = Element{}
	copy(z[:f.n], c[:f.n])
}

// xorAt adds w·t^off into c. Bits pushed below t^0 are known to be zero.
func xorAt(c *[2 * MaxWords]uint64, w uint64, off int) {
	if off < 0 {
		w >>= uint(-off)
		off = 0
	}
	q, r := off>>6, uint(off&63)
	c[q] ^= w << r
	if r != 0 && q+1 < len(c) {
		c[q+1] ^= w >> (64 - r)
	}
}

// Mul sets z = x·y using a left-to-right comb with 4-bit windows.
func (f *Field) Mul(z, x, y *Element) {
	n := f.n
	var table [16][MaxWords + 1]uint64
	copy(table[1][:n], y[:n])
	for u := 2; u < 16; u += 2 {
		prev := &table[u>>1]
		var carry uint64
		for j := 0; j <= n; j++ {
			w := prev[j]
			table[u][j] = w<<1 | carry
			carry = w >> 63
		}
		for j := 0; j <= n; j++ {
			table[u+1][j] = table[u][j] ^ table[1][j]
		}
	}

	var c [2 * MaxWords]uint64
	for k := 15; k >= 0; k-- {
		shift := uint(4 * k)
		for j := 0; j < n; j++ {
			row := &table[(x[j]>>shift)&15]
			for l := 0; l <= n && j+l < 2*MaxWords; l++ {
				c[j+l] ^= row[l]
			}
		}
		if k != 0 {
			for j := 2*n - 1; j > 0; j-- {
				c[j] = c[j]<<4 | c[j-1]>>60
			}
			c[0] <<= 4
		}
	}
	f.reduce(z, &c)
}

// expand32 spreads the bits of x to the even positions of the result.
func expand32(x uint32) uint64 {
	v := uint64(x)
	v = (v | v<<16) & 0x0000FFFF0000FFFF
	v = (v | v<<8) & 0x00FF00FF00FF00FF
	v = (v | v<<4) & 0x0F0F0F0F0F0F0F0F
	v = (v | v<<2) & 0x3333333333333333
	v = (v | v<<1) & 0x5555555555555555
	return v
}

// unshuffle moves the even bits of x to the low half and the odd bits to the high half.
func unshuffle(x uint64) uint64 {
	t := (x ^ x>>1) & 0x2222222222222222
	x ^= t ^ t<<1
	t = (x ^ x>>2) & 0x0C0C0C0C0C0C0C0C
	x ^= t ^ t<<2
	t = (x ^ x>>4) & 0x00F000F000F000F0
	x ^= t ^ t<<4
	t = (x ^ x>>8) & 0x0000FF000000FF00
	x ^= t ^ t<<8
	t = (x ^ x>>16) & 0x00000000FFFF0000
	x ^= t ^ t<<16
	return x
}

// Square sets z = x². Squaring is linear over GF(2): it interleaves zero bits.
func (f *Field) Square(z, x *Element) {
	var c [2 * MaxWords]uint64
	for i := 0; i < f.n; i++ {
		c[2*i] = expand32(uint32(x[i]))
		c[2*i+1] = expand32(uint32(x[i] >> 32))
	}
	f.reduce(z, &c)
}

// SquarePow sets z = x^(2^k).
func (f *Field) SquarePow(z, x *Element, k int) {
	*z = *x
	for ; k > 0; k-- {
		f.Square(z, z)
	}
}

// SquarePlusProduct sets z = x² + y·w.
func (f *Field) SquarePlusProduct(z, x, y, w *Element) {
	var s, p Element
	f.Square(&s, x)
	f.Mul(&p, y, w)
	f.Add(z, &s, &p)
}

// MultiplyPlusProduct sets z = a·b + c·d.
func (f *Field) MultiplyPlusProduct(z, a, b, c, d *Element) {
	var ab, cd Element
	f.Mul(&ab, a, b)
	f.Mul(&cd, c, d)
	f.Add(z, &ab, &cd)
}

// Sqrt sets z = √x. Every element of GF(2^m) has exactly one square root.
//
// Writing x = E(t²) + t·O(t²), the root is E(t) + √t·O(t).
func (f *Field) Sqrt(z, x *Element) {
	var even, odd Element
	for i := 0; i < f.n; i++ {
		u := unshuffle(x[i])
		w, h := i>>1, uint(32*(i&1))
		even[w] |= (u & 0xFFFFFFFF) << h
		odd[w] |= (u >> 32) << h
	}
	f.Mul(&odd, &odd, &f.sqrtT)
	f.Add(z, &even, &odd)
}

// Invert sets z = x⁻¹ = x^(2^m - 2) with the Itoh–Tsujii chain on the bits of m-1.
// It panics if x is zero.
func (f *Field) Invert(z, x *Element) {
	if f.IsZero(x) {
		panic("f2m.Invert: zero has no inverse")
	}
	e := f.m - 1
	// r = x^(2^k - 1)
	r, base := *x, *x
	k := 1
	var t Element
	for i := bits.Len(uint(e)) - 2; i >= 0; i-- {
		f.SquarePow(&t, &r, k)
		f.Mul(&r, &t, &r)
		k <<= 1
		if e>>uint(i)&1 == 1 {
			f.Square(&r, &r)
			f.Mul(&r, &r, &base)
			k++
		}
	}
	f.Square(z, &r)
}

// Divide sets z = x / y. It panics if y is zero.
func (f *Field) Divide(z, x, y *Element) {
	var inv Element
	f.Invert(&inv, y)
	f.Mul(z, x, &inv)
}

func (f *Field) traceSlow(x *Element) uint64 {
	t, r := *x, *x
	for i := 1; i < f.m; i++ {
		f.Square(&t, &t)
		f.Add(&r, &r, &t)
	}
	return r[0] & 1
}

// Trace returns Tr(x) = Σ x^(2^i), which is 0 or 1.
func (f *Field) Trace(x *Element) uint {
	var acc uint64
	for i := 0; i < f.n; i++ {
		acc ^= x[i] & f.traceMask[i]
	}
	return uint(bits.OnesCount64(acc) & 1)
}

// HalfTrace returns Σ_{i=0}^{(m-1)/2} x^(2^(2i)). It requires odd m.
func (f *Field) HalfTrace(z, x *Element) {
	if f.m&1 == 0 {
		panic("f2m.HalfTrace: even extension degree")
	}
	r := *x
	for i := 0; i < (f.m-1)/2; i++ {
		f.Square(&r, &r)
		f.Square(&r, &r)
		f.Add(&r, &r, x)
	}
	*z = r
}

// SolveQuadratic sets z to a solution of z² + z = beta and reports whether one exists.
// The other solution is z + 1.
func (f *Field) SolveQuadratic(z, beta *Element) bool {
	if f.IsZero(beta) {
		*z = Element{}
		return true
	}
	var r, check Element
	f.HalfTrace(&r, beta)
	f.Square(&check, &r)
	f.Add(&check, &check, &r)
	if !f.Equal(&check, beta) {
		return false
	}
	*z = r
	return true
}

// IsZero returns x == 0.
func (f *Field) IsZero(x *Element) bool {
	return *x == Element{}
}

// IsOne returns x == 1.
func (f *Field) IsOne(x *Element) bool {
	return *x == Element{1}
}

// Equal returns x == y.
func (f *Field) Equal(x, y *Element) bool {
	return *x == *y
}

// TestBitZero reports whether the constant coefficient of x is set.
func (f *Field) TestBitZero(x *Element) bool {
	return x[0]&1 == 1
}

// One sets z = 1.
func (f *Field) One(z *Element) {
	*z = Element{1}
}

// BitLen returns the degree of x plus one.
func (f *Field) BitLen(x *Element) int {
	for i := MaxWords - 1; i >= 0; i-- {
		if x[i] != 0 {
			return 64*i + bits.Len64(x[i])
		}
	}
	return 0
}

// SetBytes sets z from its fixed-width big-endian encoding.
func (f *Field) SetBytes(z *Element, b []byte) error {
	if len(b) != f.byteLen {
		return fmt.Errorf("f2m.SetBytes: %w: got %d, want %d", ErrLength, len(b), f.byteLen)
	}
	var r Element
	for i := 0; i < len(b); i++ {
		j := len(b) - 1 - i
		r[i>>3] |= uint64(b[j]) << (8 * uint(i&7))
	}
	if f.BitLen(&r) > f.m {
		return fmt.Errorf("f2m.SetBytes: %w for m=%d", ErrOutOfRange, f.m)
	}
	*z = r
	return nil
}

// Bytes returns the fixed-width big-endian encoding of x.
func (f *Field) Bytes(x *Element) []byte {
	out := make([]byte, f.byteLen)
	for i := 0; i < f.byteLen; i++ {
		out[f.byteLen-1-i] = byte(x[i>>3] >> (8 * uint(i&7)))
	}
	return out
}

// SetBig sets z from the integer whose bits are the coefficients.
func (f *Field) SetBig(z *Element, x *big.Int) error {
	if x.Sign() < 0 || x.BitLen() > f.m {
		return fmt.Errorf("f2m.SetBig: %w for m=%d", ErrOutOfRange, f.m)
	}
	return f.SetBytes(z, x.FillBytes(make([]byte, f.byteLen)))
}

// Big returns the integer whose bits are the coefficients of x.
func (f *Field) Big(x *Element) *big.Int {
	return new(big.Int).SetBytes(f.Bytes(x))
}

// MustElement parses a hexadecimal constant, panicking on failure.
func (f *Field) MustElement(hex string) Element {
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("f2m.MustElement: bad hex " + hex)
	}
	var z Element
	if err := f.SetBig(&z, v); err != nil {
		panic(err)
	}
	return z
}

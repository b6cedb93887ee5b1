// Package nat implements fixed-width unsigned arithmetic on little-endian uint32 words.
//
// The length of every operand is fixed by the caller: all operands of a call have the
// same number of words, except the double-width products produced by Mul and Square.
// Nothing here allocates except the explicit constructors and the math/big conversions.
package nat

import (
	"encoding/binary"
	"errors"
	"math/big"
	"math/bits"
)

// MaxWords is the largest operand length used by the field engines (521 bits).
const MaxWords = 17

var (
	// ErrInverseZero is the panic value of ModInverse when called on zero.
	ErrInverseZero = errors.New("nat.ModInverse: zero has no inverse")
	// ErrNotInvertible is the panic value of ModInverse when gcd(x, p) != 1.
	ErrNotInvertible = errors.New("nat.ModInverse: value is not invertible")
)

// Create returns a zeroed operand of n words.
func Create(n int) []uint32 {
	return make([]uint32, n)
}

// Copy sets z = x, over len(z) words.
func Copy(z, x []uint32) {
	copy(z, x[:len(z)])
}

// Zero sets z = 0.
func Zero(z []uint32) {
	for i := range z {
		z[i] = 0
	}
}

// SetWord sets z = w.
func SetWord(z []uint32, w uint32) {
	Zero(z)
	z[0] = w
}

// Add sets z = x + y and returns the carry out (0 or 1).
func Add(z, x, y []uint32) uint32 {
	var c uint32
	for i := range z {
		z[i], c = bits.Add32(x[i], y[i], c)
	}
	return c
}

// AddTo sets z = z + x and returns the carry out.
func AddTo(x, z []uint32) uint32 {
	return Add(z, z, x)
}

// AddWordAt adds w to z at word offset i, propagating the carry through the rest of z.
func AddWordAt(z []uint32, w uint32, i int) uint32 {
	var c uint32
	z[i], c = bits.Add32(z[i], w, 0)
	for i++; c != 0 && i < len(z); i++ {
		z[i], c = bits.Add32(z[i], 0, c)
	}
	return c
}

// Inc sets z = z + 1 and returns the carry out.
func Inc(z []uint32) uint32 {
	return AddWordAt(z, 1, 0)
}

// Sub sets z = x - y and returns the borrow out (0 or 1).
func Sub(z, x, y []uint32) uint32 {
	var b uint32
	for i := range z {
		z[i], b = bits.Sub32(x[i], y[i], b)
	}
	return b
}

// SubFrom sets z = z - x and returns the borrow out.
func SubFrom(x, z []uint32) uint32 {
	return Sub(z, z, x)
}

// Mul sets zz = x * y, where len(zz) = 2*len(x).
//
// zz must not alias x or y.
func Mul(zz, x, y []uint32) {
	n := len(x)
	Zero(zz[:2*n])
	for i := 0; i < n; i++ {
		xi := uint64(x[i])
		var c uint64
		for j := 0; j < n; j++ {
			c += xi*uint64(y[j]) + uint64(zz[i+j])
			zz[i+j] = uint32(c)
			c >>= 32
		}
		zz[i+n] = uint32(c)
	}
}

// Square sets zz = x², where len(zz) = 2*len(x).
//
// The cross products are computed once and doubled. zz must not alias x.
func Square(zz, x []uint32) {
	n := len(x)
	zz = zz[:2*n]
	Zero(zz)
	for i := 0; i < n; i++ {
		xi := uint64(x[i])
		var c uint64
		for j := i + 1; j < n; j++ {
			c += xi*uint64(x[j]) + uint64(zz[i+j])
			zz[i+j] = uint32(c)
			c >>= 32
		}
		zz[i+n] = uint32(c)
	}
	ShiftUpBit(zz, zz, 0)
	var c uint64
	for i := 0; i < n; i++ {
		sq := uint64(x[i]) * uint64(x[i])
		c += uint64(zz[2*i]) + sq&0xFFFFFFFF
		zz[2*i] = uint32(c)
		c >>= 32
		c += uint64(zz[2*i+1]) + sq>>32
		zz[2*i+1] = uint32(c)
		c >>= 32
	}
}

// MulWordAddTo sets z = z + w*x over len(x) words, returning the carry word.
func MulWordAddTo(w uint32, x, z []uint32) uint32 {
	var c uint64
	for i := range x {
		c += uint64(w)*uint64(x[i]) + uint64(z[i])
		z[i] = uint32(c)
		c >>= 32
	}
	return uint32(c)
}

// ShiftUpBit sets z = x << 1, shifting c (0 or 1) in at the bottom.
// It returns the bit shifted out at the top.
func ShiftUpBit(z, x []uint32, c uint32) uint32 {
	for i := range z {
		next := x[i]
		z[i] = next<<1 | c
		c = next >> 31
	}
	return c
}

// ShiftDownBit sets z = x >> 1, shifting c (0 or 1) in at the top.
// It returns the bit shifted out at the bottom.
func ShiftDownBit(z, x []uint32, c uint32) uint32 {
	for i := len(z) - 1; i >= 0; i-- {
		next := x[i]
		z[i] = next>>1 | c<<31
		c = next & 1
	}
	return c
}

// ShiftUpBits sets z = x << n for 1 <= n < 32, shifting the low n bits of c in at the bottom.
// It returns the n bits shifted out at the top, right-aligned.
func ShiftUpBits(z, x []uint32, n uint, c uint32) uint32 {
	for i := range z {
		next := x[i]
		z[i] = next<<n | c
		c = next >> (32 - n)
	}
	return c
}

// ShiftDownBits sets z = x >> n for 1 <= n < 32, shifting the low n bits of c in at the top.
// It returns the n bits shifted out at the bottom, right-aligned.
func ShiftDownBits(z, x []uint32, n uint, c uint32) uint32 {
	for i := len(z) - 1; i >= 0; i-- {
		next := x[i]
		z[i] = next>>n | c<<(32-n)
		c = next & (1<<n - 1)
	}
	return c
}

// shiftDownWord sets z = z >> 32.
func shiftDownWord(z []uint32) {
	copy(z, z[1:])
	z[len(z)-1] = 0
}

// Compare returns -1, 0 or +1 as x < y, x == y, x > y.
func Compare(x, y []uint32) int {
	for i := len(x) - 1; i >= 0; i-- {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}

// Gte returns x >= y.
func Gte(x, y []uint32) bool {
	return Compare(x, y) >= 0
}

// Equal returns x == y.
func Equal(x, y []uint32) bool {
	return Compare(x, y) == 0
}

// IsZero returns x == 0.
func IsZero(x []uint32) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// IsOne returns x == 1.
func IsOne(x []uint32) bool {
	if len(x) == 0 || x[0] != 1 {
		return false
	}
	return IsZero(x[1:])
}

// GetBit returns bit i of x, or 0 past the end.
func GetBit(x []uint32, i int) uint32 {
	w := i >> 5
	if w >= len(x) {
		return 0
	}
	return x[w] >> (uint(i) & 31) & 1
}

// BitLen returns the position of the highest set bit plus one.
func BitLen(x []uint32) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return 32*i + bits.Len32(x[i])
		}
	}
	return 0
}

// halve sets a = a/2 mod p, for odd p and a < p.
func halve(p, a []uint32) {
	var c uint32
	if a[0]&1 != 0 {
		c = Add(a, a, p)
	}
	ShiftDownBit(a, a, c)
}

// subMod sets a = a - b mod p, for a, b < p.
func subMod(p, a, b []uint32) {
	if Sub(a, a, b) != 0 {
		Add(a, a, p)
	}
}

// stripTwos removes the factors of two from u, dividing a by the same power of two mod p.
func stripTwos(p, u []uint32, uvLen int, a []uint32) {
	if IsZero(u[:uvLen]) {
		panic(ErrNotInvertible)
	}
	count := 0
	for u[0] == 0 {
		shiftDownWord(u[:uvLen])
		count += 32
	}
	if tz := bits.TrailingZeros32(u[0]); tz > 0 {
		ShiftDownBits(u[:uvLen], u[:uvLen], uint(tz), 0)
		count += tz
	}
	for ; count > 0; count-- {
		halve(p, a)
	}
}

// ModInverse sets z = x⁻¹ mod p using the binary extended Euclidean algorithm.
//
// p must be odd and x must satisfy 0 < x < p and be coprime to p. It panics with
// ErrInverseZero if x is zero.
//
// The loop keeps a·x ≡ u and b·x ≡ v (mod p), starting from u = x and v = p,
// and stops as soon as u or v reaches one.
func ModInverse(p, x, z []uint32) {
	n := len(p)
	if IsZero(x[:n]) {
		panic(ErrInverseZero)
	}
	if IsOne(x[:n]) {
		Copy(z, x)
		return
	}

	var ub, vb, ab, bb [MaxWords]uint32
	u, v, a, b := ub[:n], vb[:n], ab[:n], bb[:n]
	Copy(u, x)
	Copy(v, p)
	a[0] = 1

	uvLen := n
	stripTwos(p, u, uvLen, a)
	if IsOne(u) {
		Copy(z, a)
		return
	}
	for {
		for uvLen > 1 && u[uvLen-1] == 0 && v[uvLen-1] == 0 {
			uvLen--
		}
		if Gte(u[:uvLen], v[:uvLen]) {
			SubFrom(v[:uvLen], u[:uvLen])
			subMod(p, a, b)
			stripTwos(p, u, uvLen, a)
			if IsOne(u[:uvLen]) {
				Copy(z, a)
				return
			}
		} else {
			SubFrom(u[:uvLen], v[:uvLen])
			subMod(p, b, a)
			stripTwos(p, v, uvLen, b)
			if IsOne(v[:uvLen]) {
				Copy(z, b)
				return
			}
		}
	}
}

// FromBytes sets z from the big-endian bytes b, which must fit in len(z) words.
func FromBytes(z []uint32, b []byte) {
	Zero(z)
	for i := 0; i < len(b); i++ {
		j := len(b) - 1 - i
		z[i>>2] |= uint32(b[j]) << (8 * uint(i&3))
	}
}

// ToBytes writes x big-endian into out, which is filled completely.
// High bytes of x that do not fit in out are dropped.
func ToBytes(x []uint32, out []byte) {
	for i := 0; i < len(out); i++ {
		j := len(out) - 1 - i
		if i>>2 < len(x) {
			out[j] = byte(x[i>>2] >> (8 * uint(i&3)))
		} else {
			out[j] = 0
		}
	}
}

// FromBig returns x as an operand of (bits+31)/32 words.
// It panics if x is negative or wider than bits.
func FromBig(bitLen int, x *big.Int) []uint32 {
	if x.Sign() < 0 || x.BitLen() > bitLen {
		panic("nat.FromBig: value out of range")
	}
	n := (bitLen + 31) >> 5
	z := Create(n)
	buf := x.FillBytes(make([]byte, 4*n))
	for i := 0; i < n; i++ {
		z[i] = binary.BigEndian.Uint32(buf[4*(n-1-i):])
	}
	return z
}

// ToBig returns x as a big.Int.
func ToBig(x []uint32) *big.Int {
	buf := make([]byte, 4*len(x))
	ToBytes(x, buf)
	return new(big.Int).SetBytes(buf)
}

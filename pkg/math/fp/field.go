// Package fp implements arithmetic in prime fields with special-form moduli.
//
// A single Field engine serves every prime of the curve catalog. The per-prime
// behaviour (reduction method, square root method and the constants they need) is
// fixed when the Field is created, and elements are plain word arrays that do not
// refer back to their field.
package fp

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/taurusgroup/eccore/pkg/math/nat"
)

// Element is a field element in canonical form, little-endian words.
// Only the first Field.Words() words are significant; the rest are zero.
type Element [nat.MaxWords]uint32

// Reduction selects the algorithm used to fold a double-width product back into the field.
type Reduction int

const (
	// Solinas folds the high half using 2^(32n) ≡ c (mod p) for a short c.
	Solinas Reduction = iota
	// NIST256 is the word-permutation reduction for p = 2^256 - 2^224 + 2^192 + 2^96 - 1.
	NIST256
	// Mersenne521 splits at bit 521 for p = 2^521 - 1.
	Mersenne521
)

type sqrtMethod int

const (
	sqrt3Mod4 sqrtMethod = iota
	sqrtAtkin
	sqrtTonelliShanks
)

var (
	// ErrOutOfRange is returned when an encoded value is not below the field size.
	ErrOutOfRange = errors.New("fp: value out of range")
	// ErrLength is returned for encodings that are not Bytes() long.
	ErrLength = errors.New("fp: wrong encoding length")
)

// Field holds a prime modulus and the constants for its reduction and square roots.
// A Field is immutable after New and safe for concurrent use.
type Field struct {
	name    string
	n       int
	bits    int
	byteLen int
	red     Reduction
	p       Element
	pBig    *big.Int

	// c = 2^(32n) mod p, cn significant words, used by Solinas.
	c  Element
	cn int

	sqrt sqrtMethod
	// sqrtExp is (p+1)/4 for 3 mod 4, (p-5)/8 for Atkin, q for Tonelli-Shanks.
	sqrtExp []uint32
	// Tonelli-Shanks: p-1 = 2^tsS·q, tsZ = g^q for a non-residue g, tsHalf = (q+1)/2.
	tsS    int
	tsZ    Element
	tsHalf []uint32
}

// New creates the field of integers modulo the odd prime p, using reduction red.
func New(name string, p *big.Int, red Reduction) *Field {
	bits := p.BitLen()
	n := (bits + 31) / 32
	if n > nat.MaxWords || p.Bit(0) == 0 {
		panic(fmt.Sprintf("fp.New: unsupported modulus for %s", name))
	}
	f := &Field{
		name:    name,
		n:       n,
		bits:    bits,
		byteLen: (bits + 7) / 8,
		red:     red,
		pBig:    new(big.Int).Set(p),
	}
	copy(f.p[:], nat.FromBig(bits, p))

	switch red {
	case Solinas:
		c := new(big.Int).Lsh(big.NewInt(1), uint(32*n))
		c.Mod(c, p)
		f.cn = (c.BitLen() + 31) / 32
		if f.cn > n {
			panic(fmt.Sprintf("fp.New: %s is not of Solinas form", name))
		}
		copy(f.c[:], nat.FromBig(32*f.cn, c))
	case NIST256:
		if bits != 256 {
			panic("fp.New: NIST256 reduction needs a 256-bit modulus")
		}
	case Mersenne521:
		if bits != 521 {
			panic("fp.New: Mersenne521 reduction needs a 521-bit modulus")
		}
	}
	f.initSqrt()
	return f
}

// Name returns the name given to New.
func (f *Field) Name() string { return f.name }

// Bits returns the bit length of the modulus.
func (f *Field) Bits() int { return f.bits }

// Words returns the number of significant words in an Element.
func (f *Field) Words() int { return f.n }

// ByteLen returns the length of the fixed-width encoding of an element.
func (f *Field) ByteLen() int { return f.byteLen }

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.pBig) }

// Add sets z = x + y.
func (f *Field) Add(z, x, y *Element) {
	n := f.n
	c := nat.Add(z[:n], x[:n], y[:n])
	if c != 0 || nat.Gte(z[:n], f.p[:n]) {
		nat.SubFrom(f.p[:n], z[:n])
	}
}

// AddOne sets z = x + 1.
func (f *Field) AddOne(z, x *Element) {
	var one Element
	one[0] = 1
	f.Add(z, x, &one)
}

// Sub sets z = x - y.
func (f *Field) Sub(z, x, y *Element) {
	n := f.n
	if nat.Sub(z[:n], x[:n], y[:n]) != 0 {
		nat.AddTo(f.p[:n], z[:n])
	}
}

// Twice sets z = 2x.
func (f *Field) Twice(z, x *Element) {
	f.Add(z, x, x)
}

// Negate sets z = -x.
func (f *Field) Negate(z, x *Element) {
	if f.IsZero(x) {
		*z = Element{}
		return
	}
	f.Sub(z, &f.p, x)
}

// Mul sets z = x·y.
func (f *Field) Mul(z, x, y *Element) {
	var tt [2 * nat.MaxWords]uint32
	nat.Mul(tt[:2*f.n], x[:f.n], y[:f.n])
	f.Reduce(z, tt[:2*f.n])
}

// Square sets z = x².
func (f *Field) Square(z, x *Element) {
	var tt [2 * nat.MaxWords]uint32
	nat.Square(tt[:2*f.n], x[:f.n])
	f.Reduce(z, tt[:2*f.n])
}

// SquareN sets z = x^(2^k).
func (f *Field) SquareN(z, x *Element, k int) {
	*z = *x
	for ; k > 0; k-- {
		f.Square(z, z)
	}
}

// Exp sets z = x^e for the little-endian exponent words e.
func (f *Field) Exp(z, x *Element, e []uint32) {
	base := *x
	var r Element
	r[0] = 1
	for i := nat.BitLen(e) - 1; i >= 0; i-- {
		f.Square(&r, &r)
		if nat.GetBit(e, i) == 1 {
			f.Mul(&r, &r, &base)
		}
	}
	*z = r
}

// Invert sets z = x⁻¹. It panics if x is zero.
func (f *Field) Invert(z, x *Element) {
	if f.IsZero(x) {
		panic(nat.ErrInverseZero)
	}
	var r Element
	nat.ModInverse(f.p[:f.n], x[:f.n], r[:f.n])
	*z = r
}

// Divide sets z = x / y. It panics if y is zero.
func (f *Field) Divide(z, x, y *Element) {
	var inv Element
	f.Invert(&inv, y)
	f.Mul(z, x, &inv)
}

// IsZero returns x == 0.
func (f *Field) IsZero(x *Element) bool {
	return nat.IsZero(x[:f.n])
}

// IsOne returns x == 1.
func (f *Field) IsOne(x *Element) bool {
	return nat.IsOne(x[:f.n])
}

// Equal returns x == y.
func (f *Field) Equal(x, y *Element) bool {
	return nat.Equal(x[:f.n], y[:f.n])
}

// TestBitZero reports whether the least significant bit of x is set.
func (f *Field) TestBitZero(x *Element) bool {
	return x[0]&1 == 1
}

// One sets z = 1.
func (f *Field) One(z *Element) {
	*z = Element{}
	z[0] = 1
}

// SetUint64 sets z = v mod p.
func (f *Field) SetUint64(z *Element, v uint64) {
	var tt [2 * nat.MaxWords]uint32
	tt[0] = uint32(v)
	tt[1] = uint32(v >> 32)
	f.Reduce(z, tt[:2*f.n])
}

// SetBytes sets z from its fixed-width big-endian encoding.
func (f *Field) SetBytes(z *Element, b []byte) error {
	if len(b) != f.byteLen {
		return fmt.Errorf("fp.SetBytes: %w: got %d, want %d", ErrLength, len(b), f.byteLen)
	}
	var r Element
	nat.FromBytes(r[:], b)
	if nat.Gte(r[:f.n], f.p[:f.n]) {
		return fmt.Errorf("fp.SetBytes: %w for %s", ErrOutOfRange, f.name)
	}
	*z = r
	return nil
}

// Bytes returns the fixed-width big-endian encoding of x.
func (f *Field) Bytes(x *Element) []byte {
	out := make([]byte, f.byteLen)
	nat.ToBytes(x[:f.n], out)
	return out
}

// SetBig sets z = x, which must lie in [0, p).
func (f *Field) SetBig(z *Element, x *big.Int) error {
	if x.Sign() < 0 || x.Cmp(f.pBig) >= 0 {
		return fmt.Errorf("fp.SetBig: %w for %s", ErrOutOfRange, f.name)
	}
	*z = Element{}
	copy(z[:], nat.FromBig(f.bits, x))
	return nil
}

// Big returns x as a big.Int.
func (f *Field) Big(x *Element) *big.Int {
	return nat.ToBig(x[:f.n])
}

// MustElement parses a hexadecimal constant, panicking on failure.
// It is meant for the curve tables.
func (f *Field) MustElement(hex string) Element {
	v, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("fp.MustElement: bad hex " + hex)
	}
	var z Element
	if err := f.SetBig(&z, v); err != nil {
		panic(err)
	}
	return z
}

package curve

import (
	"encoding"
	"encoding/asn1"
	"errors"
	"io"
	"math/big"
	"sync/atomic"

	"github.com/cronokirby/saferith"
)

// Curve is a short Weierstrass curve over a prime or binary field, together with a
// generator of a subgroup of prime order N.
//
// The two implementations (prime-field Jacobian curves and binary-field λ-projective
// curves) are selected when a named curve is built; the interface is sealed.
type Curve interface {
	Name() string
	OID() asn1.ObjectIdentifier
	// FieldBits is the bit length of the field modulus (p, or m for GF(2^m)).
	FieldBits() int
	// FieldBytes is the length of an encoded coordinate.
	FieldBytes() int
	Order() *saferith.Modulus
	OrderBig() *big.Int
	Cofactor() *big.Int
	// IsKoblitz reports whether scalar multiplication uses the τ-adic NAF.
	IsKoblitz() bool

	Generator() Point
	Infinity() Point
	NewScalar() *Scalar
	// NewPoint creates a validated point from affine coordinates.
	NewPoint(x, y []byte) (Point, error)
	DecodePoint(data []byte) (Point, error)

	base() *curveParams
	normalizeAll(points []Point)
	decompress(yTilde bool, x []byte) (Point, error)
	fromAffine(x, y []byte) (Point, error)
}

// Point is an immutable curve point. Every operation returns a new Point.
//
// Points may carry memoized precomputation used by scalar multiplication; the caches
// are written atomically, so a Point can be shared between goroutines.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	io.WriterTo

	Curve() Curve
	IsInfinity() bool
	Add(Point) Point
	Sub(Point) Point
	Twice() Point
	// TwicePlus returns 2P + Q.
	TwicePlus(Point) Point
	// TimesPow2 returns 2^e·P.
	TimesPow2(e int) Point
	Negate() Point
	Normalize() Point
	IsNormalized() bool
	Equal(Point) bool
	// IsValid reports whether the point is infinity, or lies on the curve and has order N.
	IsValid() bool
	// Encode returns the SEC 1 encoding: 0x00 for infinity, 0x02/0x03 || X, or 0x04 || X || Y.
	Encode(compressed bool) []byte
	// XBytes and YBytes return the affine coordinates, nil for infinity.
	XBytes() []byte
	YBytes() []byte
	// XScalar returns the affine x coordinate reduced modulo N.
	XScalar() *Scalar

	onCurve() bool
	compressionBit() bool
	precomp() *atomic.Pointer[wnafPrecomp]
}

var (
	ErrInvalidEncoding  = errors.New("invalid point encoding")
	ErrInvalidLength    = errors.New("incorrect length for point encoding")
	ErrInvalidPoint     = errors.New("invalid point")
	ErrInfinityEncoding = errors.New("invalid infinity encoding")
	ErrHybridEncoding   = errors.New("inconsistent y coordinate in hybrid encoding")
	ErrCompression      = errors.New("invalid point compression")
	ErrWrongCurve       = errors.New("point belongs to another curve")
)

// curveParams is the part of a curve shared by both field families.
type curveParams struct {
	name      string
	oid       asn1.ObjectIdentifier
	fieldBits int
	byteLen   int
	order     *saferith.Modulus
	orderBig  *big.Int
	cofactor  *big.Int
	koblitz   bool
	generator Point
	comb      *combTable
}

func (p *curveParams) Name() string { return p.name }

func (p *curveParams) OID() asn1.ObjectIdentifier {
	return append(asn1.ObjectIdentifier(nil), p.oid...)
}

func (p *curveParams) FieldBits() int { return p.fieldBits }

func (p *curveParams) FieldBytes() int { return p.byteLen }

func (p *curveParams) Order() *saferith.Modulus { return p.order }

func (p *curveParams) OrderBig() *big.Int { return new(big.Int).Set(p.orderBig) }

func (p *curveParams) Cofactor() *big.Int { return new(big.Int).Set(p.cofactor) }

func (p *curveParams) IsKoblitz() bool { return p.koblitz }

func (p *curveParams) Generator() Point { return p.generator }

func (p *curveParams) base() *curveParams { return p }

func newCurveParams(name string, oid asn1.ObjectIdentifier, fieldBits int, n *big.Int, h int64) *curveParams {
	return &curveParams{
		name:      name,
		oid:       oid,
		fieldBits: fieldBits,
		byteLen:   (fieldBits + 7) / 8,
		order:     saferith.ModulusFromNat(new(saferith.Nat).SetBig(n, n.BitLen())),
		orderBig:  new(big.Int).Set(n),
		cofactor:  big.NewInt(h),
	}
}

// FromHash converts a hash value to a Scalar.
//
// There is some disagreement about how this should be done.
// [NSA] suggests that this is done in the obvious
// manner, but [SECG] truncates the hash to the bit-length of the curve order
// first. We follow [SECG] because that's what OpenSSL does. Additionally,
// OpenSSL right shifts excess bits from the number if the hash is too large
// and we mirror that too.
//
// Taken from crypto/ecdsa.
func FromHash(group Curve, h []byte) *Scalar {
	order := group.Order()
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return group.NewScalar().SetNat(s)
}

// Multiply returns k·P for any integer k, choosing the algorithm from the point and curve:
// the comb for the generator, the τ-adic NAF on Koblitz curves, and wNAF otherwise.
func Multiply(p Point, k *big.Int) Point {
	c := p.Curve()
	if k.Sign() == 0 || p.IsInfinity() {
		return c.Infinity()
	}
	if k.Sign() < 0 {
		return Multiply(p, new(big.Int).Neg(k)).Negate()
	}
	var r Point
	switch {
	case p == c.Generator() && k.BitLen() <= c.base().comb.size:
		r = combMultiply(c, k)
	case c.IsKoblitz():
		r = tauMultiply(p, k)
	default:
		r = wnafMultiply(p, k)
	}
	return checkResult(r)
}

// SumOfTwoMultiplies returns a·P + b·Q.
//
// Both points must be on the same curve. Shamir's trick interleaves the two wNAF
// expansions so that a single chain of doublings serves both products; Koblitz curves
// compute each product with the τ-adic NAF instead.
func SumOfTwoMultiplies(p Point, a *big.Int, q Point, b *big.Int) Point {
	c := p.Curve()
	if q.Curve() != c {
		panic(ErrWrongCurve)
	}
	if c.IsKoblitz() {
		return checkResult(Multiply(p, a).Add(Multiply(q, b)))
	}
	if a.Sign() < 0 {
		p, a = p.Negate(), new(big.Int).Neg(a)
	}
	if b.Sign() < 0 {
		q, b = q.Negate(), new(big.Int).Neg(b)
	}
	return checkResult(shamirMultiply(p, a, q, b))
}

// checkResult panics when a multiplication produced a point off the curve, which can
// only be an internal fault.
func checkResult(p Point) Point {
	if !p.IsInfinity() && !p.onCurve() {
		panic("curve: invalid result of scalar multiplication")
	}
	return p
}

// referenceMultiply is plain left-to-right double-and-add.
func referenceMultiply(p Point, k *big.Int) Point {
	if k.Sign() < 0 {
		return referenceMultiply(p, new(big.Int).Neg(k)).Negate()
	}
	r := p.Curve().Infinity()
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = r.Twice()
		if k.Bit(i) == 1 {
			r = r.Add(p)
		}
	}
	return r
}

// satisfiesOrder checks N·P = ∞ by direct multiplication.
func satisfiesOrder(p Point) bool {
	c := p.Curve()
	if c.Cofactor().Cmp(big.NewInt(1)) == 0 {
		return true
	}
	return referenceMultiply(p, c.OrderBig()).IsInfinity()
}

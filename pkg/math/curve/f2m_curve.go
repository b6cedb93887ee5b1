package curve

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/taurusgroup/eccore/pkg/math/f2m"
)

// f2mCurve is y² + xy = x³ + ax² + b over GF(2^m), with points in λ-projective
// coordinates (X, L, Z), where x = X/Z and λ = x + y/x = L/Z.
//
// The point (0, √b) has no λ. It is stored as (0, √b, 1), with its affine y in L.
type f2mCurve struct {
	*curveParams
	f     *f2m.Field
	a, b  f2m.Element
	sqrtB f2m.Element
	mu    int
	tnaf  *koblitzParams
}

type f2mPoint struct {
	curve   *f2mCurve
	inf     bool
	x, l, z f2m.Element
	pre     atomic.Pointer[wnafPrecomp]
	tauPre  atomic.Pointer[tauPrecomp]
}

func newF2mCurve(c *f2mCurve) *f2mCurve {
	f := c.f
	f.Sqrt(&c.sqrtB, &c.b)
	if c.koblitz {
		// μ = (-1)^(1-a)
		a := int64(1)
		c.mu = 1
		if f.IsZero(&c.a) {
			a, c.mu = 0, -1
		}
		c.tnaf = newKoblitzParams(f.M(), a, c.mu, c.cofactor.Int64())
	}
	return c
}

func castF2m(generic Point) *f2mPoint {
	out, ok := generic.(*f2mPoint)
	if !ok {
		panic(fmt.Sprintf("failed to convert to f2mPoint: %v", generic))
	}
	return out
}

func (c *f2mCurve) Infinity() Point { return c.identity() }

func (c *f2mCurve) identity() *f2mPoint { return &f2mPoint{curve: c, inf: true} }

// torsionPoint returns (0, √b), the point of order 2.
func (c *f2mCurve) torsionPoint() *f2mPoint { return c.point(&f2m.Element{}, &c.sqrtB) }

func (c *f2mCurve) NewScalar() *Scalar { return NewScalar(c) }

func (c *f2mCurve) point(x, l *f2m.Element) *f2mPoint {
	p := &f2mPoint{curve: c, x: *x, l: *l}
	c.f.One(&p.z)
	return p
}

// pointXY creates a normalized point from affine coordinates.
func (c *f2mCurve) pointXY(x, y *f2m.Element) *f2mPoint {
	if c.f.IsZero(x) {
		return c.point(x, y)
	}
	var l f2m.Element
	c.f.Divide(&l, y, x)
	c.f.Add(&l, &l, x)
	return c.point(x, &l)
}

func (c *f2mCurve) fromAffine(xb, yb []byte) (Point, error) {
	var x, y f2m.Element
	if err := c.f.SetBytes(&x, xb); err != nil {
		return nil, err
	}
	if err := c.f.SetBytes(&y, yb); err != nil {
		return nil, err
	}
	return c.pointXY(&x, &y), nil
}

func (c *f2mCurve) NewPoint(xb, yb []byte) (Point, error) {
	p, err := c.fromAffine(xb, yb)
	if err != nil {
		return nil, fmt.Errorf("curve.NewPoint: %w", err)
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("curve.NewPoint: %w", ErrInvalidPoint)
	}
	return p, nil
}

func (c *f2mCurve) DecodePoint(data []byte) (Point, error) {
	return decodePoint(c, data)
}

// decompress solves z² + z = x + a + b/x² and sets y = x·z, choosing the root whose
// lowest bit is yTilde.
func (c *f2mCurve) decompress(yTilde bool, xb []byte) (Point, error) {
	f := c.f
	var x f2m.Element
	if err := f.SetBytes(&x, xb); err != nil {
		return nil, err
	}
	if f.IsZero(&x) {
		return c.point(&x, &c.sqrtB), nil
	}
	var beta, z f2m.Element
	f.Square(&beta, &x)
	f.Invert(&beta, &beta)
	f.Mul(&beta, &beta, &c.b)
	f.Add(&beta, &beta, &c.a)
	f.Add(&beta, &beta, &x)
	if !f.SolveQuadratic(&z, &beta) {
		return nil, ErrCompression
	}
	if f.TestBitZero(&z) != yTilde {
		f.AddOne(&z, &z)
	}
	// λ = y/x + x = z + x
	f.Add(&z, &z, &x)
	return c.point(&x, &z), nil
}

func (c *f2mCurve) normalizeAll(points []Point) {
	f := c.f
	idx := make([]int, 0, len(points))
	for i, p := range points {
		if !p.IsNormalized() {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return
	}
	acc := make([]f2m.Element, len(idx))
	acc[0] = castF2m(points[idx[0]]).z
	for j := 1; j < len(idx); j++ {
		f.Mul(&acc[j], &acc[j-1], &castF2m(points[idx[j]]).z)
	}
	var inv, zInv f2m.Element
	f.Invert(&inv, &acc[len(idx)-1])
	for j := len(idx) - 1; j >= 0; j-- {
		p := castF2m(points[idx[j]])
		if j > 0 {
			f.Mul(&zInv, &inv, &acc[j-1])
			f.Mul(&inv, &inv, &p.z)
		} else {
			zInv = inv
		}
		points[idx[j]] = p.scaled(&zInv)
	}
}

func (p *f2mPoint) Curve() Curve { return p.curve }

func (p *f2mPoint) IsInfinity() bool { return p.inf }

func (p *f2mPoint) precomp() *atomic.Pointer[wnafPrecomp] { return &p.pre }

func (p *f2mPoint) IsNormalized() bool {
	return p.inf || p.curve.f.IsOne(&p.z)
}

func (p *f2mPoint) scaled(zInv *f2m.Element) *f2mPoint {
	var x, l f2m.Element
	p.curve.f.Mul(&x, &p.x, zInv)
	p.curve.f.Mul(&l, &p.l, zInv)
	return p.curve.point(&x, &l)
}

func (p *f2mPoint) Normalize() Point {
	if p.IsNormalized() {
		return p
	}
	var zInv f2m.Element
	p.curve.f.Invert(&zInv, &p.z)
	return p.scaled(&zInv)
}

// affineY returns y = (λ + x)·x of a normalized point.
func (p *f2mPoint) affineY() f2m.Element {
	f := p.curve.f
	if f.IsZero(&p.x) {
		return p.l
	}
	var y f2m.Element
	f.Add(&y, &p.l, &p.x)
	f.Mul(&y, &y, &p.x)
	return y
}

func (p *f2mPoint) Add(other Point) Point {
	q := castF2m(other)
	if q.curve != p.curve {
		panic(ErrWrongCurve)
	}
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	c := p.curve
	f := c.f
	if f.IsZero(&p.x) {
		if f.IsZero(&q.x) {
			return c.identity()
		}
		return q.Add(p)
	}

	var u1, s1, u2, s2, a, b f2m.Element
	f.Mul(&u2, &q.x, &p.z)
	f.Mul(&s2, &q.l, &p.z)
	f.Mul(&u1, &p.x, &q.z)
	f.Mul(&s1, &p.l, &q.z)
	f.Add(&a, &s1, &s2)
	f.Add(&b, &u1, &u2)
	if f.IsZero(&b) {
		if f.IsZero(&a) {
			return p.Twice()
		}
		return c.identity()
	}

	if f.IsZero(&q.x) {
		// Q is (0, √b): add in affine coordinates.
		n := castF2m(p.Normalize())
		x1, y1 := n.x, n.affineY()
		var l, x3, y3, t f2m.Element
		f.Add(&l, &y1, &q.l)
		f.Divide(&l, &l, &x1)
		f.Square(&x3, &l)
		f.Add(&x3, &x3, &l)
		f.Add(&x3, &x3, &x1)
		f.Add(&x3, &x3, &c.a)
		if f.IsZero(&x3) {
			return c.torsionPoint()
		}
		f.Add(&t, &x1, &x3)
		f.Mul(&y3, &l, &t)
		f.Add(&y3, &y3, &x3)
		f.Add(&y3, &y3, &y1)
		return c.pointXY(&x3, &y3)
	}

	var au1, au2, abz2 f2m.Element
	f.Square(&b, &b)
	f.Mul(&au1, &a, &u1)
	f.Mul(&au2, &a, &u2)
	out := &f2mPoint{curve: c}
	f.Mul(&out.x, &au1, &au2)
	if f.IsZero(&out.x) {
		return c.torsionPoint()
	}
	f.Mul(&abz2, &a, &b)
	f.Mul(&abz2, &abz2, &q.z)
	// L3 = (AU2 + B)² + ABZ2·(L1 + Z1)
	var t f2m.Element
	f.Add(&au2, &au2, &b)
	f.Add(&t, &p.l, &p.z)
	f.SquarePlusProduct(&out.l, &au2, &abz2, &t)
	f.Mul(&out.z, &abz2, &p.z)
	return out
}

func (p *f2mPoint) Twice() Point {
	if p.inf {
		return p
	}
	c := p.curve
	f := c.f
	if f.IsZero(&p.x) {
		return c.identity()
	}
	var l1z1, z1Sq, t f2m.Element
	f.Mul(&l1z1, &p.l, &p.z)
	f.Square(&z1Sq, &p.z)
	// T = L1² + L1·Z1 + a·Z1²
	f.SquarePlusProduct(&t, &p.l, &c.a, &z1Sq)
	f.Add(&t, &t, &l1z1)
	if f.IsZero(&t) {
		return c.torsionPoint()
	}
	out := &f2mPoint{curve: c}
	f.Square(&out.x, &t)
	f.Mul(&out.z, &t, &z1Sq)
	// L3 = (X1·Z1)² + T·L1·Z1 + X3 + Z3
	var x1z1 f2m.Element
	f.Mul(&x1z1, &p.x, &p.z)
	f.SquarePlusProduct(&out.l, &x1z1, &t, &l1z1)
	f.Add(&out.l, &out.l, &out.x)
	f.Add(&out.l, &out.l, &out.z)
	return out
}

// TwicePlus uses the fused formula when q is normalized.
func (p *f2mPoint) TwicePlus(other Point) Point {
	if p.inf {
		return other
	}
	if other.IsInfinity() {
		return p.Twice()
	}
	c := p.curve
	f := c.f
	if f.IsZero(&p.x) {
		return other
	}
	q := castF2m(other)
	if f.IsZero(&q.x) || !f.IsOne(&q.z) {
		return p.Twice().Add(q)
	}

	var x1Sq, l1Sq, z1Sq, l1z1, t, l2p1, a, x2z1Sq, b f2m.Element
	f.Square(&x1Sq, &p.x)
	f.Square(&l1Sq, &p.l)
	f.Square(&z1Sq, &p.z)
	f.Mul(&l1z1, &p.l, &p.z)
	// T = a·Z1² + L1² + L1·Z1
	f.Mul(&t, &c.a, &z1Sq)
	f.Add(&t, &t, &l1Sq)
	f.Add(&t, &t, &l1z1)
	f.AddOne(&l2p1, &q.l)
	// A = ((a + L2 + 1)·Z1² + L1²)·T + X1²·Z1²
	f.Add(&a, &c.a, &l2p1)
	f.Mul(&a, &a, &z1Sq)
	f.Add(&a, &a, &l1Sq)
	f.MultiplyPlusProduct(&a, &a, &t, &x1Sq, &z1Sq)
	f.Mul(&x2z1Sq, &q.x, &z1Sq)
	f.Add(&b, &x2z1Sq, &t)
	f.Square(&b, &b)
	if f.IsZero(&b) {
		if f.IsZero(&a) {
			return q.Twice()
		}
		return c.identity()
	}
	if f.IsZero(&a) {
		return c.torsionPoint()
	}
	out := &f2mPoint{curve: c}
	f.Square(&out.x, &a)
	f.Mul(&out.x, &out.x, &x2z1Sq)
	f.Mul(&out.z, &a, &b)
	f.Mul(&out.z, &out.z, &z1Sq)
	var ab f2m.Element
	f.Add(&ab, &a, &b)
	f.Square(&ab, &ab)
	f.MultiplyPlusProduct(&out.l, &ab, &t, &l2p1, &out.z)
	return out
}

func (p *f2mPoint) TimesPow2(e int) Point {
	var r Point = p
	for ; e > 0; e-- {
		r = r.Twice()
	}
	return r
}

func (p *f2mPoint) Negate() Point {
	if p.inf || p.curve.f.IsZero(&p.x) {
		return p
	}
	out := &f2mPoint{curve: p.curve, x: p.x, z: p.z}
	p.curve.f.Add(&out.l, &p.l, &p.z)
	return out
}

func (p *f2mPoint) Sub(q Point) Point {
	return p.Add(q.Negate())
}

// tau applies the Frobenius endomorphism (x, y) ↦ (x², y²).
func (p *f2mPoint) tau() *f2mPoint {
	if p.inf {
		return p
	}
	f := p.curve.f
	out := &f2mPoint{curve: p.curve}
	f.Square(&out.x, &p.x)
	f.Square(&out.l, &p.l)
	f.Square(&out.z, &p.z)
	return out
}

func (p *f2mPoint) Equal(other Point) bool {
	q, ok := other.(*f2mPoint)
	if !ok || q.curve != p.curve {
		return false
	}
	if p.inf || q.inf {
		return p.inf && q.inf
	}
	f := p.curve.f
	var l, r f2m.Element
	f.Mul(&l, &p.x, &q.z)
	f.Mul(&r, &q.x, &p.z)
	if !f.Equal(&l, &r) {
		return false
	}
	f.Mul(&l, &p.l, &q.z)
	f.Mul(&r, &q.l, &p.z)
	return f.Equal(&l, &r)
}

// onCurve checks X²(L² + LZ + aZ²) = X⁴ + bZ⁴.
func (p *f2mPoint) onCurve() bool {
	if p.inf {
		return true
	}
	c := p.curve
	f := c.f
	if f.IsZero(&p.x) {
		var ySq f2m.Element
		f.Square(&ySq, &p.l)
		return f.IsOne(&p.z) && f.Equal(&ySq, &c.b)
	}
	var x2, z2, lhs, rhs, t f2m.Element
	f.Square(&x2, &p.x)
	f.Square(&z2, &p.z)
	f.Mul(&t, &p.l, &p.z)
	f.SquarePlusProduct(&lhs, &p.l, &c.a, &z2)
	f.Add(&lhs, &lhs, &t)
	f.Mul(&lhs, &lhs, &x2)
	f.Square(&rhs, &x2)
	f.Square(&t, &z2)
	f.Mul(&t, &t, &c.b)
	f.Add(&rhs, &rhs, &t)
	return f.Equal(&lhs, &rhs)
}

// inSubgroup checks that the point has order N. The 2-primary part of an ordinary binary
// curve is cyclic, so for h = 2 and h = 4 membership in 2E or 4E is tested with traces.
func (p *f2mPoint) inSubgroup() bool {
	c := p.curve
	f := c.f
	h := c.cofactor.Int64()
	if h == 1 {
		return true
	}
	n := castF2m(p.Normalize())
	if f.IsZero(&n.x) {
		return false
	}
	switch h {
	case 2:
		return f.Trace(&n.x) == f.Trace(&c.a)
	case 4:
		var xa, l, t f2m.Element
		f.Add(&xa, &n.x, &c.a)
		if !f.SolveQuadratic(&l, &xa) {
			return false
		}
		y := n.affineY()
		f.Mul(&t, &n.x, &l)
		f.Add(&t, &t, &y)
		return f.Trace(&t) == 0
	}
	return satisfiesOrder(p)
}

func (p *f2mPoint) IsValid() bool {
	if p.inf {
		return true
	}
	return p.onCurve() && p.inSubgroup()
}

func (p *f2mPoint) compressionBit() bool {
	n := castF2m(p.Normalize())
	f := n.curve.f
	if f.IsZero(&n.x) {
		return false
	}
	// y/x = λ + x
	var z f2m.Element
	f.Add(&z, &n.l, &n.x)
	return f.TestBitZero(&z)
}

func (p *f2mPoint) XBytes() []byte {
	if p.inf {
		return nil
	}
	n := castF2m(p.Normalize())
	return n.curve.f.Bytes(&n.x)
}

func (p *f2mPoint) YBytes() []byte {
	if p.inf {
		return nil
	}
	n := castF2m(p.Normalize())
	y := n.affineY()
	return n.curve.f.Bytes(&y)
}

func (p *f2mPoint) XScalar() *Scalar {
	return xScalar(p)
}

func (p *f2mPoint) Encode(compressed bool) []byte {
	return encodePoint(p, compressed)
}

// MarshalBinary implements encoding.BinaryMarshaler using the compressed encoding.
func (p *f2mPoint) MarshalBinary() ([]byte, error) {
	return p.Encode(true), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *f2mPoint) UnmarshalBinary(data []byte) error {
	q, err := p.curve.DecodePoint(data)
	if err != nil {
		return err
	}
	d := castF2m(q)
	p.inf, p.x, p.l, p.z = d.inf, d.x, d.l, d.z
	p.pre.Store(nil)
	p.tauPre.Store(nil)
	return nil
}

// WriteTo implements io.WriterTo with the uncompressed encoding.
func (p *f2mPoint) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, bytes.NewReader(p.Encode(false)))
}

func (p *f2mPoint) String() string {
	if p.inf {
		return p.curve.name + "(∞)"
	}
	return fmt.Sprintf("%s(%x, %x)", p.curve.name, p.XBytes(), p.YBytes())
}

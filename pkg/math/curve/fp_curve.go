package curve

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/taurusgroup/eccore/pkg/math/fp"
)

// fpCurve is y² = x³ + ax + b over a prime field, with points in Jacobian coordinates
// (x = X/Z², y = Y/Z³).
//
// When modified is set the points also carry W = a·Z⁴ (Jacobian-modified coordinates),
// which makes doubling cheap for a generic a.
type fpCurve struct {
	*curveParams
	f         *fp.Field
	a, b      fp.Element
	aIsZero   bool
	aIsMinus3 bool
	modified  bool
}

type fpPoint struct {
	curve   *fpCurve
	inf     bool
	x, y, z fp.Element
	w       fp.Element
	pre     atomic.Pointer[wnafPrecomp]
}

func newFpCurve(c *fpCurve) *fpCurve {
	f := c.f
	var minus3, three fp.Element
	f.SetUint64(&three, 3)
	f.Negate(&minus3, &three)
	c.aIsZero = f.IsZero(&c.a)
	c.aIsMinus3 = f.Equal(&c.a, &minus3)
	return c
}

func castFp(generic Point) *fpPoint {
	out, ok := generic.(*fpPoint)
	if !ok {
		panic(fmt.Sprintf("failed to convert to fpPoint: %v", generic))
	}
	return out
}

func (c *fpCurve) Infinity() Point { return c.identity() }

func (c *fpCurve) identity() *fpPoint { return &fpPoint{curve: c, inf: true} }

func (c *fpCurve) NewScalar() *Scalar { return NewScalar(c) }

// point creates an affine point without validation.
func (c *fpCurve) point(x, y *fp.Element) *fpPoint {
	p := &fpPoint{curve: c, x: *x, y: *y}
	c.f.One(&p.z)
	if c.modified {
		p.w = c.a
	}
	return p
}

func (c *fpCurve) fromAffine(xb, yb []byte) (Point, error) {
	var x, y fp.Element
	if err := c.f.SetBytes(&x, xb); err != nil {
		return nil, err
	}
	if err := c.f.SetBytes(&y, yb); err != nil {
		return nil, err
	}
	return c.point(&x, &y), nil
}

func (c *fpCurve) NewPoint(xb, yb []byte) (Point, error) {
	p, err := c.fromAffine(xb, yb)
	if err != nil {
		return nil, fmt.Errorf("curve.NewPoint: %w", err)
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("curve.NewPoint: %w", ErrInvalidPoint)
	}
	return p, nil
}

func (c *fpCurve) DecodePoint(data []byte) (Point, error) {
	return decodePoint(c, data)
}

// rhs sets z = x³ + ax + b.
func (c *fpCurve) rhs(z, x *fp.Element) {
	f := c.f
	var t fp.Element
	f.Square(&t, x)
	f.Add(&t, &t, &c.a)
	f.Mul(&t, &t, x)
	f.Add(z, &t, &c.b)
}

// decompress recovers y from x and the parity of y.
func (c *fpCurve) decompress(yTilde bool, xb []byte) (Point, error) {
	f := c.f
	var x, alpha, beta fp.Element
	if err := f.SetBytes(&x, xb); err != nil {
		return nil, err
	}
	c.rhs(&alpha, &x)
	if !f.Sqrt(&beta, &alpha) {
		return nil, ErrCompression
	}
	if f.TestBitZero(&beta) != yTilde {
		f.Negate(&beta, &beta)
	}
	return c.point(&x, &beta), nil
}

// normalizeAll replaces every point by its affine form, sharing a single inversion.
func (c *fpCurve) normalizeAll(points []Point) {
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
	acc := make([]fp.Element, len(idx))
	acc[0] = castFp(points[idx[0]]).z
	for j := 1; j < len(idx); j++ {
		f.Mul(&acc[j], &acc[j-1], &castFp(points[idx[j]]).z)
	}
	var inv, zInv fp.Element
	f.Invert(&inv, &acc[len(idx)-1])
	for j := len(idx) - 1; j >= 0; j-- {
		p := castFp(points[idx[j]])
		if j > 0 {
			f.Mul(&zInv, &inv, &acc[j-1])
			f.Mul(&inv, &inv, &p.z)
		} else {
			zInv = inv
		}
		points[idx[j]] = p.scaled(&zInv)
	}
}

func (p *fpPoint) Curve() Curve { return p.curve }

func (p *fpPoint) IsInfinity() bool { return p.inf }

func (p *fpPoint) precomp() *atomic.Pointer[wnafPrecomp] { return &p.pre }

func (p *fpPoint) IsNormalized() bool {
	return p.inf || p.curve.f.IsOne(&p.z)
}

// scaled returns the affine point (X·zInv², Y·zInv³).
func (p *fpPoint) scaled(zInv *fp.Element) *fpPoint {
	f := p.curve.f
	var zInv2, zInv3, x, y fp.Element
	f.Square(&zInv2, zInv)
	f.Mul(&zInv3, &zInv2, zInv)
	f.Mul(&x, &p.x, &zInv2)
	f.Mul(&y, &p.y, &zInv3)
	return p.curve.point(&x, &y)
}

func (p *fpPoint) Normalize() Point {
	if p.IsNormalized() {
		return p
	}
	var zInv fp.Element
	p.curve.f.Invert(&zInv, &p.z)
	return p.scaled(&zInv)
}

func (p *fpPoint) Add(other Point) Point {
	q := castFp(other)
	if q.curve != p.curve {
		panic(ErrWrongCurve)
	}
	if p.inf {
		return q
	}
	if q.inf {
		return p
	}
	if p == q {
		return p.Twice()
	}
	c := p.curve
	f := c.f
	z1IsOne, z2IsOne := f.IsOne(&p.z), f.IsOne(&q.z)

	var u1, s1, u2, s2, t fp.Element
	if z2IsOne {
		u1, s1 = p.x, p.y
	} else {
		f.Square(&t, &q.z)
		f.Mul(&u1, &p.x, &t)
		f.Mul(&t, &t, &q.z)
		f.Mul(&s1, &p.y, &t)
	}
	if z1IsOne {
		u2, s2 = q.x, q.y
	} else {
		f.Square(&t, &p.z)
		f.Mul(&u2, &q.x, &t)
		f.Mul(&t, &t, &p.z)
		f.Mul(&s2, &q.y, &t)
	}

	var h, r fp.Element
	f.Sub(&h, &u2, &u1)
	f.Sub(&r, &s2, &s1)
	if f.IsZero(&h) {
		if f.IsZero(&r) {
			return p.Twice()
		}
		return c.identity()
	}

	var hSq, g, v fp.Element
	f.Square(&hSq, &h)
	f.Mul(&g, &hSq, &h)
	f.Mul(&v, &u1, &hSq)

	out := &fpPoint{curve: c}
	// X3 = R² - G - 2V
	f.Square(&out.x, &r)
	f.Sub(&out.x, &out.x, &g)
	f.Sub(&out.x, &out.x, &v)
	f.Sub(&out.x, &out.x, &v)
	// Y3 = R(V - X3) - S1·G
	f.Sub(&t, &v, &out.x)
	f.Mul(&out.y, &t, &r)
	f.Mul(&t, &s1, &g)
	f.Sub(&out.y, &out.y, &t)
	// Z3 = H·Z1·Z2
	out.z = h
	if !z1IsOne {
		f.Mul(&out.z, &out.z, &p.z)
	}
	if !z2IsOne {
		f.Mul(&out.z, &out.z, &q.z)
	}
	if c.modified {
		out.w = c.aZ4(&out.z)
	}
	return out
}

// aZ4 returns a·Z⁴.
func (c *fpCurve) aZ4(z *fp.Element) fp.Element {
	var t fp.Element
	c.f.Square(&t, z)
	c.f.Square(&t, &t)
	c.f.Mul(&t, &t, &c.a)
	return t
}

func (p *fpPoint) Twice() Point {
	if p.inf {
		return p
	}
	c := p.curve
	f := c.f
	if f.IsZero(&p.y) {
		return c.identity()
	}
	z1IsOne := f.IsOne(&p.z)

	var y1Sq, t, s, m, x1Sq fp.Element
	f.Square(&y1Sq, &p.y)
	f.Square(&t, &y1Sq)
	// S = 4·X·Y²
	f.Mul(&s, &p.x, &y1Sq)
	f.Twice(&s, &s)
	f.Twice(&s, &s)

	switch {
	case c.modified:
		// M = 3X² + W
		f.Square(&x1Sq, &p.x)
		f.Twice(&m, &x1Sq)
		f.Add(&m, &m, &x1Sq)
		f.Add(&m, &m, &p.w)
	case c.aIsZero:
		f.Square(&x1Sq, &p.x)
		f.Twice(&m, &x1Sq)
		f.Add(&m, &m, &x1Sq)
	case c.aIsMinus3:
		// M = 3(X - Z²)(X + Z²)
		var z1Sq, l, r fp.Element
		if z1IsOne {
			f.One(&z1Sq)
		} else {
			f.Square(&z1Sq, &p.z)
		}
		f.Add(&l, &p.x, &z1Sq)
		f.Sub(&r, &p.x, &z1Sq)
		f.Mul(&m, &l, &r)
		f.Twice(&l, &m)
		f.Add(&m, &m, &l)
	default:
		f.Square(&x1Sq, &p.x)
		f.Twice(&m, &x1Sq)
		f.Add(&m, &m, &x1Sq)
		aZ4 := c.a
		if !z1IsOne {
			aZ4 = c.aZ4(&p.z)
		}
		f.Add(&m, &m, &aZ4)
	}

	out := &fpPoint{curve: c}
	// X3 = M² - 2S
	f.Square(&out.x, &m)
	f.Sub(&out.x, &out.x, &s)
	f.Sub(&out.x, &out.x, &s)
	// Y3 = M(S - X3) - 8Y⁴
	var eightT fp.Element
	f.Twice(&eightT, &t)
	f.Twice(&eightT, &eightT)
	f.Twice(&eightT, &eightT)
	f.Sub(&out.y, &s, &out.x)
	f.Mul(&out.y, &out.y, &m)
	f.Sub(&out.y, &out.y, &eightT)
	// Z3 = 2YZ
	f.Twice(&out.z, &p.y)
	if !z1IsOne {
		f.Mul(&out.z, &out.z, &p.z)
	}
	if c.modified {
		// W3 = 16Y⁴·W
		f.Twice(&out.w, &eightT)
		f.Mul(&out.w, &out.w, &p.w)
	}
	return out
}

func (p *fpPoint) TwicePlus(q Point) Point {
	if p.inf {
		return q
	}
	if q.IsInfinity() {
		return p.Twice()
	}
	return p.Twice().Add(q)
}

func (p *fpPoint) TimesPow2(e int) Point {
	var r Point = p
	for ; e > 0; e-- {
		r = r.Twice()
	}
	return r
}

func (p *fpPoint) Negate() Point {
	if p.inf {
		return p
	}
	out := &fpPoint{curve: p.curve, x: p.x, z: p.z, w: p.w}
	p.curve.f.Negate(&out.y, &p.y)
	return out
}

func (p *fpPoint) Sub(q Point) Point {
	return p.Add(q.Negate())
}

func (p *fpPoint) Equal(other Point) bool {
	q, ok := other.(*fpPoint)
	if !ok || q.curve != p.curve {
		return false
	}
	if p.inf || q.inf {
		return p.inf && q.inf
	}
	f := p.curve.f
	var z1Sq, z2Sq, l, r fp.Element
	f.Square(&z1Sq, &p.z)
	f.Square(&z2Sq, &q.z)
	f.Mul(&l, &p.x, &z2Sq)
	f.Mul(&r, &q.x, &z1Sq)
	if !f.Equal(&l, &r) {
		return false
	}
	f.Mul(&z1Sq, &z1Sq, &p.z)
	f.Mul(&z2Sq, &z2Sq, &q.z)
	f.Mul(&l, &p.y, &z2Sq)
	f.Mul(&r, &q.y, &z1Sq)
	return f.Equal(&l, &r)
}

// onCurve checks Y² = X³ + aXZ⁴ + bZ⁶.
func (p *fpPoint) onCurve() bool {
	if p.inf {
		return true
	}
	c := p.curve
	f := c.f
	var lhs, rhs, z2, z4, z6, t fp.Element
	f.Square(&lhs, &p.y)
	f.Square(&rhs, &p.x)
	f.Mul(&rhs, &rhs, &p.x)
	if f.IsOne(&p.z) {
		f.Mul(&t, &c.a, &p.x)
		f.Add(&rhs, &rhs, &t)
		f.Add(&rhs, &rhs, &c.b)
	} else {
		f.Square(&z2, &p.z)
		f.Square(&z4, &z2)
		f.Mul(&z6, &z4, &z2)
		f.Mul(&t, &c.a, &p.x)
		f.Mul(&t, &t, &z4)
		f.Add(&rhs, &rhs, &t)
		f.Mul(&t, &c.b, &z6)
		f.Add(&rhs, &rhs, &t)
	}
	return f.Equal(&lhs, &rhs)
}

func (p *fpPoint) IsValid() bool {
	if p.inf {
		return true
	}
	return p.onCurve() && satisfiesOrder(p)
}

func (p *fpPoint) compressionBit() bool {
	n := castFp(p.Normalize())
	return n.curve.f.TestBitZero(&n.y)
}

func (p *fpPoint) XBytes() []byte {
	if p.inf {
		return nil
	}
	n := castFp(p.Normalize())
	return n.curve.f.Bytes(&n.x)
}

func (p *fpPoint) YBytes() []byte {
	if p.inf {
		return nil
	}
	n := castFp(p.Normalize())
	return n.curve.f.Bytes(&n.y)
}

func (p *fpPoint) XScalar() *Scalar {
	return xScalar(p)
}

func (p *fpPoint) Encode(compressed bool) []byte {
	return encodePoint(p, compressed)
}

// MarshalBinary implements encoding.BinaryMarshaler using the compressed encoding.
func (p *fpPoint) MarshalBinary() ([]byte, error) {
	return p.Encode(true), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The receiver must come from
// Curve.Infinity or another point of the same curve.
func (p *fpPoint) UnmarshalBinary(data []byte) error {
	q, err := p.curve.DecodePoint(data)
	if err != nil {
		return err
	}
	d := castFp(q)
	p.inf, p.x, p.y, p.z, p.w = d.inf, d.x, d.y, d.z, d.w
	p.pre.Store(nil)
	return nil
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
// It writes the uncompressed encoding of the point.
func (p *fpPoint) WriteTo(w io.Writer) (int64, error) {
	n, err := io.Copy(w, bytes.NewReader(p.Encode(false)))
	return n, err
}

func (p *fpPoint) String() string {
	if p.inf {
		return p.curve.name + "(∞)"
	}
	return fmt.Sprintf("%s(%x, %x)", p.curve.name, p.XBytes(), p.YBytes())
}

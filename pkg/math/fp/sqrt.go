package fp

import (
	"math/big"

	"github.com/taurusgroup/eccore/pkg/math/nat"
)

func (f *Field) initSqrt() {
	p := f.pBig
	words := func(x *big.Int) []uint32 { return nat.FromBig(f.bits, x) }
	one := big.NewInt(1)

	switch {
	case p.Bit(1) == 1:
		// p ≡ 3 mod 4
		f.sqrt = sqrt3Mod4
		e := new(big.Int).Add(p, one)
		f.sqrtExp = words(e.Rsh(e, 2))
	case p.Bit(2) == 1:
		// p ≡ 5 mod 8
		f.sqrt = sqrtAtkin
		e := new(big.Int).Sub(p, big.NewInt(5))
		f.sqrtExp = words(e.Rsh(e, 3))
	default:
		f.sqrt = sqrtTonelliShanks
		q := new(big.Int).Sub(p, one)
		s := 0
		for q.Bit(0) == 0 {
			q.Rsh(q, 1)
			s++
		}
		f.tsS = s
		f.sqrtExp = words(q)
		half := new(big.Int).Add(q, one)
		f.tsHalf = words(half.Rsh(half, 1))

		g := big.NewInt(2)
		for big.Jacobi(g, p) != -1 {
			g.Add(g, one)
		}
		var ge Element
		copy(ge[:], words(g))
		f.Exp(&f.tsZ, &ge, f.sqrtExp)
	}
}

// Sqrt sets z to a square root of x and reports whether one exists.
// When it does not, z is left unchanged.
//
// The candidate root is always squared back and compared with x.
func (f *Field) Sqrt(z, x *Element) bool {
	if f.IsZero(x) || f.IsOne(x) {
		*z = *x
		return true
	}
	var r Element
	switch f.sqrt {
	case sqrt3Mod4:
		f.Exp(&r, x, f.sqrtExp)
	case sqrtAtkin:
		f.atkin(&r, x)
	default:
		if !f.tonelliShanks(&r, x) {
			return false
		}
	}
	var check Element
	f.Square(&check, &r)
	if !f.Equal(&check, x) {
		return false
	}
	*z = r
	return true
}

// atkin computes t = 2x, u = t^((p-5)/8), i = t·u², r = x·u·(i - 1).
func (f *Field) atkin(r, x *Element) {
	var t, u, i, one Element
	f.Twice(&t, x)
	f.Exp(&u, &t, f.sqrtExp)
	f.Square(&i, &u)
	f.Mul(&i, &i, &t)
	f.One(&one)
	f.Sub(&i, &i, &one)
	f.Mul(r, x, &u)
	f.Mul(r, r, &i)
}

func (f *Field) tonelliShanks(r, x *Element) bool {
	var c, t, b Element
	m := f.tsS
	c = f.tsZ
	f.Exp(&t, x, f.sqrtExp)
	f.Exp(r, x, f.tsHalf)
	for !f.IsOne(&t) {
		i := 0
		b = t
		for !f.IsOne(&b) {
			f.Square(&b, &b)
			i++
			if i == m {
				return false
			}
		}
		f.SquareN(&b, &c, m-i-1)
		m = i
		f.Square(&c, &b)
		f.Mul(&t, &t, &c)
		f.Mul(r, r, &b)
	}
	return true
}

package curve

import (
	"math/big"

	"github.com/taurusgroup/eccore/internal/params"
)

// Scalar multiplication on Koblitz curves (a ∈ {0, 1}, b = 1) with the τ-adic width-w NAF,
// where τ is the Frobenius map (x, y) ↦ (x², y²) and satisfies τ² = μτ - 2.
//
// The scalar k is first replaced by an element ρ = r0 + r1·τ of Z[τ] congruent to k modulo
// (τ^m - 1)/(τ - 1), which annihilates the subgroup of order N. ρ is then expanded in
// base τ with digits in {0, ±1, ±3, ±5, ±7}, each digit u standing for the precomputed
// multiple α_u·P, so the chain costs one squaring per coordinate per position.

// zTau is r0 + r1·τ.
type zTau struct {
	u, v *big.Int
}

// alpha_u for μ = -1 and μ = 1, indexed by u >> 1.
var (
	alpha0 = [...][2]int64{{1, 0}, {-3, -1}, {-1, -1}, {1, -1}}
	alpha1 = [...][2]int64{{1, 0}, {-3, 1}, {-1, 1}, {1, 1}}
)

// τ-adic expansions of alpha_u, least significant first.
var (
	alpha0Tnaf = [...][]int8{{1}, {-1, 0, 1}, {1, 0, 1}, {-1, 0, 0, 1}}
	alpha1Tnaf = [...][]int8{{1}, {-1, 0, 1}, {1, 0, 1}, {-1, 0, 0, -1}}
)

// tauPrecomp holds α_u·P for u = 1, 3, 5, 7, normalized.
type tauPrecomp struct {
	pu []Point
}

// koblitzParams are the per-curve constants of the partial reduction.
type koblitzParams struct {
	a     int64
	s     [2]*big.Int
	vm    *big.Int
	tw    int64
	alpha *[4][2]int64
	tnaf  *[4][]int8
}

// lucas returns (U_{k-1}, U_k) of the sequence U_{i+1} = μU_i - 2U_{i-1}, started
// from (0, 1), or from (2, μ) when doV is set.
func lucas(mu int, k int, doV bool) (*big.Int, *big.Int) {
	var u0, u1 *big.Int
	if doV {
		u0, u1 = big.NewInt(2), big.NewInt(int64(mu))
	} else {
		u0, u1 = big.NewInt(0), big.NewInt(1)
	}
	for i := 1; i < k; i++ {
		s := new(big.Int).Set(u1)
		if mu != 1 {
			s.Neg(s)
		}
		u2 := s.Sub(s, new(big.Int).Lsh(u0, 1))
		u0, u1 = u1, u2
	}
	return u0, u1
}

// getSi returns s0, s1 with (τ^m - 1)/(τ - 1) = s0 + s1·τ.
func getSi(m int, a int64, mu int, h int64) [2]*big.Int {
	shifts := uint(1)
	if h == 4 {
		shifts = 2
	}
	u0, u1 := lucas(mu, m+3-int(a), false)
	if mu == 1 {
		u0.Neg(u0)
		u1.Neg(u1)
	}
	one := big.NewInt(1)
	d0 := new(big.Int).Add(one, u1)
	d0.Rsh(d0, shifts)
	d1 := new(big.Int).Add(one, u0)
	d1.Rsh(d1, shifts)
	d1.Neg(d1)
	return [2]*big.Int{d0, d1}
}

func newKoblitzParams(m int, a int64, mu int, h int64) *koblitzParams {
	kp := &koblitzParams{a: a, s: getSi(m, a, mu, h)}
	_, kp.vm = lucas(mu, m, true)
	if mu == 1 {
		kp.tw = 6
		kp.alpha = &alpha1
		kp.tnaf = &alpha1Tnaf
	} else {
		kp.tw = 10
		kp.alpha = &alpha0
		kp.tnaf = &alpha0Tnaf
	}
	return kp
}

// approxDivisionByN approximates k·s/N, returning the result scaled by 2^c.
func approxDivisionByN(k, s, vm *big.Int, a int64, m int, c uint) *big.Int {
	kk := uint(m+5)/2 + c
	ns := new(big.Int).Rsh(k, uint(m)-kk-2+uint(a))
	gs := new(big.Int).Mul(s, ns)
	hs := new(big.Int).Rsh(gs, uint(m))
	js := new(big.Int).Mul(vm, hs)
	g := gs.Add(gs, js)
	ls := new(big.Int).Rsh(g, kk-c)
	if g.Bit(int(kk-c-1)) == 1 {
		ls.Add(ls, big.NewInt(1))
	}
	return ls
}

// roundZ rounds λ0 + λ1·τ, given with c fractional bits, to a nearby element of Z[τ].
func roundZ(l0, l1 *big.Int, mu int, c uint) zTau {
	round := func(x *big.Int) *big.Int {
		r := new(big.Int).Lsh(big.NewInt(1), c-1)
		r.Add(r, x)
		return r.Rsh(r, c)
	}
	f0, f1 := round(l0), round(l1)
	e0 := new(big.Int).Sub(l0, new(big.Int).Lsh(f0, c)).Int64()
	e1 := new(big.Int).Sub(l1, new(big.Int).Lsh(f1, c)).Int64()
	one := int64(1) << c
	m := int64(mu)

	eta := 2*e0 + m*e1
	var check1, check2 int64
	if mu == 1 {
		check1, check2 = e0-3*e1, e0+4*e1
	} else {
		check1, check2 = e0+3*e1, e0-4*e1
	}

	var h0, h1 int64
	if eta >= one {
		if check1 < -one {
			h1 = m
		} else {
			h0 = 1
		}
	} else if check2 >= 2*one {
		h1 = m
	}
	if eta < -one {
		if check1 >= one {
			h1 = -m
		} else {
			h0 = -1
		}
	} else if check2 < -2*one {
		h1 = -m
	}
	return zTau{
		u: f0.Add(f0, big.NewInt(h0)),
		v: f1.Add(f1, big.NewInt(h1)),
	}
}

// partModReduction returns ρ ≡ k modulo (τ^m - 1)/(τ - 1) with small norm.
func partModReduction(k *big.Int, m int, kp *koblitzParams, mu int, c uint) zTau {
	s0, s1 := kp.s[0], kp.s[1]
	d0 := new(big.Int)
	if mu == 1 {
		d0.Add(s0, s1)
	} else {
		d0.Sub(s0, s1)
	}
	l0 := approxDivisionByN(k, s0, kp.vm, kp.a, m, c)
	l1 := approxDivisionByN(k, s1, kp.vm, kp.a, m, c)
	q := roundZ(l0, l1, mu, c)

	// r0 = k - d0·q0 - 2·s1·q1
	r0 := new(big.Int).Sub(k, new(big.Int).Mul(d0, q.u))
	r0.Sub(r0, new(big.Int).Lsh(new(big.Int).Mul(s1, q.v), 1))
	// r1 = s1·q0 - s0·q1
	r1 := new(big.Int).Mul(s1, q.u)
	r1.Sub(r1, new(big.Int).Mul(s0, q.v))
	return zTau{u: r0, v: r1}
}

// tauAdicWNaf expands λ in base τ with odd digits of absolute value below 2^(w-1).
func tauAdicWNaf(mu int, lambda zTau, kp *koblitzParams) []int8 {
	const pow2w = params.TauPow2Width
	r0 := new(big.Int).Set(lambda.u)
	r1 := new(big.Int).Set(lambda.v)
	tw := big.NewInt(kp.tw)
	modulus := big.NewInt(pow2w)

	var (
		out []int8
		uu  big.Int
		t   big.Int
	)
	for r0.Sign() != 0 || r1.Sign() != 0 {
		if r0.Bit(0) == 1 {
			uu.Mul(r1, tw)
			uu.Add(&uu, r0)
			uu.Mod(&uu, modulus)
			u := uu.Int64()
			if u >= pow2w/2 {
				u -= pow2w
			}
			out = append(out, int8(u))
			abs := u
			if abs < 0 {
				abs = -abs
			}
			al := kp.alpha[abs>>1]
			if u > 0 {
				r0.Sub(r0, big.NewInt(al[0]))
				r1.Sub(r1, big.NewInt(al[1]))
			} else {
				r0.Add(r0, big.NewInt(al[0]))
				r1.Add(r1, big.NewInt(al[1]))
			}
		} else {
			out = append(out, 0)
		}
		// (r0, r1) ← (r0 + r1·τ)/τ
		t.Rsh(r0, 1)
		if mu == 1 {
			r0.Add(r1, &t)
		} else {
			r0.Sub(r1, &t)
		}
		r1.Neg(&t)
	}
	return out
}

// tauPow returns τ^k(P).
func (p *f2mPoint) tauPow(k int) *f2mPoint {
	if p.inf || k == 0 {
		return p
	}
	f := p.curve.f
	out := &f2mPoint{curve: p.curve}
	f.SquarePow(&out.x, &p.x, k)
	f.SquarePow(&out.l, &p.l, k)
	f.SquarePow(&out.z, &p.z, k)
	return out
}

// multiplyFromTnaf evaluates Σ u_i·τ^i(P) for digits in {0, ±1}.
func multiplyFromTnaf(p *f2mPoint, u []int8) *f2mPoint {
	neg := castF2m(p.Negate())
	q := p.curve.identity()
	tauCount := 0
	for i := len(u) - 1; i >= 0; i-- {
		tauCount++
		if u[i] == 0 {
			continue
		}
		q = q.tauPow(tauCount)
		tauCount = 0
		if u[i] > 0 {
			q = castF2m(q.Add(p))
		} else {
			q = castF2m(q.Add(neg))
		}
	}
	return q.tauPow(tauCount)
}

func precomputeTau(p *f2mPoint, kp *koblitzParams) *tauPrecomp {
	if pre := p.tauPre.Load(); pre != nil {
		return pre
	}
	pu := make([]Point, len(kp.tnaf))
	pu[0] = p.Normalize()
	for i := 1; i < len(pu); i++ {
		pu[i] = multiplyFromTnaf(p, kp.tnaf[i])
	}
	p.curve.normalizeAll(pu)
	pre := &tauPrecomp{pu: pu}
	p.tauPre.Store(pre)
	return pre
}

// multiplyFromWTnaf evaluates Σ u_i·τ^i(P) for the digits of a τ-adic wNAF.
func multiplyFromWTnaf(p *f2mPoint, pre *tauPrecomp, u []int8) *f2mPoint {
	q := p.curve.identity()
	tauCount := 0
	for i := len(u) - 1; i >= 0; i-- {
		tauCount++
		digit := int(u[i])
		if digit == 0 {
			continue
		}
		q = q.tauPow(tauCount)
		tauCount = 0
		if digit > 0 {
			q = castF2m(q.Add(pre.pu[digit>>1]))
		} else {
			q = castF2m(q.Add(pre.pu[(-digit)>>1].Negate()))
		}
	}
	return q.tauPow(tauCount)
}

// tauMultiply computes k·P for k > 0 and P in the subgroup of order N.
func tauMultiply(generic Point, k *big.Int) Point {
	p := castF2m(generic)
	c := p.curve
	rho := partModReduction(k, c.f.M(), c.tnaf, c.mu, params.TauPrecision)
	u := tauAdicWNaf(c.mu, rho, c.tnaf)
	return multiplyFromWTnaf(p, precomputeTau(p, c.tnaf), u)
}

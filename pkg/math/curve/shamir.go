package curve

import (
	"math/big"
)

const maxShamirWindow = 8

// shamirMultiply computes a·p + b·q for a, b ≥ 0 with one shared chain of doublings
// over the interleaved wNAF expansions.
func shamirMultiply(p Point, a *big.Int, q Point, b *big.Int) Point {
	widthP := min(windowSize(a.BitLen()), maxShamirWindow)
	widthQ := min(windowSize(b.BitLen()), maxShamirWindow)
	preP := precomputeWNaf(p, widthP)
	preQ := precomputeWNaf(q, widthQ)
	// A cached table may be wider than the window used for the expansion, which is fine
	// since the narrower table is a prefix.
	nafP := windowNaf(widthP, a)
	nafQ := windowNaf(widthQ, b)

	c := p.Curve()
	r := c.Infinity()
	zeroes := 0
	for i := max(len(nafP), len(nafQ)) - 1; i >= 0; i-- {
		var dp, dq int
		if i < len(nafP) {
			dp = int(nafP[i])
		}
		if i < len(nafQ) {
			dq = int(nafQ[i])
		}
		if dp|dq == 0 {
			zeroes++
			continue
		}
		sum := c.Infinity()
		if dp != 0 {
			sum = sum.Add(preP.lookup(dp))
		}
		if dq != 0 {
			sum = sum.Add(preQ.lookup(dq))
		}
		if zeroes > 0 {
			r = r.TimesPow2(zeroes)
			zeroes = 0
		}
		r = r.TwicePlus(sum)
	}
	if zeroes > 0 {
		r = r.TimesPow2(zeroes)
	}
	return r
}

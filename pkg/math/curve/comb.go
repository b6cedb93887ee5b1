package curve

import (
	"math/big"

	"github.com/taurusgroup/eccore/internal/params"
)

// combTable is the fixed-base comb of a generator G. With d = ⌈bits/width⌉, entry i
// of lookup is G + Σ 2^(j·d)·G over the set bits j of i, and offset = G - 2^d·G
// cancels the G contributed by every column.
type combTable struct {
	width  int
	d      int
	size   int
	lookup []Point
	offset Point
}

func newCombTable(g Point, bits int) *combTable {
	width := params.CombWidthSmall
	if bits >= params.CombWidthThreshold {
		width = params.CombWidthLarge
	}
	d := (bits + width - 1) / width

	pow2 := make([]Point, width+1)
	pow2[0] = g
	for i := 1; i < width; i++ {
		pow2[i] = pow2[i-1].TimesPow2(d)
	}
	pow2[width] = pow2[0].Sub(pow2[1])
	g.Curve().normalizeAll(pow2)

	n := 1 << width
	lookup := make([]Point, n)
	lookup[0] = pow2[0]
	for bit := width - 1; bit >= 0; bit-- {
		step := 1 << bit
		for i := step; i < n; i += step << 1 {
			lookup[i] = lookup[i-step].Add(pow2[bit])
		}
	}
	g.Curve().normalizeAll(lookup)

	return &combTable{
		width:  width,
		d:      d,
		size:   d * width,
		lookup: lookup,
		offset: pow2[width],
	}
}

// combMultiply computes k·G for 0 ≤ k < 2^size.
func combMultiply(c Curve, k *big.Int) Point {
	t := c.base().comb
	r := c.Infinity()
	top := t.size - 1
	for i := 0; i < t.d; i++ {
		idx := 0
		for j := top - i; j >= 0; j -= t.d {
			idx = idx<<1 | int(k.Bit(j))
		}
		r = r.TwicePlus(t.lookup[idx])
	}
	return r.Add(t.offset)
}

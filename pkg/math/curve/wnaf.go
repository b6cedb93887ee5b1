package curve

import (
	"math/big"

	"github.com/taurusgroup/eccore/internal/params"
)

// wnafPrecomp holds the odd multiples P, 3P, …, (2^(width-1)-1)P and their negations,
// all normalized.
type wnafPrecomp struct {
	width int
	pos   []Point
	neg   []Point
}

// windowSize returns the wNAF width for a scalar of the given bit length.
func windowSize(bits int) int {
	w := 0
	for w < len(params.WindowCutoffs) && bits >= params.WindowCutoffs[w] {
		w++
	}
	w += params.MinWindow
	if w > params.MaxWindow {
		w = params.MaxWindow
	}
	return w
}

// lowWord returns the least significant word of a non-negative k.
func lowWord(k *big.Int) uint {
	words := k.Bits()
	if len(words) == 0 {
		return 0
	}
	return uint(words[0])
}

// windowNaf returns the width-w NAF of k ≥ 0, one digit per bit position, least
// significant first.
func windowNaf(width int, k *big.Int) []int8 {
	if width < 2 || width > 8 {
		panic("curve.windowNaf: width must be in [2, 8]")
	}
	if k.Sign() == 0 {
		return nil
	}
	pow2 := 1 << width
	mask := uint(pow2 - 1)
	sign := pow2 >> 1

	out := make([]int8, k.BitLen()+1)
	k = new(big.Int).Set(k)
	carry := uint(0)
	length, pos := 0, 0
	for pos <= k.BitLen() {
		if k.Bit(pos) == carry {
			pos++
			continue
		}
		k.Rsh(k, uint(pos))
		digit := int(lowWord(k)&mask) + int(carry)
		carry = 0
		if digit&sign != 0 {
			carry = 1
			digit -= pow2
		}
		if length > 0 {
			length += pos - 1
		} else {
			length += pos
		}
		out[length] = int8(digit)
		length++
		pos = width
	}
	return out[:length]
}

// compactWindowNaf returns the width-w NAF of k ≥ 0 as packed entries
// (digit << 16 | zeroes), least significant first. zeroes counts the doublings to
// apply after the digit is added.
func compactWindowNaf(width int, k *big.Int) []int32 {
	if width < params.MinWindow || width > params.MaxWindow {
		panic("curve.compactWindowNaf: width out of range")
	}
	if k.Sign() == 0 {
		return nil
	}
	pow2 := 1 << width
	mask := uint(pow2 - 1)
	sign := pow2 >> 1

	out := make([]int32, 0, k.BitLen()/width+1)
	k = new(big.Int).Set(k)
	carry := uint(0)
	pos := 0
	for pos <= k.BitLen() {
		if k.Bit(pos) == carry {
			pos++
			continue
		}
		k.Rsh(k, uint(pos))
		digit := int(lowWord(k)&mask) + int(carry)
		carry = 0
		if digit&sign != 0 {
			carry = 1
			digit -= pow2
		}
		zeroes := pos
		if len(out) > 0 {
			zeroes = pos - 1
		}
		out = append(out, int32(digit<<16|zeroes))
		pos = width
	}
	return out
}

func unpack(entry int32) (digit, zeroes int) {
	return int(entry >> 16), int(entry & 0xFFFF)
}

// precomputeWNaf returns the odd-multiple table of p for at least the given width,
// reusing the table cached on p when it is wide enough.
func precomputeWNaf(p Point, width int) *wnafPrecomp {
	cache := p.precomp()
	if pre := cache.Load(); pre != nil && pre.width >= width {
		return pre
	}
	size := 1 << (width - 2)
	pos := make([]Point, size)
	pos[0] = p.Normalize()
	if size > 1 {
		twiceP := pos[0].Twice()
		for i := 1; i < size; i++ {
			pos[i] = pos[i-1].Add(twiceP)
		}
	}
	p.Curve().normalizeAll(pos)
	neg := make([]Point, size)
	for i := range pos {
		neg[i] = pos[i].Negate()
	}
	pre := &wnafPrecomp{width: width, pos: pos, neg: neg}
	cache.Store(pre)
	return pre
}

func (pre *wnafPrecomp) lookup(digit int) Point {
	if digit < 0 {
		return pre.neg[(-digit)>>1]
	}
	return pre.pos[digit>>1]
}

// wnafMultiply computes k·p for k > 0 left to right over the compact wNAF of k.
func wnafMultiply(p Point, k *big.Int) Point {
	pre := precomputeWNaf(p, windowSize(k.BitLen()))
	width := pre.width
	digits := compactWindowNaf(width, k)

	r := p.Curve().Infinity()
	i := len(digits)
	if i > 1 {
		// First window: a small leading digit is merged with the following bits so that
		// the first addition uses two table entries and skips a few doublings.
		i--
		digit, zeroes := unpack(digits[i])
		abs := digit
		if abs < 0 {
			abs = -abs
		}
		table := pre.pos
		if digit < 0 {
			table = pre.neg
		}
		if abs<<2 < 1<<width {
			hi := bitLen(abs)
			scale := width - hi
			low := abs ^ (1 << (hi - 1))
			i1 := (1 << (width - 1)) - 1
			i2 := (low << scale) + 1
			r = table[i1>>1].Add(table[i2>>1])
			zeroes -= scale
		} else {
			r = table[abs>>1]
		}
		r = r.TimesPow2(zeroes)
	}
	for i > 0 {
		i--
		digit, zeroes := unpack(digits[i])
		r = r.TwicePlus(pre.lookup(digit))
		r = r.TimesPow2(zeroes)
	}
	return r
}

func bitLen(x int) int {
	n := 0
	for ; x > 0; x >>= 1 {
		n++
	}
	return n
}

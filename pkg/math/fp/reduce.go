package fp

import (
	"github.com/taurusgroup/eccore/pkg/math/nat"
)

// Reduce sets z = tt mod p for a double-width value tt < p².
func (f *Field) Reduce(z *Element, tt []uint32) {
	switch f.red {
	case NIST256:
		f.reduceNIST256(z, tt)
	case Mersenne521:
		f.reduce521(z, tt)
	default:
		f.reduceSolinas(z, tt)
	}
}

// reduceSolinas repeatedly replaces hi·2^(32n) + lo by hi·c + lo until hi vanishes.
func (f *Field) reduceSolinas(z *Element, tt []uint32) {
	n, cn := f.n, f.cn
	width := n + cn + 1
	var acc [2*nat.MaxWords + 2]uint32
	copy(acc[:n], tt[:n])

	hi := tt[n : 2*n]
	for j := 0; j < cn; j++ {
		carry := nat.MulWordAddTo(f.c[j], hi, acc[j:j+n])
		nat.AddWordAt(acc[:width], carry, j+n)
	}

	var top [nat.MaxWords + 1]uint32
	for !nat.IsZero(acc[n:width]) {
		k := width - n
		copy(top[:k], acc[n:width])
		nat.Zero(acc[n:width])
		for j := 0; j < cn; j++ {
			carry := nat.MulWordAddTo(f.c[j], top[:k], acc[j:j+k])
			nat.AddWordAt(acc[:width], carry, j+k)
		}
	}

	for nat.Gte(acc[:n], f.p[:n]) {
		nat.SubFrom(f.p[:n], acc[:n])
	}
	*z = Element{}
	copy(z[:n], acc[:n])
}

// nist256Terms lists, for each of the nine terms of the FIPS 186 reduction, the source
// word of every result word (least significant first); -1 stands for a zero word.
var nist256Terms = [9][8]int8{
	{0, 1, 2, 3, 4, 5, 6, 7},
	{-1, -1, -1, 11, 12, 13, 14, 15},
	{-1, -1, -1, 12, 13, 14, 15, -1},
	{8, 9, 10, -1, -1, -1, 14, 15},
	{9, 10, 11, 13, 14, 15, 13, 8},
	{11, 12, 13, -1, -1, -1, 8, 10},
	{12, 13, 14, 15, -1, -1, 9, 11},
	{13, 14, 15, 8, 9, 10, -1, 12},
	{14, 15, -1, 9, 10, 11, -1, 13},
}

// nist256Weights is s1 + 2s2 + 2s3 + s4 + s5 - s6 - s7 - s8 - s9.
var nist256Weights = [9]int64{1, 2, 2, 1, 1, -1, -1, -1, -1}

func (f *Field) reduceNIST256(z *Element, tt []uint32) {
	var sums [8]int64
	for t, term := range nist256Terms {
		w := nist256Weights[t]
		for i, src := range term {
			if src >= 0 {
				sums[i] += w * int64(tt[src])
			}
		}
	}

	var r [8]uint32
	var carry int64
	for i := 0; i < 8; i++ {
		carry += sums[i]
		r[i] = uint32(carry)
		carry >>= 32
	}

	p := f.p[:8]
	for carry < 0 {
		carry += int64(nat.AddTo(p, r[:]))
	}
	for carry > 0 || nat.Gte(r[:], p) {
		carry -= int64(nat.SubFrom(p, r[:]))
	}
	*z = Element{}
	copy(z[:8], r[:])
}

// reduce521 adds the bits above 521 back onto the low 521 bits.
func (f *Field) reduce521(z *Element, tt []uint32) {
	var lo, hi Element
	for i := 0; i < 17; i++ {
		hi[i] = tt[16+i]>>9 | tt[17+i]<<23
	}
	copy(lo[:17], tt[:17])
	lo[16] &= 0x1FF

	nat.Add(lo[:17], lo[:17], hi[:17])
	c := lo[16] >> 9
	lo[16] &= 0x1FF
	nat.AddWordAt(lo[:17], c, 0)
	for nat.Gte(lo[:17], f.p[:17]) {
		nat.SubFrom(f.p[:17], lo[:17])
	}
	*z = lo
}

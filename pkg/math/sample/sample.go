package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/eccore/internal/params"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", params.MaxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < params.MaxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ by rejection, reading BitLen(n) bits at a time.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	bits := n.BitLen()
	buf := make([]byte, (bits+7)/8)
	mask := byte(0xff) >> uint(8*len(buf)-bits)
	out := new(saferith.Nat)
	for i := 0; i < params.MaxIterations; i++ {
		mustReadBits(rand, buf)
		buf[0] &= mask
		out.SetBytes(buf)
		if _, _, lt := out.CmpMod(n); lt == 1 {
			return out
		}
	}
	panic(ErrMaxIterations)
}

// Scalar returns a uniform scalar in [1, N-1].
func Scalar(rand io.Reader, group curve.Curve) *curve.Scalar {
	for i := 0; i < params.MaxIterations; i++ {
		s := group.NewScalar().SetNat(ModN(rand, group.Order()))
		if !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// ScalarPointPair returns a fresh scalar k together with k⋅G.
func ScalarPointPair(rand io.Reader, group curve.Curve) (*curve.Scalar, curve.Point) {
	s := Scalar(rand, group)
	return s, s.ActOnBase()
}

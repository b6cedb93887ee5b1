package sample

import (
	"bytes"
	"crypto/rand"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

func TestModN(t *testing.T) {
	n := saferith.ModulusFromUint64(3 * 11 * 65519)
	for i := 0; i < 100; i++ {
		x := ModN(rand.Reader, n)
		_, _, lt := x.CmpMod(n)
		assert.Equal(t, saferith.Choice(1), lt, "ModN generated a number >= %v: %v", n, x)
	}
}

func TestScalar(t *testing.T) {
	for _, c := range []curve.Curve{curve.Secp160r1(), curve.Secp256k1(), curve.Sect163k1()} {
		s := Scalar(rand.Reader, c)
		assert.False(t, s.IsZero())
		assert.Equal(t, -1, s.Big().Cmp(c.OrderBig()))
		assert.Same(t, c, s.Curve())
	}
}

func TestScalarDeterministic(t *testing.T) {
	c := curve.Secp256r1()
	a := Scalar(mrand.New(mrand.NewSource(1)), c)
	b := Scalar(mrand.New(mrand.NewSource(1)), c)
	assert.True(t, a.Equal(b))

	k, p := ScalarPointPair(mrand.New(mrand.NewSource(2)), c)
	assert.True(t, k.ActOnBase().Equal(p))
}

func TestExhaustedReader(t *testing.T) {
	c := curve.Secp256k1()
	assert.PanicsWithValue(t, ErrMaxIterations, func() {
		Scalar(bytes.NewReader(nil), c)
	})
	// A reader of zeros never yields a non-zero scalar.
	assert.PanicsWithValue(t, ErrMaxIterations, func() {
		Scalar(bytes.NewReader(make([]byte, 1<<16)), c)
	})
}

// This exists to save the results of functions we want to benchmark, to avoid
// having them optimized away.
var resultScalar *curve.Scalar

func BenchmarkScalar(b *testing.B) {
	c := curve.Secp256r1()
	for i := 0; i < b.N; i++ {
		resultScalar = Scalar(rand.Reader, c)
	}
}

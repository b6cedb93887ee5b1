package curve

import (
	"crypto/elliptic"
	"math/big"
	"math/rand"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func TestWindowSize(t *testing.T) {
	assert.Equal(t, 2, windowSize(1))
	assert.Equal(t, 2, windowSize(12))
	assert.Equal(t, 3, windowSize(13))
	assert.Equal(t, 4, windowSize(41))
	assert.Equal(t, 5, windowSize(160))
	assert.Equal(t, 6, windowSize(521))
	assert.Equal(t, 8, windowSize(5000))
}

func TestWindowNaf(t *testing.T) {
	r := rand.New(rand.NewSource(40))
	for i := 0; i < 200; i++ {
		k := new(big.Int).Rand(r, new(big.Int).Lsh(big.NewInt(1), uint(1+r.Intn(600))))
		for width := 2; width <= 8; width++ {
			sum := new(big.Int)
			for i, d := range windowNaf(width, k) {
				sum.Add(sum, new(big.Int).Lsh(big.NewInt(int64(d)), uint(i)))
				if d != 0 {
					assert.Equal(t, int8(1), d&1, "digits are odd")
					assert.Less(t, int(abs8(d)), 1<<(width-1))
				}
			}
			assert.Equal(t, 0, k.Cmp(sum), "width %d", width)
		}
		for width := 2; width <= 16; width++ {
			assert.Equal(t, 0, k.Cmp(compactValue(compactWindowNaf(width, k))), "width %d", width)
		}
	}
	assert.Empty(t, windowNaf(4, new(big.Int)))
	assert.Empty(t, compactWindowNaf(4, new(big.Int)))
}

func abs8(x int8) int8 {
	if x < 0 {
		return -x
	}
	return x
}

// compactValue evaluates packed digits like wnafMultiply, without the first-window shortcut.
func compactValue(digits []int32) *big.Int {
	v := new(big.Int)
	for i := len(digits) - 1; i >= 0; i-- {
		d, z := unpack(digits[i])
		v.Lsh(v, 1)
		v.Add(v, big.NewInt(int64(d)))
		v.Lsh(v, uint(z))
	}
	return v
}

func TestMultiplyMatchesReference(t *testing.T) {
	r := rand.New(rand.NewSource(41))
	for _, c := range allCurves(t) {
		t.Run(c.Name(), func(t *testing.T) {
			g := c.Generator()
			p := randomPoint(r, c)
			for i := 0; i < 3; i++ {
				k := randomBig(r, c.OrderBig())
				expected := referenceMultiply(g, k)
				assert.True(t, Multiply(g, k).Equal(expected), "comb")
				assert.True(t, wnafMultiply(g, k).Equal(expected), "wnaf")
				if c.IsKoblitz() && k.Sign() > 0 {
					assert.True(t, tauMultiply(g, k).Equal(expected), "tnaf")
				}
				assert.True(t, Multiply(p, k).Equal(referenceMultiply(p, k)))
			}
			// Small scalars exercise the first window.
			for _, k := range []int64{1, 2, 3, 5, 7, 8, 17, 255, 1 << 20} {
				kb := big.NewInt(k)
				assert.True(t, Multiply(p, kb).Equal(referenceMultiply(p, kb)), "k=%d", k)
				assert.True(t, Multiply(g, kb).Equal(referenceMultiply(g, kb)), "k=%d", k)
			}
			assert.True(t, Multiply(p, new(big.Int)).IsInfinity())
			assert.True(t, Multiply(c.Infinity(), big.NewInt(5)).IsInfinity())
			assert.True(t, Multiply(p, big.NewInt(-3)).Equal(referenceMultiply(p, big.NewInt(3)).Negate()))
			assert.True(t, Multiply(g, c.OrderBig()).IsInfinity())
			nMinus1 := new(big.Int).Sub(c.OrderBig(), big.NewInt(1))
			assert.True(t, Multiply(g, nMinus1).Equal(g.Negate()))
		})
	}
}

func TestSumOfTwoMultiplies(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, c := range allCurves(t) {
		t.Run(c.Name(), func(t *testing.T) {
			p, q := randomPoint(r, c), randomPoint(r, c)
			a, b := randomBig(r, c.OrderBig()), randomBig(r, c.OrderBig())
			expected := Multiply(p, a).Add(Multiply(q, b))
			assert.True(t, SumOfTwoMultiplies(p, a, q, b).Equal(expected))
			assert.True(t, SumOfTwoMultiplies(p, new(big.Int), q, b).Equal(Multiply(q, b)))
			assert.True(t, SumOfTwoMultiplies(p, a, p, new(big.Int).Neg(a)).IsInfinity())
			negB := new(big.Int).Neg(b)
			assert.True(t, SumOfTwoMultiplies(p, a, q, negB).Equal(Multiply(p, a).Sub(Multiply(q, b))))
			// a short scalar next to a long one
			assert.True(t, SumOfTwoMultiplies(p, big.NewInt(3), q, b).Equal(Multiply(p, big.NewInt(3)).Add(Multiply(q, b))))
		})
	}
	assert.Panics(t, func() {
		SumOfTwoMultiplies(Secp256k1().Generator(), big.NewInt(1), Secp256r1().Generator(), big.NewInt(1))
	})
}

func TestMultiplyAgainstStandardLibrary(t *testing.T) {
	r := rand.New(rand.NewSource(43))
	pairs := []struct {
		ours Curve
		std  elliptic.Curve
	}{
		{P224(), elliptic.P224()},
		{P256(), elliptic.P256()},
		{P384(), elliptic.P384()},
		{P521(), elliptic.P521()},
	}
	for _, pair := range pairs {
		for i := 0; i < 5; i++ {
			k := randomBig(r, pair.ours.OrderBig())
			kBytes := k.FillBytes(make([]byte, ByteLen(pair.ours)))
			x, y := pair.std.ScalarBaseMult(kBytes)
			p := Multiply(pair.ours.Generator(), k)
			assert.Equal(t, 0, x.Cmp(new(big.Int).SetBytes(p.XBytes())), pair.ours.Name())
			assert.Equal(t, 0, y.Cmp(new(big.Int).SetBytes(p.YBytes())), pair.ours.Name())

			// Arbitrary base point through wNAF.
			x2, y2 := pair.std.ScalarMult(x, y, kBytes)
			p2 := Multiply(p, k)
			assert.Equal(t, 0, x2.Cmp(new(big.Int).SetBytes(p2.XBytes())), pair.ours.Name())
			assert.Equal(t, 0, y2.Cmp(new(big.Int).SetBytes(p2.YBytes())), pair.ours.Name())
		}
	}
}

func TestSecp256k1AgainstDecred(t *testing.T) {
	r := rand.New(rand.NewSource(44))
	c := Secp256k1()
	for i := 0; i < 10; i++ {
		k := new(big.Int).Add(randomBig(r, new(big.Int).Sub(c.OrderBig(), big.NewInt(1))), big.NewInt(1))
		priv := secp256k1.PrivKeyFromBytes(k.FillBytes(make([]byte, 32)))
		expected := priv.PubKey().SerializeCompressed()
		assert.Equal(t, expected, Multiply(c.Generator(), k).Encode(true))

		decoded, err := c.DecodePoint(priv.PubKey().SerializeUncompressed())
		require.NoError(t, err)
		assert.True(t, decoded.Equal(Multiply(c.Generator(), k)))
	}
}

func TestCurve25519AgainstX25519(t *testing.T) {
	r := rand.New(rand.NewSource(45))
	c := Curve25519()
	p := c.(*fpCurve).f.Modulus()
	// x_M = x_W - A/3
	shift := new(big.Int).ModInverse(big.NewInt(3), p)
	shift.Mul(shift, big.NewInt(486662))
	shift.Mod(shift, p)

	for i := 0; i < 5; i++ {
		scalar := make([]byte, 32)
		r.Read(scalar)
		scalar[0] &= 248
		scalar[31] &= 127
		scalar[31] |= 64
		expected, err := curve25519.X25519(scalar, curve25519.Basepoint)
		require.NoError(t, err)

		k := new(big.Int).SetBytes(reverse(scalar))
		w := Multiply(c.Generator(), k)
		u := new(big.Int).SetBytes(w.XBytes())
		u.Sub(u, shift)
		u.Mod(u, p)
		assert.Equal(t, expected, reverse(u.FillBytes(make([]byte, 32))))
	}
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

func TestBinaryKnownAnswers(t *testing.T) {
	k, _ := new(big.Int).SetString("0123456789ABCDEF0123456789ABCDEF", 16)
	vectors := []struct {
		curve Curve
		x, y  string
	}{
		{Sect113r1(), "19493E757FE70A6D151E0271C0E45", "1978E2A7F93EC73559E12C559F76"},
		{Sect163k1(), "3E1A379FD66D6CD4285E7687DFBE3F6426F77F906", "E8AC25C3E4422FA1D5A0054E04B3CD3A9ADEAE1B"},
		{Sect193r1(), "128DBA6C2D274C14055D5C3AF3DAB864B393B0FA794CB71D7", "19FCF135A07A9784FACD0114C4395A7B2450F0E5117DD596B"},
		{Sect233k1(), "1AC67CE7EDEB1591E499B6B88A3239A39A5A75982F01EB2EAA0AC856D33", "177013CE411773A8A88E16E661322B12AD4656322EA20965CFD473E767E"},
		{Sect239k1(), "501DF22E0C7C6F4341E909D5560702A32FE07B278DD3B88717B49F7ADA8F", "702FC7950D8CD59C194770F0C03260F741E9A764A9CFA978C54AF89446A2"},
	}
	for _, v := range vectors {
		for _, p := range []Point{Multiply(v.curve.Generator(), k), wnafMultiply(v.curve.Generator(), k)} {
			assert.Equal(t, 0, hexBig(v.x).Cmp(new(big.Int).SetBytes(p.XBytes())), v.curve.Name())
			assert.Equal(t, 0, hexBig(v.y).Cmp(new(big.Int).SetBytes(p.YBytes())), v.curve.Name())
		}
	}
}

func TestKoblitzLargeScalars(t *testing.T) {
	r := rand.New(rand.NewSource(46))
	for _, c := range []Curve{Sect163k1(), Sect233k1(), Sect239k1()} {
		p := randomPoint(r, c)
		// τ-adic reduction handles scalars larger than N.
		k := new(big.Int).Lsh(randomBig(r, c.OrderBig()), 40)
		assert.True(t, tauMultiply(p, k).Equal(referenceMultiply(p, k)), c.Name())
	}
}

func TestPrecomputationIsShared(t *testing.T) {
	c := Secp384r1()
	p := Multiply(c.Generator(), big.NewInt(1234567))
	k, _ := new(big.Int).SetString("123456789abcdef", 16)
	first := Multiply(p, k)
	pre := p.precomp().Load()
	require.NotNil(t, pre)
	second := Multiply(p, k)
	assert.Same(t, pre, p.precomp().Load())
	assert.True(t, first.Equal(second))

	done := make(chan Point, 8)
	for i := 0; i < cap(done); i++ {
		go func() { done <- Multiply(p, k) }()
	}
	for i := 0; i < cap(done); i++ {
		assert.True(t, first.Equal(<-done))
	}
}

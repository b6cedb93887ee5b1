package fp

import (
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrimes = []struct {
	name string
	hex  string
	red  Reduction
}{
	{"secp128r1", "fffffffdffffffffffffffffffffffff", Solinas},
	{"secp160k1", "fffffffffffffffffffffffffffffffeffffac73", Solinas},
	{"secp160r1", "ffffffffffffffffffffffffffffffff7fffffff", Solinas},
	{"secp192k1", "fffffffffffffffffffffffffffffffffffffffeffffee37", Solinas},
	{"secp192r1", "fffffffffffffffffffffffffffffffeffffffffffffffff", Solinas},
	{"secp224k1", "fffffffffffffffffffffffffffffffffffffffffffffffeffffe56d", Solinas},
	{"secp224r1", "ffffffffffffffffffffffffffffffff000000000000000000000001", Solinas},
	{"secp256k1", "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", Solinas},
	{"secp256r1", "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", NIST256},
	{"secp384r1", "fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffff0000000000000000ffffffff", Solinas},
	{"secp521r1", "1" + strings.Repeat("f", 130), Mersenne521},
	{"curve25519", "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed", Solinas},
}

func TestMersenne521Modulus(t *testing.T) {
	for _, tp := range testPrimes {
		if tp.red != Mersenne521 {
			continue
		}
		p, ok := new(big.Int).SetString(tp.hex, 16)
		require.True(t, ok)
		expected := new(big.Int).Lsh(big.NewInt(1), 521)
		assert.Equal(t, 0, expected.Sub(expected, big.NewInt(1)).Cmp(p))
		assert.True(t, p.ProbablyPrime(20))
	}
}

type fieldCase struct {
	f *Field
	p *big.Int
}

func testFields(t *testing.T) []fieldCase {
	out := make([]fieldCase, 0, len(testPrimes))
	for _, tp := range testPrimes {
		p, ok := new(big.Int).SetString(tp.hex, 16)
		require.True(t, ok)
		out = append(out, fieldCase{New(tp.name, p, tp.red), p})
	}
	return out
}

func randomElement(t *testing.T, r *rand.Rand, fc fieldCase) (Element, *big.Int) {
	v := new(big.Int).Rand(r, fc.p)
	var e Element
	require.NoError(t, fc.f.SetBig(&e, v))
	return e, v
}

func TestArithmeticAgainstBig(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	for _, fc := range testFields(t) {
		f, p := fc.f, fc.p
		for i := 0; i < 100; i++ {
			x, xb := randomElement(t, r, fc)
			y, yb := randomElement(t, r, fc)
			var z Element

			f.Add(&z, &x, &y)
			expected := new(big.Int).Add(xb, yb)
			assert.Equal(t, 0, expected.Mod(expected, p).Cmp(f.Big(&z)), "%s add", f.Name())

			f.Sub(&z, &x, &y)
			expected.Sub(xb, yb)
			assert.Equal(t, 0, expected.Mod(expected, p).Cmp(f.Big(&z)), "%s sub", f.Name())

			f.Mul(&z, &x, &y)
			expected.Mul(xb, yb)
			assert.Equal(t, 0, expected.Mod(expected, p).Cmp(f.Big(&z)), "%s mul", f.Name())

			f.Square(&z, &x)
			expected.Mul(xb, xb)
			assert.Equal(t, 0, expected.Mod(expected, p).Cmp(f.Big(&z)), "%s square", f.Name())

			f.Negate(&z, &x)
			expected.Neg(xb)
			assert.Equal(t, 0, expected.Mod(expected, p).Cmp(f.Big(&z)), "%s negate", f.Name())
		}
	}
}

func TestReduceExtremes(t *testing.T) {
	for _, fc := range testFields(t) {
		f, p := fc.f, fc.p
		var pm1 Element
		require.NoError(t, f.SetBig(&pm1, new(big.Int).Sub(p, big.NewInt(1))))
		var z Element
		f.Square(&z, &pm1)
		assert.True(t, f.IsOne(&z), "%s: (p-1)² must be 1", f.Name())

		f.Add(&z, &pm1, &pm1)
		expected := new(big.Int).Sub(p, big.NewInt(2))
		assert.Equal(t, 0, expected.Cmp(f.Big(&z)), f.Name())

		f.AddOne(&z, &pm1)
		assert.True(t, f.IsZero(&z), f.Name())
	}
}

func TestInvert(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, fc := range testFields(t) {
		f := fc.f
		for i := 0; i < 20; i++ {
			x, _ := randomElement(t, r, fc)
			if f.IsZero(&x) {
				continue
			}
			var inv, back, prod Element
			f.Invert(&inv, &x)
			f.Invert(&back, &inv)
			assert.True(t, f.Equal(&back, &x), f.Name())
			f.Mul(&prod, &x, &inv)
			assert.True(t, f.IsOne(&prod), f.Name())

			var sum Element
			f.Negate(&sum, &x)
			f.Add(&sum, &sum, &x)
			assert.True(t, f.IsZero(&sum), f.Name())
		}
		var zero Element
		assert.Panics(t, func() { f.Invert(&zero, &zero) })
	}
}

func TestSqrt(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	for _, fc := range testFields(t) {
		f, p := fc.f, fc.p
		for i := 0; i < 20; i++ {
			x, xb := randomElement(t, r, fc)
			var sq, root, check Element
			f.Square(&sq, &x)
			require.True(t, f.Sqrt(&root, &sq), f.Name())
			f.Square(&check, &root)
			assert.True(t, f.Equal(&check, &sq), f.Name())

			hasRoot := big.Jacobi(xb, p) >= 0
			assert.Equal(t, hasRoot, f.Sqrt(&root, &x), "%s: %s", f.Name(), xb.Text(16))
		}
	}
}

func TestEncoding(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	for _, fc := range testFields(t) {
		f := fc.f
		x, _ := randomElement(t, r, fc)
		b := f.Bytes(&x)
		assert.Len(t, b, (fc.p.BitLen()+7)/8)
		var y Element
		require.NoError(t, f.SetBytes(&y, b))
		assert.True(t, f.Equal(&x, &y))

		pBytes := fc.p.FillBytes(make([]byte, f.ByteLen()))
		assert.ErrorIs(t, f.SetBytes(&y, pBytes), ErrOutOfRange)
		assert.ErrorIs(t, f.SetBytes(&y, b[1:]), ErrLength)
	}
}

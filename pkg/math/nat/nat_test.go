package nat

import (
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomNat(r *rand.Rand, n int) []uint32 {
	z := Create(n)
	for i := range z {
		z[i] = r.Uint32()
	}
	return z
}

func twoPow(bits int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(bits))
}

func TestAddSubCarry(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 4, 8, 17} {
		mod := twoPow(32 * n)
		for i := 0; i < 200; i++ {
			x, y := randomNat(r, n), randomNat(r, n)
			z := Create(n)
			c := Add(z, x, y)

			expected := new(big.Int).Add(ToBig(x), ToBig(y))
			assert.Equal(t, uint32(expected.Rsh(expected, uint(32*n)).Uint64()), c)
			sum := new(big.Int).Add(ToBig(x), ToBig(y))
			assert.Equal(t, 0, sum.Mod(sum, mod).Cmp(ToBig(z)))

			b := Sub(z, x, y)
			diff := new(big.Int).Sub(ToBig(x), ToBig(y))
			if diff.Sign() < 0 {
				assert.Equal(t, uint32(1), b)
				diff.Add(diff, mod)
			} else {
				assert.Equal(t, uint32(0), b)
			}
			assert.Equal(t, 0, diff.Cmp(ToBig(z)))
		}
	}
}

func TestAllOnesCarryChain(t *testing.T) {
	x := Create(8)
	for i := range x {
		x[i] = 0xFFFFFFFF
	}
	z := Create(8)
	one := Create(8)
	one[0] = 1
	assert.Equal(t, uint32(1), Add(z, x, one))
	assert.True(t, IsZero(z))
	assert.Equal(t, uint32(1), Sub(z, z, one))
	assert.True(t, Equal(z, x))
}

func TestMulSquare(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, n := range []int{1, 3, 5, 8, 12, 17} {
		for i := 0; i < 100; i++ {
			x, y := randomNat(r, n), randomNat(r, n)
			zz := Create(2 * n)
			Mul(zz, x, y)
			expected := new(big.Int).Mul(ToBig(x), ToBig(y))
			assert.Equal(t, 0, expected.Cmp(ToBig(zz)), "mul n=%d", n)

			Square(zz, x)
			expected.Mul(ToBig(x), ToBig(x))
			assert.Equal(t, 0, expected.Cmp(ToBig(zz)), "square n=%d", n)
		}
	}
}

func TestSquareMaxValue(t *testing.T) {
	x := Create(17)
	for i := range x {
		x[i] = 0xFFFFFFFF
	}
	zz := Create(34)
	Square(zz, x)
	expected := new(big.Int).Mul(ToBig(x), ToBig(x))
	assert.Equal(t, 0, expected.Cmp(ToBig(zz)))
}

func TestShifts(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	n := 6
	for i := 0; i < 50; i++ {
		x := randomNat(r, n)
		z := Create(n)

		out := ShiftUpBit(z, x, 1)
		assert.Equal(t, x[n-1]>>31, out)
		expected := new(big.Int).Lsh(ToBig(x), 1)
		expected.SetBit(expected, 0, 1)
		expected.Mod(expected, twoPow(32*n))
		assert.Equal(t, 0, expected.Cmp(ToBig(z)))

		out = ShiftDownBit(z, x, 1)
		assert.Equal(t, x[0]&1, out)
		expected.Rsh(ToBig(x), 1)
		expected.SetBit(expected, 32*n-1, 1)
		assert.Equal(t, 0, expected.Cmp(ToBig(z)))

		for _, s := range []uint{1, 7, 31} {
			out = ShiftUpBits(z, x, s, 0)
			assert.Equal(t, x[n-1]>>(32-s), out)
			expected.Lsh(ToBig(x), s)
			expected.Mod(expected, twoPow(32*n))
			assert.Equal(t, 0, expected.Cmp(ToBig(z)))

			out = ShiftDownBits(z, x, s, 0)
			assert.Equal(t, x[0]&(1<<s-1), out)
			expected.Rsh(ToBig(x), s)
			assert.Equal(t, 0, expected.Cmp(ToBig(z)))
		}
	}
}

func TestCompare(t *testing.T) {
	x := []uint32{1, 0, 5}
	y := []uint32{0, 1, 5}
	assert.Equal(t, -1, Compare(x, y))
	assert.Equal(t, 1, Compare(y, x))
	assert.Equal(t, 0, Compare(x, x))
	assert.True(t, IsOne([]uint32{1, 0, 0}))
	assert.False(t, IsOne([]uint32{1, 0, 1}))
	assert.True(t, IsZero(Create(4)))
	assert.Equal(t, 65, BitLen([]uint32{0, 0, 1}))
	assert.Equal(t, uint32(1), GetBit(x, 64))
	assert.Equal(t, uint32(0), GetBit(x, 500))
}

func TestModInverse(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	primes := []string{
		"fffffffdffffffffffffffffffffffff",
		"fffffffffffffffffffffffffffffffeffffac73",
		"ffffffffffffffffffffffffffffffff000000000000000000000001",
		"ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		"1" + strings.Repeat("f", 130),
	}
	for _, h := range primes {
		pBig, ok := new(big.Int).SetString(h, 16)
		require.True(t, ok)
		require.True(t, pBig.ProbablyPrime(20), h)
		p := FromBig(pBig.BitLen(), pBig)
		n := len(p)
		for i := 0; i < 30; i++ {
			xBig := new(big.Int).Rand(r, pBig)
			if xBig.Sign() == 0 {
				continue
			}
			x := FromBig(pBig.BitLen(), xBig)
			z := Create(n)
			ModInverse(p, x, z)
			expected := new(big.Int).ModInverse(xBig, pBig)
			assert.Equal(t, 0, expected.Cmp(ToBig(z)), "p=%s x=%s", h, xBig.Text(16))
		}
		one := Create(n)
		one[0] = 1
		z := Create(n)
		ModInverse(p, one, z)
		assert.True(t, IsOne(z))

		assert.PanicsWithValue(t, ErrInverseZero, func() { ModInverse(p, Create(n), z) })
	}
}

func TestBigAndBytes(t *testing.T) {
	x, _ := new(big.Int).SetString("1234567890abcdef1122334455", 16)
	z := FromBig(104, x)
	assert.Len(t, z, 4)
	assert.Equal(t, 0, x.Cmp(ToBig(z)))

	out := make([]byte, 13)
	ToBytes(z, out)
	assert.Equal(t, x.FillBytes(make([]byte, 13)), out)

	w := Create(4)
	FromBytes(w, out)
	assert.True(t, Equal(z, w))

	assert.Panics(t, func() { FromBig(100, x) })
	assert.Panics(t, func() { FromBig(200, big.NewInt(-1)) })
}

package curve

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarArithmetic(t *testing.T) {
	r := rand.New(rand.NewSource(50))
	for _, c := range []Curve{Secp160r1(), Secp256k1(), Secp521r1(), Sect233k1(), Curve25519()} {
		n := c.OrderBig()
		for i := 0; i < 20; i++ {
			a, b := randomBig(r, n), randomBig(r, n)
			sa, sb := c.NewScalar().SetBig(a), c.NewScalar().SetBig(b)

			expected := new(big.Int).Add(a, b)
			assert.Equal(t, 0, expected.Mod(expected, n).Cmp(sa.Clone().Add(sb).Big()))
			expected.Sub(a, b)
			assert.Equal(t, 0, expected.Mod(expected, n).Cmp(sa.Clone().Sub(sb).Big()))
			expected.Mul(a, b)
			assert.Equal(t, 0, expected.Mod(expected, n).Cmp(sa.Clone().Mul(sb).Big()))
			expected.Neg(a)
			assert.Equal(t, 0, expected.Mod(expected, n).Cmp(sa.Clone().Negate().Big()))
			if a.Sign() != 0 {
				assert.Equal(t, 0, new(big.Int).ModInverse(a, n).Cmp(sa.Clone().Invert().Big()))
			}
			assert.True(t, sa.Clone().Sub(sa).IsZero())
			assert.True(t, sa.Equal(sa.Clone()))
		}
		assert.True(t, c.NewScalar().SetBig(big.NewInt(-1)).Equal(c.NewScalar().SetUint64(1).Negate()))
		assert.True(t, c.NewScalar().SetBig(n).IsZero())
	}
}

func TestScalarBytes(t *testing.T) {
	c := Secp160r1()
	// The order of secp160r1 has 161 bits.
	assert.Equal(t, 21, ByteLen(c))
	s := c.NewScalar().SetUint64(0xdeadbeef)
	b := s.Bytes()
	require.Len(t, b, 21)

	s2, err := c.NewScalar().SetBytes(b)
	require.NoError(t, err)
	assert.True(t, s.Equal(s2))

	_, err = c.NewScalar().SetBytes(c.OrderBig().Bytes())
	assert.Error(t, err)

	data, err := cbor.Marshal(s)
	require.NoError(t, err)
	s3 := c.NewScalar()
	require.NoError(t, cbor.Unmarshal(data, s3))
	assert.True(t, s.Equal(s3))

	assert.Error(t, new(Scalar).UnmarshalBinary(b))
	assert.Error(t, c.NewScalar().UnmarshalBinary(b[1:]))
}

func TestScalarAct(t *testing.T) {
	r := rand.New(rand.NewSource(51))
	for _, c := range []Curve{Secp256r1(), Sect163k1()} {
		a := c.NewScalar().SetBig(randomBig(r, c.OrderBig()))
		b := c.NewScalar().SetBig(randomBig(r, c.OrderBig()))
		// (a + b)·G = a·G + b·G
		sum := a.Clone().Add(b).ActOnBase()
		assert.True(t, sum.Equal(a.ActOnBase().Add(b.ActOnBase())))
		// a·(b·G) = (ab)·G
		assert.True(t, a.Act(b.ActOnBase()).Equal(a.Clone().Mul(b).ActOnBase()))
	}
}

func TestFromHash(t *testing.T) {
	c := Secp160r1()
	h := make([]byte, 32)
	for i := range h {
		h[i] = 0xff
	}
	// 161-bit order: the hash is cut to 21 bytes and shifted right by 7 bits.
	expected := new(big.Int).SetBytes(h[:21])
	expected.Rsh(expected, 7)
	expected.Mod(expected, c.OrderBig())
	assert.Equal(t, 0, expected.Cmp(FromHash(c, h).Big()))

	short := []byte{0x01, 0x02}
	assert.Equal(t, int64(0x0102), FromHash(c, short).Big().Int64())

	p256 := Secp256r1()
	assert.Equal(t, 0, new(big.Int).SetBytes(h[:32]).Mod(new(big.Int).SetBytes(h[:32]), p256.OrderBig()).Cmp(FromHash(p256, h).Big()))
}

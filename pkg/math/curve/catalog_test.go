package curve

import (
	"context"
	"encoding/asn1"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCurves(t *testing.T) []Curve {
	t.Helper()
	names := Names()
	out := make([]Curve, 0, len(names))
	for _, name := range names {
		c, err := ByName(name)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func TestCatalogGenerators(t *testing.T) {
	for _, c := range allCurves(t) {
		t.Run(c.Name(), func(t *testing.T) {
			g := c.Generator()
			assert.True(t, g.IsValid())
			assert.True(t, g.IsNormalized())
			assert.True(t, referenceMultiply(g, c.OrderBig()).IsInfinity())
			assert.False(t, referenceMultiply(g, new(big.Int).Sub(c.OrderBig(), big.NewInt(1))).IsInfinity())
		})
	}
}

func TestCatalogLookup(t *testing.T) {
	assert.Len(t, Names(), 25)

	c, err := ByName("P-256")
	require.NoError(t, err)
	assert.Same(t, Secp256r1(), c)
	assert.Same(t, P256(), c)
	assert.Same(t, P521(), Secp521r1())

	c, err = ByOID(asn1.ObjectIdentifier{1, 3, 132, 0, 10})
	require.NoError(t, err)
	assert.Equal(t, "secp256k1", c.Name())

	c, err = ByOID(asn1.ObjectIdentifier{1, 3, 132, 0, 1})
	require.NoError(t, err)
	assert.Same(t, Sect163k1(), c)
	assert.True(t, c.IsKoblitz())

	_, err = ByName("brainpoolP256r1")
	assert.ErrorIs(t, err, ErrUnknownCurve)
	_, err = ByOID(asn1.ObjectIdentifier{1, 2, 3})
	assert.ErrorIs(t, err, ErrUnknownCurve)

	assert.Empty(t, Curve25519().OID())
	assert.Equal(t, int64(8), Curve25519().Cofactor().Int64())
}

func TestCatalogSizes(t *testing.T) {
	assert.Equal(t, 20, Secp160r1().FieldBytes())
	assert.Equal(t, 161, Secp160r1().Order().BitLen())
	assert.Equal(t, 66, Secp521r1().FieldBytes())
	assert.Equal(t, 30, Sect233k1().FieldBytes())
	assert.Equal(t, 239, Sect239k1().FieldBits())
}

func TestWarm(t *testing.T) {
	require.NoError(t, Warm(context.Background()))
	require.NoError(t, Warm(context.Background(), "secp256k1", "sect233k1"))
	assert.ErrorIs(t, Warm(context.Background(), "nope"), ErrUnknownCurve)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, Warm(ctx, "secp384r1"))
}

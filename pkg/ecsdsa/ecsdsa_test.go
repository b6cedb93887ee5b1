package ecsdsa

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/eccore/pkg/hash"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

func TestSignVerify(t *testing.T) {
	message := []byte("schnorr")
	for _, group := range []curve.Curve{curve.Secp160r1(), curve.Secp256r1(), curve.Secp521r1(), curve.Sect163k1(), curve.Sect239k1(), curve.Curve25519()} {
		for _, v := range []Variant{Standard, XOnly} {
			for _, h := range []hash.Hash{hash.SHA256(), hash.SHA3_512(), hash.BLAKE3()} {
				kp := keys.Generate(group)
				pub, _ := kp.Public()
				sig, err := Sign(kp, h, message, v)
				require.NoError(t, err)
				assert.True(t, Verify(pub, h, message, sig, v), "%s %s %s", group.Name(), v, h)
				assert.True(t, VerifyRaw(pub, h, message, sig.Bytes(), v))

				assert.False(t, Verify(pub, h, []byte("schnorR"), sig, v))
				assert.False(t, Verify(pub, h, message, sig, 1-v))
				other := keys.Generate(group)
				otherPub, _ := other.Public()
				assert.False(t, Verify(otherPub, h, message, sig, v))

				raw := sig.Bytes()
				raw[len(raw)-1] ^= 1
				assert.False(t, VerifyRaw(pub, h, message, raw, v))
			}
		}
	}
}

func TestChallengeWithFixedNonce(t *testing.T) {
	group := curve.Secp256k1()
	h := hash.SHA256()
	kp := keys.Generate(group)
	k := group.NewScalar().SetUint64(0x1234)
	require.NoError(t, kp.SetFixedK(k))
	d, _ := kp.Private()
	message := []byte("abc")

	commitment := k.ActOnBase()
	n := group.OrderBig()
	for _, v := range []Variant{Standard, XOnly} {
		sig, err := Sign(kp, h, message, v)
		require.NoError(t, err)

		var digest []byte
		if v == Standard {
			digest = h.Sum(commitment.XBytes(), commitment.YBytes(), message)
		} else {
			digest = h.Sum(commitment.XBytes(), message)
		}
		r := new(big.Int).SetBytes(digest)
		r.Mod(r, n)
		assert.Equal(t, 0, r.Cmp(sig.R.Big()), v.String())

		s := new(big.Int).Mul(r, d.Big())
		s.Add(s, k.Big())
		s.Mod(s, n)
		assert.Equal(t, 0, s.Cmp(sig.S.Big()), v.String())

		again, err := Sign(kp, h, message, v)
		require.NoError(t, err)
		assert.Equal(t, sig.Bytes(), again.Bytes())
	}
}

func TestRejectsMalformed(t *testing.T) {
	group := curve.Secp384r1()
	h := hash.SHA384()
	kp := keys.Generate(group)
	pub, _ := kp.Public()
	sig, err := Sign(kp, h, nil, Standard)
	require.NoError(t, err)

	l := curve.ByteLen(group)
	assert.False(t, VerifyRaw(pub, h, nil, append(make([]byte, l), sig.S.Bytes()...), Standard))
	assert.False(t, VerifyRaw(pub, h, nil, sig.Bytes()[:l], Standard))
	assert.False(t, VerifyRaw(nil, h, nil, sig.Bytes(), Standard))
	assert.False(t, Verify(pub, h, nil, nil, Standard))
	assert.False(t, Verify(group.Infinity(), h, nil, sig, Standard))

	_, err = Sign(keys.New(group), h, nil, Standard)
	assert.ErrorIs(t, err, keys.ErrNoPrivateKey)
	assert.Equal(t, "ECSDSA", Standard.String())
	assert.Equal(t, "ECSDSA-X", XOnly.String())
}

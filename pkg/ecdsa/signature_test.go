package ecdsa

import (
	stdecdsa "crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decred "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
	"github.com/taurusgroup/eccore/pkg/pool"
)

func TestFixedNonceScenario(t *testing.T) {
	group := curve.Secp256r1()
	kp := keys.New(group)
	require.NoError(t, kp.SetPrivate(group.NewScalar().SetUint64(1)))
	require.NoError(t, kp.SetFixedK(group.NewScalar().SetUint64(1)))
	hash := sha256.Sum256(nil)

	sig, err := Sign(kp, hash[:])
	require.NoError(t, err)
	again, err := Sign(kp, hash[:])
	require.NoError(t, err)
	assert.Equal(t, sig.Bytes(), again.Bytes())

	assert.Equal(t, "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296", hex.EncodeToString(sig.R.Bytes()))
	assert.Equal(t, "4ec896367a285e5b93b8dbadfd13fa16e1cac4b7eb6f2868a57d079e5488559a", hex.EncodeToString(sig.S.Bytes()))

	assert.True(t, Verify(group.Generator(), hash[:], sig))
	assert.False(t, Verify(group.Generator().Twice(), hash[:], sig))
}

func TestSignVerifyAllCurves(t *testing.T) {
	hash := sha256.Sum256([]byte("hello"))
	for _, name := range curve.Names() {
		group, err := curve.ByName(name)
		require.NoError(t, err)
		t.Run(name, func(t *testing.T) {
			kp := keys.Generate(group)
			pub, err := kp.Public()
			require.NoError(t, err)

			sig, err := Sign(kp, hash[:])
			require.NoError(t, err)
			assert.True(t, Verify(pub, hash[:], sig))
			assert.True(t, VerifyRaw(pub, hash[:], sig.Bytes()))
			der, err := sig.MarshalDER()
			require.NoError(t, err)
			assert.True(t, VerifyDER(pub, hash[:], der))

			other := keys.Generate(group)
			otherPub, _ := other.Public()
			assert.False(t, Verify(otherPub, hash[:], sig))

			badHash := append([]byte(nil), hash[:]...)
			badHash[0] ^= 0x80
			assert.False(t, Verify(pub, badHash, sig))

			raw := sig.Bytes()
			for _, i := range []int{0, len(raw)/2 - 1, len(raw) / 2, len(raw) - 1} {
				flipped := append([]byte(nil), raw...)
				flipped[i] ^= 0x01
				assert.False(t, VerifyRaw(pub, hash[:], flipped), "byte %d", i)
			}
		})
	}
}

func TestOutOfRange(t *testing.T) {
	group := curve.Secp256k1()
	kp := keys.Generate(group)
	pub, _ := kp.Public()
	hash := sha256.Sum256([]byte("range"))
	sig, err := Sign(kp, hash[:])
	require.NoError(t, err)
	l := curve.ByteLen(group)
	n := group.OrderBig().FillBytes(make([]byte, l))

	zeroR := append(make([]byte, l), sig.S.Bytes()...)
	assert.False(t, VerifyRaw(pub, hash[:], zeroR))
	nR := append(append([]byte(nil), n...), sig.S.Bytes()...)
	assert.False(t, VerifyRaw(pub, hash[:], nR))
	nS := append(sig.R.Bytes(), n...)
	assert.False(t, VerifyRaw(pub, hash[:], nS))
	_, err = ParseRaw(group, nS)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.False(t, VerifyRaw(pub, hash[:], sig.Bytes()[1:]))
	assert.False(t, VerifyRaw(nil, hash[:], sig.Bytes()))
	assert.False(t, VerifyDER(pub, hash[:], []byte{0x30, 0x03, 0x02, 0x01}))
	assert.False(t, VerifyDER(pub, hash[:], nil))
	assert.False(t, Verify(pub, hash[:], nil))
	assert.False(t, Verify(pub, hash[:], EmptySignature(group)))
	assert.False(t, Verify(group.Infinity(), hash[:], sig))

	// A signature on another curve never verifies.
	p256 := keys.Generate(curve.Secp256r1())
	p256Pub, _ := p256.Public()
	assert.False(t, Verify(p256Pub, hash[:], sig))

	der, err := (&Signature{R: sig.R, S: group.NewScalar()}).MarshalDER()
	require.NoError(t, err)
	_, err = ParseDER(group, der)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMissingPrivateKey(t *testing.T) {
	_, err := Sign(keys.New(curve.Secp256r1()), []byte{1})
	assert.ErrorIs(t, err, keys.ErrNoPrivateKey)
}

func TestAgainstStandardLibrary(t *testing.T) {
	hash := sha256.Sum256([]byte("interop"))
	priv, err := stdecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	group := curve.P256()
	kp := keys.New(group)
	require.NoError(t, kp.SetPrivate(group.NewScalar().SetBig(priv.D)))
	pub, _ := kp.Public()

	sig, err := Sign(kp, hash[:])
	require.NoError(t, err)
	assert.True(t, stdecdsa.Verify(&priv.PublicKey, hash[:], sig.R.Big(), sig.S.Big()))
	der, err := sig.MarshalDER()
	require.NoError(t, err)
	assert.True(t, stdecdsa.VerifyASN1(&priv.PublicKey, hash[:], der))

	stdDER, err := stdecdsa.SignASN1(rand.Reader, priv, hash[:])
	require.NoError(t, err)
	assert.True(t, VerifyDER(pub, hash[:], stdDER))
	parsed, err := ParseDER(group, stdDER)
	require.NoError(t, err)
	reencoded, err := parsed.MarshalDER()
	require.NoError(t, err)
	assert.Equal(t, stdDER, reencoded)

	// A 64-byte digest is truncated to the leftmost 256 bits by both.
	long := make([]byte, 64)
	copy(long, hash[:])
	long[40] = 0xaa
	r, s, err := stdecdsa.Sign(rand.Reader, priv, long)
	require.NoError(t, err)
	assert.True(t, Verify(pub, long, &Signature{R: group.NewScalar().SetBig(r), S: group.NewScalar().SetBig(s)}))
}

func TestAgainstDecred(t *testing.T) {
	hash := sha256.Sum256([]byte("decred"))
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	kp, err := keys.FromSecp256k1(priv)
	require.NoError(t, err)

	sig, err := Sign(kp, hash[:])
	require.NoError(t, err)
	var r, s secp256k1.ModNScalar
	r.SetByteSlice(sig.R.Bytes())
	s.SetByteSlice(sig.S.Bytes())
	assert.True(t, decred.NewSignature(&r, &s).Verify(hash[:], priv.PubKey()))

	theirs := decred.Sign(priv, hash[:])
	pub, _ := kp.Public()
	assert.True(t, VerifyDER(pub, hash[:], theirs.Serialize()))
}

func TestMarshalling(t *testing.T) {
	group := curve.Sect233k1()
	kp := keys.Generate(group)
	hash := sha256.Sum256([]byte("cbor"))
	sig, err := Sign(kp, hash[:])
	require.NoError(t, err)

	data, err := cbor.Marshal(sig)
	require.NoError(t, err)
	sig2 := EmptySignature(group)
	require.NoError(t, cbor.Unmarshal(data, sig2))
	assert.True(t, sig.R.Equal(sig2.R))
	assert.True(t, sig.S.Equal(sig2.S))

	assert.Error(t, new(Signature).UnmarshalBinary(sig.Bytes()))
	assert.Error(t, EmptySignature(group).UnmarshalBinary(sig.Bytes()[2:]))
}

func TestVerifyBatch(t *testing.T) {
	group := curve.Secp384r1()
	p := pool.NewPool(4)
	defer p.TearDown()

	items := make([]BatchItem, 12)
	for i := range items {
		kp := keys.Generate(group)
		pub, _ := kp.Public()
		hash := sha256.Sum256(big.NewInt(int64(i)).Bytes())
		sig, err := Sign(kp, hash[:])
		require.NoError(t, err)
		items[i] = BatchItem{Public: pub, Hash: hash[:], Signature: sig}
	}
	items[5].Hash = []byte("tampered")
	items[9].Signature = nil

	for _, results := range [][]bool{VerifyBatch(p, items), VerifyBatch(nil, items)} {
		require.Len(t, results, len(items))
		for i, ok := range results {
			assert.Equal(t, i != 5 && i != 9, ok, "item %d", i)
		}
	}
}

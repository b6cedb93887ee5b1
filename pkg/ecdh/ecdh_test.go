package ecdh

import (
	stdecdh "crypto/ecdh"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

func publicOf(t *testing.T, kp *keys.KeyPair) curve.Point {
	t.Helper()
	q, err := kp.Public()
	require.NoError(t, err)
	return q
}

func TestAgreeSymmetric(t *testing.T) {
	for _, name := range curve.Names() {
		group, err := curve.ByName(name)
		require.NoError(t, err)
		alice, bob := keys.Generate(group), keys.Generate(group)

		ab, err := Agree(alice, publicOf(t, bob))
		require.NoError(t, err)
		ba, err := Agree(bob, publicOf(t, alice))
		require.NoError(t, err)
		assert.Equal(t, ab, ba, name)
		assert.Len(t, ab, group.FieldBytes())

		abc, err := AgreeCofactor(alice, publicOf(t, bob))
		require.NoError(t, err)
		bac, err := AgreeCofactor(bob, publicOf(t, alice))
		require.NoError(t, err)
		assert.Equal(t, abc, bac, name)
		if group.Cofactor().Cmp(big.NewInt(1)) == 0 {
			assert.Equal(t, ab, abc, name)
		} else {
			assert.NotEqual(t, ab, abc, name)
		}
	}
}

func TestAgreeIsPlainDH(t *testing.T) {
	// For a peer key in the subgroup the cofactor handling of Agree cancels out.
	group := curve.Sect163r1()
	alice, bob := keys.Generate(group), keys.Generate(group)
	d, _ := alice.Private()
	expected := d.Act(publicOf(t, bob)).XBytes()
	ab, err := Agree(alice, publicOf(t, bob))
	require.NoError(t, err)
	assert.Equal(t, expected, ab)
}

func TestCofactorRelation(t *testing.T) {
	// ECDHC is the cofactor multiple of the plain shared point.
	for _, group := range []curve.Curve{curve.Sect163k1(), curve.Sect233k1(), curve.Sect113r1()} {
		h := group.Cofactor()
		require.NotEqual(t, 0, h.Cmp(big.NewInt(1)), group.Name())
		alice, bob := keys.Generate(group), keys.Generate(group)
		d, _ := alice.Private()
		shared := d.Act(publicOf(t, bob))

		ab, err := Agree(alice, publicOf(t, bob))
		require.NoError(t, err)
		assert.Equal(t, shared.XBytes(), ab, group.Name())

		abc, err := AgreeCofactor(alice, publicOf(t, bob))
		require.NoError(t, err)
		assert.Equal(t, curve.Multiply(shared, h).XBytes(), abc, group.Name())
		assert.Equal(t, shared.TimesPow2(h.BitLen()-1).XBytes(), abc, group.Name())
	}
}

func TestAgainstStandardLibrary(t *testing.T) {
	priv, err := stdecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	peer, err := stdecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	expected, err := priv.ECDH(peer.PublicKey())
	require.NoError(t, err)

	kp, err := keys.FromPrivateBytes(curve.P256(), priv.Bytes())
	require.NoError(t, err)
	peerKey, err := keys.FromPublicBytes(curve.P256(), peer.PublicKey().Bytes())
	require.NoError(t, err)
	shared, err := Agree(kp, publicOf(t, peerKey))
	require.NoError(t, err)
	assert.Equal(t, expected, shared)
}

func TestAgreeErrors(t *testing.T) {
	group := curve.Secp256k1()
	kp := keys.Generate(group)
	_, err := Agree(kp, nil)
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = Agree(kp, group.Infinity())
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = AgreeCofactor(kp, curve.Secp256r1().Generator())
	assert.ErrorIs(t, err, ErrWrongCurve)
	_, err = Agree(keys.New(group), group.Generator())
	assert.ErrorIs(t, err, keys.ErrNoPrivateKey)
}

func TestAssociate(t *testing.T) {
	group := curve.Secp256r1()
	p := group.Generator()
	// bitlen(N) = 256, e = 128
	x := new(big.Int).SetBytes(p.XBytes())
	expected := new(big.Int).Mod(x, new(big.Int).Lsh(big.NewInt(1), 128))
	expected.SetBit(expected, 128, 1)
	assert.Equal(t, 0, expected.Cmp(associate(p)))

	// bitlen(N) = 161 for secp160r1, e = 81
	c := curve.Secp160r1()
	a := associate(c.Generator())
	assert.Equal(t, 82, a.BitLen())
	assert.Equal(t, uint(1), a.Bit(81))
}

func TestMQV(t *testing.T) {
	for _, group := range []curve.Curve{curve.Secp256r1(), curve.Secp160r2(), curve.Sect163k1(), curve.Sect113r2(), curve.Curve25519()} {
		aliceStatic, aliceEphemeral := keys.Generate(group), keys.Generate(group)
		bobStatic, bobEphemeral := keys.Generate(group), keys.Generate(group)

		ab, err := MQV(aliceStatic, aliceEphemeral, publicOf(t, bobStatic), publicOf(t, bobEphemeral))
		require.NoError(t, err)
		ba, err := MQV(bobStatic, bobEphemeral, publicOf(t, aliceStatic), publicOf(t, aliceEphemeral))
		require.NoError(t, err)
		assert.Equal(t, ab, ba, group.Name())

		// Swapping the roles of static and ephemeral keys changes the secret.
		swapped, err := MQV(aliceStatic, aliceEphemeral, publicOf(t, bobEphemeral), publicOf(t, bobStatic))
		require.NoError(t, err)
		assert.NotEqual(t, ab, swapped)
	}
}

func TestMQVErrors(t *testing.T) {
	group := curve.Secp256k1()
	static, ephemeral := keys.Generate(group), keys.Generate(group)
	peer := publicOf(t, keys.Generate(group))

	_, err := MQV(static, keys.Generate(curve.Secp256r1()), peer, peer)
	assert.ErrorIs(t, err, ErrWrongCurve)
	_, err = MQV(static, ephemeral, nil, peer)
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = MQV(keys.New(group), ephemeral, peer, peer)
	assert.ErrorIs(t, err, keys.ErrNoPrivateKey)
	pubOnly, err := keys.FromPoint(peer)
	require.NoError(t, err)
	_, err = MQV(static, pubOnly, peer, peer)
	assert.ErrorIs(t, err, keys.ErrNoPrivateKey)
}

// Package ecdh implements Diffie-Hellman key agreement (SEC 1 §3.3) and MQV
// (SEC 1 §3.4). Every agreement returns the x coordinate of the shared point,
// padded to the field length.
package ecdh

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

var (
	ErrInfinity   = errors.New("ecdh: shared point is infinity")
	ErrWrongCurve = errors.New("ecdh: keys on different curves")
	ErrInvalidKey = errors.New("ecdh: invalid public key")
)

func checkPeer(group curve.Curve, peer curve.Point) error {
	if peer == nil || peer.IsInfinity() {
		return ErrInvalidKey
	}
	if peer.Curve() != group {
		return ErrWrongCurve
	}
	return nil
}

func sharedSecret(p curve.Point) ([]byte, error) {
	if p.IsInfinity() {
		return nil, ErrInfinity
	}
	return p.XBytes(), nil
}

// Agree returns the x coordinate of d⋅Q'.
//
// With a cofactor h > 1 the peer key is first multiplied by h and the scalar by
// h⁻¹ mod N, which leaves the result unchanged for Q' in the subgroup and maps any
// small-order component to infinity.
func Agree(kp *keys.KeyPair, peer curve.Point) ([]byte, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	group := kp.Curve()
	if err = checkPeer(group, peer); err != nil {
		return nil, err
	}
	h := group.Cofactor()
	if h.Cmp(big.NewInt(1)) != 0 {
		hInv := group.NewScalar().SetBig(h).Invert()
		d.Mul(hInv)
		peer = timesCofactor(peer, h)
	}
	return sharedSecret(d.Act(peer))
}

// timesCofactor returns h⋅P by doublings when h is a power of two, which holds
// for every curve of the catalog, and for points outside the subgroup.
func timesCofactor(p curve.Point, h *big.Int) curve.Point {
	if e := h.BitLen() - 1; h.TrailingZeroBits() == uint(e) {
		return p.TimesPow2(e)
	}
	return curve.Multiply(p, h)
}

// AgreeCofactor is ECDHC: the x coordinate of (h⋅d mod N)⋅Q'. It equals Agree
// when h = 1.
func AgreeCofactor(kp *keys.KeyPair, peer curve.Point) ([]byte, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	group := kp.Curve()
	if err = checkPeer(group, peer); err != nil {
		return nil, err
	}
	hd := group.NewScalar().SetBig(group.Cofactor()).Mul(d)
	return sharedSecret(hd.Act(peer))
}

// associate returns the associate value x̄ of SEC 1 §3.4: the low e bits of the x
// coordinate of p with bit e set, for e = ⌈bitlen(N)/2⌉.
func associate(p curve.Point) *big.Int {
	e := (p.Curve().Order().BitLen() + 1) / 2
	x := new(big.Int).SetBytes(p.XBytes())
	mask := new(big.Int).Lsh(big.NewInt(1), uint(e))
	xBar := x.Mod(x, mask)
	return xBar.SetBit(xBar, e, 1)
}

// MQV computes the MQV primitive from our static and ephemeral key pairs and the
// peer's static and ephemeral public keys:
//
//	s = d2 + x̄2⋅d1 mod N
//	P = h⋅s⋅(Q2' + x̄2'⋅Q1')
//
// where index 1 is static, index 2 ephemeral, and x̄ the associate value of an
// ephemeral public key.
func MQV(static, ephemeral *keys.KeyPair, peerStatic, peerEphemeral curve.Point) ([]byte, error) {
	group := static.Curve()
	if ephemeral.Curve() != group {
		return nil, ErrWrongCurve
	}
	for _, p := range []curve.Point{peerStatic, peerEphemeral} {
		if err := checkPeer(group, p); err != nil {
			return nil, err
		}
	}
	d1, err := static.Private()
	if err != nil {
		return nil, err
	}
	d2, err := ephemeral.Private()
	if err != nil {
		return nil, err
	}
	q2, err := ephemeral.Public()
	if err != nil {
		return nil, err
	}

	q2Bar := group.NewScalar().SetBig(associate(q2))
	s := q2Bar.Mul(d1).Add(d2)

	peerBar := group.NewScalar().SetBig(associate(peerEphemeral))
	hs := group.NewScalar().SetBig(group.Cofactor()).Mul(s)
	// P = (x̄2'⋅hs)⋅Q1' + hs⋅Q2'
	P := curve.SumOfTwoMultiplies(peerStatic, peerBar.Mul(hs).Big(), peerEphemeral, hs.Big())
	return sharedSecret(P)
}

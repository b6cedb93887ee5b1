// Package ecgdsa implements the German variant of DSA over elliptic curves
// (ECGDSA, BSI TR-03111).
//
// A signature is r = (k⋅G).x mod N, s = d⋅(k⋅r - e) mod N. Verification recovers
// k⋅G as r⁻¹⋅e⋅G + r⁻¹⋅s⋅P, so the verification key is P = d⁻¹⋅G rather than
// the d⋅G kept by a KeyPair; PublicKey derives it.
package ecgdsa

import (
	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/internal/params"
	"github.com/taurusgroup/eccore/pkg/ecdsa"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

type Signature = ecdsa.Signature

var ErrMaxIterations = errors.Errorf("ecgdsa: no valid signature after %d nonces", params.MaxIterations)

// PublicKey returns the verification key d⁻¹⋅G of kp.
func PublicKey(kp *keys.KeyPair) (curve.Point, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	return d.Invert().ActOnBase(), nil
}

// Sign signs the digest hash, truncated as for ECDSA.
func Sign(kp *keys.KeyPair, hash []byte) (*Signature, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	e := curve.FromHash(kp.Curve(), hash)
	for i := 0; i < params.MaxIterations; i++ {
		k, R := kp.NonceWithPoint()
		r := R.XScalar()
		if r.IsZero() {
			continue
		}
		// s = d⋅(k⋅r - e)
		s := k.Mul(r).Sub(e).Mul(d)
		if s.IsZero() {
			continue
		}
		return &Signature{R: r, S: s}, nil
	}
	return nil, ErrMaxIterations
}

// Verify checks sig against the verification key pub returned by PublicKey.
func Verify(pub curve.Point, hash []byte, sig *Signature) bool {
	if pub == nil || sig == nil || sig.R == nil || sig.S == nil {
		return false
	}
	group := pub.Curve()
	if pub.IsInfinity() || sig.R.Curve() != group || sig.S.Curve() != group {
		return false
	}
	if sig.R.IsZero() || sig.S.IsZero() {
		return false
	}
	e := curve.FromHash(group, hash)
	rInv := sig.R.Clone().Invert()
	u1 := e.Mul(rInv)
	u2 := sig.S.Clone().Mul(rInv)
	R := curve.SumOfTwoMultiplies(group.Generator(), u1.Big(), pub, u2.Big())
	if R.IsInfinity() {
		return false
	}
	return R.XScalar().Equal(sig.R)
}

// VerifyRaw verifies a raw r||s signature. Malformed input yields false.
func VerifyRaw(pub curve.Point, hash, sig []byte) bool {
	if pub == nil {
		return false
	}
	parsed, err := ecdsa.ParseRaw(pub.Curve(), sig)
	if err != nil {
		return false
	}
	return Verify(pub, hash, parsed)
}

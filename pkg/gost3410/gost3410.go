// Package gost3410 implements GOST R 34.10 signatures over the curves of the
// catalog.
//
// Unlike ECDSA, the digest is not truncated: e is the whole digest read as a
// big-endian integer, reduced mod N, with e = 0 replaced by 1.
package gost3410

import (
	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/internal/params"
	"github.com/taurusgroup/eccore/pkg/ecdsa"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

type Signature = ecdsa.Signature

var ErrMaxIterations = errors.Errorf("gost3410: no valid signature after %d nonces", params.MaxIterations)

func digestScalar(group curve.Curve, hash []byte) *curve.Scalar {
	e := group.NewScalar().SetNat(new(saferith.Nat).SetBytes(hash))
	if e.IsZero() {
		e.SetUint64(1)
	}
	return e
}

// Sign returns r = (k⋅G).x mod N and s = k⋅e + d⋅r mod N.
func Sign(kp *keys.KeyPair, hash []byte) (*Signature, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	e := digestScalar(kp.Curve(), hash)
	for i := 0; i < params.MaxIterations; i++ {
		k, R := kp.NonceWithPoint()
		r := R.XScalar()
		if r.IsZero() {
			continue
		}
		s := k.Mul(e).Add(d.Clone().Mul(r))
		if s.IsZero() {
			continue
		}
		return &Signature{R: r, S: s}, nil
	}
	return nil, ErrMaxIterations
}

// Verify checks that (z1⋅G + z2⋅Q).x = r mod N, for v = e⁻¹, z1 = s⋅v and z2 = -r⋅v.
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
	v := digestScalar(group, hash).Invert()
	z1 := sig.S.Clone().Mul(v)
	z2 := sig.R.Clone().Negate().Mul(v)
	R := curve.SumOfTwoMultiplies(group.Generator(), z1.Big(), pub, z2.Big())
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

// Package ecsdsa implements the Schnorr signatures ECSDSA and ECSDSA-X of
// BSI TR-03111.
//
// The signer commits to Q' = k⋅G through r = H(Q'.x || Q'.y || M) mod N (or
// H(Q'.x || M) for the X-only variant) and answers with s = r⋅d + k mod N.
package ecsdsa

import (
	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/internal/params"
	"github.com/taurusgroup/eccore/pkg/ecdsa"
	"github.com/taurusgroup/eccore/pkg/hash"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

// Variant selects which coordinates of the commitment are hashed.
type Variant int

const (
	// Standard hashes both coordinates of Q'.
	Standard Variant = iota
	// XOnly hashes only Q'.x.
	XOnly
)

func (v Variant) String() string {
	if v == XOnly {
		return "ECSDSA-X"
	}
	return "ECSDSA"
}

// Signature holds r, the reduced challenge, and s. Encodings are those of ECDSA.
type Signature = ecdsa.Signature

var ErrMaxIterations = errors.Errorf("ecsdsa: no valid signature after %d nonces", params.MaxIterations)

// challenge returns H(Q'.x [|| Q'.y] || message) mod N.
func challenge(h hash.Hash, v Variant, commitment curve.Point, message []byte) *curve.Scalar {
	var digest []byte
	if v == XOnly {
		digest = h.Sum(commitment.XBytes(), message)
	} else {
		digest = h.Sum(commitment.XBytes(), commitment.YBytes(), message)
	}
	group := commitment.Curve()
	return group.NewScalar().SetNat(new(saferith.Nat).SetBytes(digest))
}

// Sign signs message with the private key of kp.
func Sign(kp *keys.KeyPair, h hash.Hash, message []byte, v Variant) (*Signature, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	for i := 0; i < params.MaxIterations; i++ {
		k, commitment := kp.NonceWithPoint()
		r := challenge(h, v, commitment, message)
		if r.IsZero() {
			continue
		}
		s := r.Clone().Mul(d).Add(k)
		if s.IsZero() {
			continue
		}
		return &Signature{R: r, S: s}, nil
	}
	return nil, ErrMaxIterations
}

// Verify recomputes Q' = s⋅G - r⋅Q and checks its challenge against r.
func Verify(pub curve.Point, h hash.Hash, message []byte, sig *Signature, v Variant) bool {
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
	minusR := sig.R.Clone().Negate()
	commitment := curve.SumOfTwoMultiplies(group.Generator(), sig.S.Big(), pub, minusR.Big())
	if commitment.IsInfinity() {
		return false
	}
	return challenge(h, v, commitment, message).Equal(sig.R)
}

// VerifyRaw verifies a raw r||s signature. Malformed input yields false.
func VerifyRaw(pub curve.Point, h hash.Hash, message, sig []byte, v Variant) bool {
	if pub == nil {
		return false
	}
	parsed, err := ecdsa.ParseRaw(pub.Curve(), sig)
	if err != nil {
		return false
	}
	return Verify(pub, h, message, parsed, v)
}

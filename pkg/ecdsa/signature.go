// Package ecdsa implements ECDSA over every curve of the catalog, with raw r||s
// and DER encoded signatures.
package ecdsa

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/internal/params"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
	"github.com/taurusgroup/eccore/pkg/pool"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

var (
	ErrMaxIterations = errors.Errorf("ecdsa: no valid signature after %d nonces", params.MaxIterations)
	ErrOutOfRange    = errors.New("ecdsa: signature component outside [1, N-1]")
	ErrMalformed     = errors.New("ecdsa: malformed signature")
)

// Signature is a pair (r, s) of non-zero scalars.
type Signature struct {
	R, S *curve.Scalar
}

// EmptySignature returns a signature with zero components on group, ready to be unmarshalled.
func EmptySignature(group curve.Curve) *Signature {
	return &Signature{R: group.NewScalar(), S: group.NewScalar()}
}

// Sign signs the digest hash with the private key of kp.
//
// e is the leftmost N.BitLen() bits of hash. Nonces come from kp.Nonce, so a
// fixed nonce yields a reproducible signature.
func Sign(kp *keys.KeyPair, hash []byte) (*Signature, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	group := kp.Curve()
	e := curve.FromHash(group, hash)
	for i := 0; i < params.MaxIterations; i++ {
		k, R := kp.NonceWithPoint()
		r := R.XScalar()
		if r.IsZero() {
			continue
		}
		// s = k⁻¹(e + d⋅r)
		s := r.Clone().Mul(d).Add(e).Mul(k.Invert())
		if s.IsZero() {
			continue
		}
		return &Signature{R: r, S: s}, nil
	}
	return nil, ErrMaxIterations
}

// Verify reports whether sig is a valid signature of hash under pub.
// It returns false for nil or foreign inputs.
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
	w := sig.S.Clone().Invert()
	u1 := e.Mul(w)
	u2 := sig.R.Clone().Mul(w)
	R := curve.SumOfTwoMultiplies(group.Generator(), u1.Big(), pub, u2.Big())
	if R.IsInfinity() {
		return false
	}
	return R.XScalar().Equal(sig.R)
}

// Bytes returns the raw encoding r||s, each component padded to the length of N.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 0, 2*curve.ByteLen(sig.R.Curve()))
	out = append(out, sig.R.Bytes()...)
	return append(out, sig.S.Bytes()...)
}

// MarshalBinary implements encoding.BinaryMarshaler with the raw encoding.
func (sig *Signature) MarshalBinary() ([]byte, error) {
	return sig.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The signature must have
// been created with EmptySignature.
func (sig *Signature) UnmarshalBinary(data []byte) error {
	if sig.R == nil || sig.S == nil {
		return errors.New("ecdsa: signature must be initialized using EmptySignature")
	}
	parsed, err := ParseRaw(sig.R.Curve(), data)
	if err != nil {
		return err
	}
	sig.R.Set(parsed.R)
	sig.S.Set(parsed.S)
	return nil
}

// MarshalDER returns SEQUENCE { INTEGER r, INTEGER s }.
func (sig *Signature) MarshalDER() ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(sig.R.Big())
		b.AddASN1BigInt(sig.S.Big())
	})
	return b.Bytes()
}

func fromInts(group curve.Curve, r, s *big.Int) (*Signature, error) {
	n := group.OrderBig()
	for _, x := range []*big.Int{r, s} {
		if x.Sign() <= 0 || x.Cmp(n) >= 0 {
			return nil, ErrOutOfRange
		}
	}
	return &Signature{R: group.NewScalar().SetBig(r), S: group.NewScalar().SetBig(s)}, nil
}

// ParseRaw parses r||s. Each half must be exactly as long as N.
func ParseRaw(group curve.Curve, data []byte) (*Signature, error) {
	l := curve.ByteLen(group)
	if len(data) != 2*l {
		return nil, errors.Wrapf(ErrMalformed, "raw signature of %d bytes, expected %d", len(data), 2*l)
	}
	return fromInts(group, new(big.Int).SetBytes(data[:l]), new(big.Int).SetBytes(data[l:]))
}

// ParseDER parses a DER SEQUENCE { INTEGER r, INTEGER s }.
func ParseDER(group curve.Curve, der []byte) (*Signature, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, ErrMalformed
	}
	return fromInts(group, r, s)
}

// SignDER is Sign followed by MarshalDER.
func SignDER(kp *keys.KeyPair, hash []byte) ([]byte, error) {
	sig, err := Sign(kp, hash)
	if err != nil {
		return nil, err
	}
	return sig.MarshalDER()
}

// VerifyRaw verifies a raw r||s signature. Malformed input yields false.
func VerifyRaw(pub curve.Point, hash, sig []byte) bool {
	if pub == nil {
		return false
	}
	parsed, err := ParseRaw(pub.Curve(), sig)
	if err != nil {
		return false
	}
	return Verify(pub, hash, parsed)
}

// VerifyDER verifies a DER signature. Malformed input yields false.
func VerifyDER(pub curve.Point, hash, der []byte) bool {
	if pub == nil {
		return false
	}
	parsed, err := ParseDER(pub.Curve(), der)
	if err != nil {
		return false
	}
	return Verify(pub, hash, parsed)
}

// BatchItem is one verification of VerifyBatch.
type BatchItem struct {
	Public    curve.Point
	Hash      []byte
	Signature *Signature
}

// VerifyBatch verifies items independently on the workers of p, which may be nil.
// The i-th result is Verify of the i-th item.
func VerifyBatch(p *pool.Pool, items []BatchItem) []bool {
	return pool.Parallelize(p, len(items), func(i int) bool {
		it := items[i]
		return Verify(it.Public, it.Hash, it.Signature)
	})
}

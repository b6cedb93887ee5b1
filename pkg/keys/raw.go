package keys

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

// PrivateKeyLen is the length of a raw private key: the coordinate length, widened
// when the order is longer than the field (the secp160 curves).
func PrivateKeyLen(group curve.Curve) int {
	return max(group.FieldBytes(), curve.ByteLen(group))
}

// PrivateBytes returns D as a fixed-width big-endian string of PrivateKeyLen bytes.
func (kp *KeyPair) PrivateBytes() ([]byte, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	return d.Big().FillBytes(make([]byte, PrivateKeyLen(kp.group))), nil
}

// SetPrivateBytes parses a raw private key, which must be exactly PrivateKeyLen
// bytes and encode a value in [1, N-1].
func (kp *KeyPair) SetPrivateBytes(data []byte) error {
	if l := PrivateKeyLen(kp.group); len(data) != l {
		return errors.Wrapf(ErrInvalidKey, "private key of %d bytes, expected %d", len(data), l)
	}
	d := new(big.Int).SetBytes(data)
	if d.Cmp(kp.group.OrderBig()) >= 0 {
		return errors.Wrap(ErrInvalidKey, "private key not below the order")
	}
	return kp.SetPrivate(kp.group.NewScalar().SetBig(d))
}

// PublicBytes returns the SEC 1 encoding of Q.
func (kp *KeyPair) PublicBytes(compressed bool) ([]byte, error) {
	q, err := kp.Public()
	if err != nil {
		return nil, err
	}
	return q.Encode(compressed), nil
}

// SetPublicBytes decodes a SEC 1 point and sets it as Q.
func (kp *KeyPair) SetPublicBytes(data []byte) error {
	q, err := kp.group.DecodePoint(data)
	if err != nil {
		return errors.Wrap(err, "keys: public key")
	}
	return kp.SetPublic(q)
}

// FromPrivateBytes is New followed by SetPrivateBytes.
func FromPrivateBytes(group curve.Curve, data []byte, opts ...Option) (*KeyPair, error) {
	kp := New(group, opts...)
	if err := kp.SetPrivateBytes(data); err != nil {
		return nil, err
	}
	return kp, nil
}

// FromPublicBytes is New followed by SetPublicBytes.
func FromPublicBytes(group curve.Curve, data []byte, opts ...Option) (*KeyPair, error) {
	kp := New(group, opts...)
	if err := kp.SetPublicBytes(data); err != nil {
		return nil, err
	}
	return kp, nil
}

// FromPoint returns a public-only KeyPair.
func FromPoint(q curve.Point, opts ...Option) (*KeyPair, error) {
	if q == nil {
		return nil, ErrNoPublicKey
	}
	kp := New(q.Curve(), opts...)
	if err := kp.SetPublic(q); err != nil {
		return nil, err
	}
	return kp, nil
}

// Package elgamal implements ElGamal encryption of curve points.
//
// A point M is encrypted under Q = d⋅G as (C1, C2) = (k⋅G, M + k⋅Q) and recovered
// as C2 - d⋅C1. Adding (k'⋅G, k'⋅Q) to a ciphertext re-randomises it without
// changing the plaintext.
package elgamal

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

var (
	ErrInvalidCiphertext = errors.New("elgamal: invalid ciphertext")
	ErrWrongCurve        = errors.New("elgamal: point belongs to another curve")
)

type Ciphertext struct {
	// C1 = k⋅G
	C1 curve.Point
	// C2 = M + k⋅Q
	C2 curve.Point
}

// Empty returns a ciphertext of two points at infinity on group, ready to be unmarshalled.
func Empty(group curve.Curve) *Ciphertext {
	return &Ciphertext{
		C1: group.Infinity(),
		C2: group.Infinity(),
	}
}

// Curve returns the curve of the ciphertext.
func (c *Ciphertext) Curve() curve.Curve { return c.C1.Curve() }

// Valid reports whether both points are set, on the same curve and in the subgroup,
// and C1 is not infinity.
func (c *Ciphertext) Valid() bool {
	if c == nil || c.C1 == nil || c.C2 == nil {
		return false
	}
	if c.C1.Curve() != c.C2.Curve() || c.C1.IsInfinity() {
		return false
	}
	return c.C1.IsValid() && c.C2.IsValid()
}

// Encrypt encrypts m under the public key of kp, drawing k from kp.Nonce.
func Encrypt(kp *keys.KeyPair, m curve.Point) (*Ciphertext, error) {
	c, _, err := encrypt(kp, m)
	return c, err
}

// EncryptWithNonce is Encrypt, also returning the ephemeral scalar k.
func EncryptWithNonce(kp *keys.KeyPair, m curve.Point) (*Ciphertext, *curve.Scalar, error) {
	return encrypt(kp, m)
}

func encrypt(kp *keys.KeyPair, m curve.Point) (*Ciphertext, *curve.Scalar, error) {
	q, err := kp.Public()
	if err != nil {
		return nil, nil, err
	}
	if m == nil || m.Curve() != kp.Curve() {
		return nil, nil, ErrWrongCurve
	}
	k, C1 := kp.NonceWithPoint()
	return &Ciphertext{
		C1: C1,
		C2: k.Act(q).Add(m),
	}, k, nil
}

// Decrypt returns C2 - d⋅C1.
func Decrypt(kp *keys.KeyPair, c *Ciphertext) (curve.Point, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, ErrInvalidCiphertext
	}
	if c.Curve() != kp.Curve() {
		return nil, ErrWrongCurve
	}
	return c.C2.Sub(d.Act(c.C1)), nil
}

// Transform re-randomises c under the public key of kp with the chosen scalar k,
// returning (C1 + k⋅G, C2 + k⋅Q).
func Transform(kp *keys.KeyPair, c *Ciphertext, k *curve.Scalar) (*Ciphertext, error) {
	q, err := kp.Public()
	if err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, ErrInvalidCiphertext
	}
	if c.Curve() != kp.Curve() || k == nil || k.Curve() != kp.Curve() {
		return nil, ErrWrongCurve
	}
	return &Ciphertext{
		C1: c.C1.Add(k.ActOnBase()),
		C2: c.C2.Add(k.Act(q)),
	}, nil
}

// TransformRandom is Transform with a fresh k drawn from kp.Nonce. It returns
// the scalar used, so that the new ephemeral is k1 + k for an old ephemeral k1.
func TransformRandom(kp *keys.KeyPair, c *Ciphertext) (*Ciphertext, *curve.Scalar, error) {
	k := kp.Nonce()
	out, err := Transform(kp, c, k)
	if err != nil {
		return nil, nil, err
	}
	return out, k, nil
}

// Encode returns the SEC 1 encodings of C1 and C2, concatenated.
func (c *Ciphertext) Encode(compressed bool) []byte {
	return append(c.C1.Encode(compressed), c.C2.Encode(compressed)...)
}

// pointLen returns the length of the SEC 1 encoding starting at data[0].
func pointLen(group curve.Curve, data []byte) int {
	if len(data) == 0 {
		return 0
	}
	switch data[0] {
	case 0x00:
		return 1
	case 0x02, 0x03:
		return 1 + group.FieldBytes()
	default:
		return 1 + 2*group.FieldBytes()
	}
}

// Parse decodes the output of Encode. The two points may use different forms.
func Parse(group curve.Curve, data []byte) (*Ciphertext, error) {
	l := pointLen(group, data)
	if l == 0 || l > len(data) {
		return nil, errors.Wrap(ErrInvalidCiphertext, "truncated C1")
	}
	C1, err := group.DecodePoint(data[:l])
	if err != nil {
		return nil, errors.Wrap(err, "elgamal: C1")
	}
	C2, err := group.DecodePoint(data[l:])
	if err != nil {
		return nil, errors.Wrap(err, "elgamal: C2")
	}
	c := &Ciphertext{C1: C1, C2: C2}
	if !c.Valid() {
		return nil, ErrInvalidCiphertext
	}
	return c, nil
}

// WriteTo implements io.WriterTo, writing the compressed encodings of both points.
func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, p := range []curve.Point{c.C1, c.C2} {
		buf, err := p.MarshalBinary()
		if err != nil {
			return total, err
		}
		n, err := w.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type ciphertextMarshal struct {
	C1, C2 curve.Point
}

// MarshalBinary implements encoding.BinaryMarshaler with CBOR.
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&ciphertextMarshal{C1: c.C1, C2: c.C2})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The ciphertext must have
// been created with Empty.
func (c *Ciphertext) UnmarshalBinary(data []byte) error {
	if c.C1 == nil || c.C2 == nil {
		return errors.New("elgamal: ciphertext must be initialized using Empty")
	}
	group := c.C1.Curve()
	cm := &ciphertextMarshal{
		C1: group.Infinity(),
		C2: group.Infinity(),
	}
	if err := cbor.Unmarshal(data, cm); err != nil {
		return errors.Wrap(err, "elgamal")
	}
	if !(&Ciphertext{C1: cm.C1, C2: cm.C2}).Valid() {
		return ErrInvalidCiphertext
	}
	c.C1, c.C2 = cm.C1, cm.C2
	return nil
}

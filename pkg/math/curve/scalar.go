package curve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
)

// Scalar is an integer modulo the order N of a curve.
//
// Methods modify the receiver and return it, so that calls can be chained.
type Scalar struct {
	curve Curve
	value saferith.Nat
}

// NewScalar returns the zero scalar of c.
func NewScalar(c Curve) *Scalar {
	s := &Scalar{curve: c}
	s.value.SetUint64(0).Resize(c.Order().BitLen())
	return s
}

// Curve returns the curve whose order this scalar is reduced by.
func (s *Scalar) Curve() Curve { return s.curve }

func (s *Scalar) check(t *Scalar) {
	if s.curve != t.curve {
		panic(fmt.Sprintf("curve.Scalar: mixing scalars of %s and %s", s.curve.Name(), t.curve.Name()))
	}
}

// Add sets s = s + t mod N.
func (s *Scalar) Add(t *Scalar) *Scalar {
	s.check(t)
	s.value.ModAdd(&s.value, &t.value, s.curve.Order())
	return s
}

// Sub sets s = s - t mod N.
func (s *Scalar) Sub(t *Scalar) *Scalar {
	s.check(t)
	s.value.ModSub(&s.value, &t.value, s.curve.Order())
	return s
}

// Mul sets s = s·t mod N.
func (s *Scalar) Mul(t *Scalar) *Scalar {
	s.check(t)
	s.value.ModMul(&s.value, &t.value, s.curve.Order())
	return s
}

// Negate sets s = -s mod N.
func (s *Scalar) Negate() *Scalar {
	s.value.ModNeg(&s.value, s.curve.Order())
	return s
}

// Invert sets s = s⁻¹ mod N. The inverse of zero is zero.
func (s *Scalar) Invert() *Scalar {
	s.value.ModInverse(&s.value, s.curve.Order())
	return s
}

// Equal returns s == t.
func (s *Scalar) Equal(t *Scalar) bool {
	return s.curve == t.curve && s.value.Eq(&t.value) == 1
}

// IsZero returns s == 0.
func (s *Scalar) IsZero() bool {
	return s.value.EqZero() == 1
}

// Set sets s = t.
func (s *Scalar) Set(t *Scalar) *Scalar {
	s.curve = t.curve
	s.value.SetNat(&t.value)
	return s
}

// Clone returns a copy of s.
func (s *Scalar) Clone() *Scalar {
	return NewScalar(s.curve).Set(s)
}

// SetNat sets s = x mod N.
func (s *Scalar) SetNat(x *saferith.Nat) *Scalar {
	s.value.Mod(x, s.curve.Order())
	return s
}

// SetUint64 sets s = x mod N.
func (s *Scalar) SetUint64(x uint64) *Scalar {
	return s.SetNat(new(saferith.Nat).SetUint64(x))
}

// SetBig sets s = x mod N, for any sign of x.
func (s *Scalar) SetBig(x *big.Int) *Scalar {
	n := s.curve.OrderBig()
	r := new(big.Int).Mod(x, n)
	s.value.SetBig(r, n.BitLen())
	return s
}

// Big returns s as a big.Int in [0, N).
func (s *Scalar) Big() *big.Int {
	return s.value.Big()
}

// Nat returns a copy of the value of s.
func (s *Scalar) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(&s.value)
}

// ByteLen returns the length of the fixed-width encoding of a scalar of c.
func ByteLen(c Curve) int {
	return (c.Order().BitLen() + 7) / 8
}

// Bytes returns the fixed-width big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, ByteLen(s.curve))
	s.value.FillBytes(out)
	return out
}

// SetBytes sets s from a big-endian encoding of a value below N.
func (s *Scalar) SetBytes(data []byte) (*Scalar, error) {
	x := new(saferith.Nat).SetBytes(data)
	if _, _, lt := x.CmpMod(s.curve.Order()); lt != 1 {
		return nil, errors.New("curve.Scalar.SetBytes: scalar was >= N")
	}
	s.value.Mod(x, s.curve.Order())
	return s, nil
}

// Act returns s·P.
func (s *Scalar) Act(p Point) Point {
	return Multiply(p, s.Big())
}

// ActOnBase returns s·G.
func (s *Scalar) ActOnBase() Point {
	return Multiply(s.curve.Generator(), s.Big())
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Scalar) MarshalBinary() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The receiver must have been
// created with NewScalar or Curve.NewScalar.
func (s *Scalar) UnmarshalBinary(data []byte) error {
	if s.curve == nil {
		return errors.New("curve.Scalar.Unmarshal: scalar has no curve")
	}
	if len(data) != ByteLen(s.curve) {
		return fmt.Errorf("curve.Scalar.Unmarshal: invalid length %d", len(data))
	}
	_, err := s.SetBytes(data)
	return err
}

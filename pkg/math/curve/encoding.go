package curve

import (
	"fmt"

	"github.com/cronokirby/saferith"
)

// encodePoint writes the SEC 1 encoding of p.
func encodePoint(p Point, compressed bool) []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	x := p.XBytes()
	if compressed {
		out := make([]byte, 1+len(x))
		out[0] = 0x02
		if p.compressionBit() {
			out[0] = 0x03
		}
		copy(out[1:], x)
		return out
	}
	y := p.YBytes()
	out := make([]byte, 1+len(x)+len(y))
	out[0] = 0x04
	copy(out[1:], x)
	copy(out[1+len(x):], y)
	return out
}

// EncodeHybrid returns the hybrid encoding 0x06/0x07 || X || Y, where the type byte
// repeats the compression bit of y.
func EncodeHybrid(p Point) []byte {
	out := encodePoint(p, false)
	if p.IsInfinity() {
		return out
	}
	out[0] = 0x06
	if p.compressionBit() {
		out[0] = 0x07
	}
	return out
}

func decodePoint(c Curve, data []byte) (Point, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("curve.DecodePoint: %w", ErrInvalidLength)
	}
	l := c.FieldBytes()
	var (
		p   Point
		err error
	)
	switch t := data[0]; t {
	case 0x00:
		if len(data) != 1 {
			return nil, fmt.Errorf("curve.DecodePoint: %w", ErrInvalidLength)
		}
		return c.Infinity(), nil
	case 0x02, 0x03:
		if len(data) != 1+l {
			return nil, fmt.Errorf("curve.DecodePoint: %w", ErrInvalidLength)
		}
		if p, err = c.decompress(t == 0x03, data[1:]); err != nil {
			return nil, fmt.Errorf("curve.DecodePoint: %w", err)
		}
	case 0x04, 0x06, 0x07:
		if len(data) != 1+2*l {
			return nil, fmt.Errorf("curve.DecodePoint: %w", ErrInvalidLength)
		}
		if p, err = c.fromAffine(data[1:1+l], data[1+l:]); err != nil {
			return nil, fmt.Errorf("curve.DecodePoint: %w", err)
		}
		if t != 0x04 && p.compressionBit() != (t == 0x07) {
			return nil, fmt.Errorf("curve.DecodePoint: %w", ErrHybridEncoding)
		}
	default:
		return nil, fmt.Errorf("curve.DecodePoint: %w: type byte 0x%02x", ErrInvalidEncoding, t)
	}
	if p.IsInfinity() {
		return nil, fmt.Errorf("curve.DecodePoint: %w", ErrInfinityEncoding)
	}
	if !p.IsValid() {
		return nil, fmt.Errorf("curve.DecodePoint: %w", ErrInvalidPoint)
	}
	return p, nil
}

// xScalar reduces the affine x coordinate of p modulo N.
func xScalar(p Point) *Scalar {
	c := p.Curve()
	s := c.NewScalar()
	if p.IsInfinity() {
		return s
	}
	return s.SetNat(new(saferith.Nat).SetBytes(p.XBytes()))
}

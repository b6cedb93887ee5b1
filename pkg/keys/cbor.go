package keys

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

// publicKeyMarshal is the CBOR form of a public key: the curve name and the
// compressed point.
type publicKeyMarshal struct {
	Curve string `cbor:"1,keyasint"`
	Point []byte `cbor:"2,keyasint"`
}

// MarshalPublicCBOR encodes Q with the name of its curve.
func (kp *KeyPair) MarshalPublicCBOR() ([]byte, error) {
	enc, err := kp.PublicBytes(true)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&publicKeyMarshal{
		Curve: kp.group.Name(),
		Point: enc,
	})
}

// ParsePublicCBOR decodes the output of MarshalPublicCBOR.
func ParsePublicCBOR(data []byte, opts ...Option) (*KeyPair, error) {
	var pm publicKeyMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return nil, errors.Wrap(err, "keys: public key")
	}
	group, err := curve.ByName(pm.Curve)
	if err != nil {
		return nil, errors.Wrap(err, "keys: public key")
	}
	return FromPublicBytes(group, pm.Point, opts...)
}

package keys

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

// FromSecp256k1 imports a decred secp256k1 private key.
func FromSecp256k1(priv *secp256k1.PrivateKey, opts ...Option) (*KeyPair, error) {
	if priv == nil {
		return nil, ErrNoPrivateKey
	}
	return FromPrivateBytes(curve.Secp256k1(), priv.Serialize(), opts...)
}

// PublicFromSecp256k1 imports a decred secp256k1 public key.
func PublicFromSecp256k1(pub *secp256k1.PublicKey, opts ...Option) (*KeyPair, error) {
	if pub == nil {
		return nil, ErrNoPublicKey
	}
	return FromPublicBytes(curve.Secp256k1(), pub.SerializeUncompressed(), opts...)
}

func (kp *KeyPair) checkSecp256k1() error {
	if kp.group != curve.Secp256k1() {
		return errors.Wrapf(ErrWrongCurve, "%s is not secp256k1", kp.group.Name())
	}
	return nil
}

// ToSecp256k1 exports D as a decred private key.
func (kp *KeyPair) ToSecp256k1() (*secp256k1.PrivateKey, error) {
	if err := kp.checkSecp256k1(); err != nil {
		return nil, err
	}
	data, err := kp.PrivateBytes()
	if err != nil {
		return nil, err
	}
	return secp256k1.PrivKeyFromBytes(data), nil
}

// ToSecp256k1Public exports Q as a decred public key.
func (kp *KeyPair) ToSecp256k1Public() (*secp256k1.PublicKey, error) {
	if err := kp.checkSecp256k1(); err != nil {
		return nil, err
	}
	data, err := kp.PublicBytes(true)
	if err != nil {
		return nil, err
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, errors.Wrap(err, "keys: secp256k1")
	}
	return pub, nil
}

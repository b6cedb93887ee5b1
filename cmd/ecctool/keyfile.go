package main

import (
	"bytes"
	"encoding/hex"
	"encoding/pem"
	"os"

	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

// PEM block types.
const (
	pemPrivate   = "PRIVATE KEY"
	pemECPrivate = "EC PRIVATE KEY"
	pemPublic    = "PUBLIC KEY"
)

// encodePrivate returns the PKCS#8 PEM encoding of kp, or the raw key in hex when
// raw is set or the curve has no object identifier.
func encodePrivate(kp *keys.KeyPair, raw bool) ([]byte, error) {
	if !raw {
		der, err := kp.MarshalPKCS8()
		if err == nil {
			return pem.EncodeToMemory(&pem.Block{Type: pemPrivate, Bytes: der}), nil
		}
		if !errors.Is(err, keys.ErrNoOID) {
			return nil, err
		}
	}
	b, err := kp.PrivateBytes()
	if err != nil {
		return nil, err
	}
	return []byte(hex.EncodeToString(b) + "\n"), nil
}

// encodePublic returns the SubjectPublicKeyInfo PEM encoding of q, or its uncompressed
// SEC 1 encoding in hex. A compressed point has the length of a raw secp160 private key.
func encodePublic(q curve.Point, raw bool) ([]byte, error) {
	kp, err := keys.FromPoint(q)
	if err != nil {
		return nil, err
	}
	if !raw {
		der, err := kp.MarshalPKIX()
		if err == nil {
			return pem.EncodeToMemory(&pem.Block{Type: pemPublic, Bytes: der}), nil
		}
		if !errors.Is(err, keys.ErrNoOID) {
			return nil, err
		}
	}
	b, err := kp.PublicBytes(false)
	if err != nil {
		return nil, err
	}
	return []byte(hex.EncodeToString(b) + "\n"), nil
}

// decodeKey parses a PEM private or public key, falling back to a hex raw key on
// group. A hex string of PrivateKeyLen bytes is read as a private key.
func decodeKey(data []byte, group curve.Curve) (*keys.KeyPair, error) {
	if block, _ := pem.Decode(data); block != nil {
		switch block.Type {
		case pemPrivate:
			return keys.ParsePKCS8(block.Bytes)
		case pemECPrivate:
			return keys.ParseECPrivateKey(block.Bytes)
		case pemPublic:
			return keys.ParsePKIX(block.Bytes)
		default:
			return nil, errors.Errorf("unsupported PEM block %q", block.Type)
		}
	}
	raw, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return nil, errors.Wrap(err, "key is neither PEM nor hex")
	}
	if len(raw) == keys.PrivateKeyLen(group) {
		return keys.FromPrivateBytes(group, raw)
	}
	return keys.FromPublicBytes(group, raw)
}

func readKey(path string, group curve.Curve) (*keys.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	kp, err := decodeKey(data, group)
	if err != nil {
		return nil, errors.Wrapf(err, "reading key %s", path)
	}
	return kp, nil
}

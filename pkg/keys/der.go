package keys

import (
	"encoding/asn1"
	"math/big"

	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/math/curve"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// OIDPublicKeyEC is id-ecPublicKey from RFC 5480.
var OIDPublicKeyEC = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

const ecPrivKeyVersion = 1

var (
	ErrNoOID     = errors.New("keys: curve has no object identifier")
	ErrMalformed = errors.New("keys: malformed DER")
)

var (
	tagParameters = cbasn1.Tag(0).Constructed().ContextSpecific()
	tagPublicKey  = cbasn1.Tag(1).Constructed().ContextSpecific()
)

func curveOID(group curve.Curve) (asn1.ObjectIdentifier, error) {
	oid := group.OID()
	if len(oid) == 0 {
		return nil, errors.Wrap(ErrNoOID, group.Name())
	}
	return oid, nil
}

func addAlgorithm(b *cryptobyte.Builder, oid asn1.ObjectIdentifier) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(OIDPublicKeyEC)
		b.AddASN1ObjectIdentifier(oid)
	})
}

func readAlgorithm(s *cryptobyte.String) (curve.Curve, error) {
	var (
		alg       cryptobyte.String
		algorithm asn1.ObjectIdentifier
		named     asn1.ObjectIdentifier
	)
	if !s.ReadASN1(&alg, cbasn1.SEQUENCE) ||
		!alg.ReadASN1ObjectIdentifier(&algorithm) ||
		!alg.ReadASN1ObjectIdentifier(&named) ||
		!alg.Empty() {
		return nil, errors.Wrap(ErrMalformed, "algorithm identifier")
	}
	if !algorithm.Equal(OIDPublicKeyEC) {
		return nil, errors.Errorf("keys: unsupported algorithm %s", algorithm)
	}
	group, err := curve.ByOID(named)
	if err != nil {
		return nil, errors.Wrapf(err, "keys: curve %s", named)
	}
	return group, nil
}

// marshalECPrivateKey writes the RFC 5915 ECPrivateKey structure. The curve
// parameters are omitted inside PKCS#8, where the algorithm identifier carries them.
func (kp *KeyPair) marshalECPrivateKey(withParams bool) ([]byte, error) {
	d, err := kp.Private()
	if err != nil {
		return nil, err
	}
	q, err := kp.Public()
	if err != nil {
		return nil, err
	}
	oid, err := curveOID(kp.group)
	if err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(ecPrivKeyVersion)
		b.AddASN1OctetString(d.Bytes())
		if withParams {
			b.AddASN1(tagParameters, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(oid)
			})
		}
		b.AddASN1(tagPublicKey, func(b *cryptobyte.Builder) {
			b.AddASN1BitString(q.Encode(false))
		})
	})
	return b.Bytes()
}

// parseECPrivateKey reads an ECPrivateKey. group may be nil when the structure
// must name its own curve.
func parseECPrivateKey(der []byte, group curve.Curve, opts []Option) (*KeyPair, error) {
	var (
		input      = cryptobyte.String(der)
		inner      cryptobyte.String
		version    int64
		privateKey []byte
		params     cryptobyte.String
		hasParams  bool
		public     cryptobyte.String
		hasPublic  bool
	)
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) || !input.Empty() ||
		!inner.ReadASN1Integer(&version) ||
		!inner.ReadASN1Bytes(&privateKey, cbasn1.OCTET_STRING) ||
		!inner.ReadOptionalASN1(&params, &hasParams, tagParameters) ||
		!inner.ReadOptionalASN1(&public, &hasPublic, tagPublicKey) ||
		!inner.Empty() {
		return nil, errors.Wrap(ErrMalformed, "ECPrivateKey")
	}
	if version != ecPrivKeyVersion {
		return nil, errors.Errorf("keys: unknown ECPrivateKey version %d", version)
	}
	if hasParams {
		var named asn1.ObjectIdentifier
		if !params.ReadASN1ObjectIdentifier(&named) || !params.Empty() {
			return nil, errors.Wrap(ErrMalformed, "ECPrivateKey parameters")
		}
		c, err := curve.ByOID(named)
		if err != nil {
			return nil, errors.Wrapf(err, "keys: curve %s", named)
		}
		if group != nil && c != group {
			return nil, errors.Wrapf(ErrWrongCurve, "parameters name %s, expected %s", c.Name(), group.Name())
		}
		group = c
	}
	if group == nil {
		return nil, errors.Wrap(ErrMalformed, "ECPrivateKey without curve parameters")
	}

	d := new(big.Int).SetBytes(privateKey)
	if len(privateKey) > curve.ByteLen(group) || d.Sign() == 0 || d.Cmp(group.OrderBig()) >= 0 {
		return nil, errors.Wrap(ErrInvalidKey, "private key out of range")
	}
	kp := New(group, opts...)
	if err := kp.SetPrivate(group.NewScalar().SetBig(d)); err != nil {
		return nil, err
	}
	if hasPublic {
		var bits asn1.BitString
		if !public.ReadASN1BitString(&bits) || !public.Empty() || bits.BitLength%8 != 0 {
			return nil, errors.Wrap(ErrMalformed, "ECPrivateKey public key")
		}
		if err := kp.SetPublicBytes(bits.Bytes); err != nil {
			return nil, err
		}
	}
	return kp, nil
}

// MarshalECPrivateKey returns the SEC 1 / RFC 5915 "EC PRIVATE KEY" DER encoding,
// including the named curve.
func (kp *KeyPair) MarshalECPrivateKey() ([]byte, error) {
	return kp.marshalECPrivateKey(true)
}

// ParseECPrivateKey parses the output of MarshalECPrivateKey.
func ParseECPrivateKey(der []byte, opts ...Option) (*KeyPair, error) {
	return parseECPrivateKey(der, nil, opts)
}

// MarshalPKCS8 returns the PKCS#8 PrivateKeyInfo DER encoding of the pair.
func (kp *KeyPair) MarshalPKCS8() ([]byte, error) {
	oid, err := curveOID(kp.group)
	if err != nil {
		return nil, err
	}
	inner, err := kp.marshalECPrivateKey(false)
	if err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		addAlgorithm(b, oid)
		b.AddASN1OctetString(inner)
	})
	return b.Bytes()
}

// ParsePKCS8 parses a PKCS#8 PrivateKeyInfo holding an EC key on a known curve.
func ParsePKCS8(der []byte, opts ...Option) (*KeyPair, error) {
	var (
		input   = cryptobyte.String(der)
		inner   cryptobyte.String
		version int64
		key     []byte
	)
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) || !input.Empty() ||
		!inner.ReadASN1Integer(&version) {
		return nil, errors.Wrap(ErrMalformed, "PrivateKeyInfo")
	}
	if version != 0 {
		return nil, errors.Errorf("keys: unknown PrivateKeyInfo version %d", version)
	}
	group, err := readAlgorithm(&inner)
	if err != nil {
		return nil, err
	}
	// Trailing attributes are allowed by PKCS#8 and ignored.
	if !inner.ReadASN1Bytes(&key, cbasn1.OCTET_STRING) {
		return nil, errors.Wrap(ErrMalformed, "PrivateKeyInfo key")
	}
	return parseECPrivateKey(key, group, opts)
}

// MarshalPKIX returns the X.509 SubjectPublicKeyInfo DER encoding of Q.
func (kp *KeyPair) MarshalPKIX() ([]byte, error) {
	oid, err := curveOID(kp.group)
	if err != nil {
		return nil, err
	}
	q, err := kp.Public()
	if err != nil {
		return nil, err
	}
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addAlgorithm(b, oid)
		b.AddASN1BitString(q.Encode(false))
	})
	return b.Bytes()
}

// ParsePKIX parses a SubjectPublicKeyInfo into a public-only KeyPair.
func ParsePKIX(der []byte, opts ...Option) (*KeyPair, error) {
	var (
		input = cryptobyte.String(der)
		inner cryptobyte.String
		bits  asn1.BitString
	)
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) || !input.Empty() {
		return nil, errors.Wrap(ErrMalformed, "SubjectPublicKeyInfo")
	}
	group, err := readAlgorithm(&inner)
	if err != nil {
		return nil, err
	}
	if !inner.ReadASN1BitString(&bits) || !inner.Empty() || bits.BitLength%8 != 0 {
		return nil, errors.Wrap(ErrMalformed, "SubjectPublicKeyInfo key")
	}
	return FromPublicBytes(group, bits.Bytes, opts...)
}

// Package ecqv implements Elliptic Curve Qu-Vanstone implicit certificates (SEC 4).
//
// A user sends a request point Ru = ku⋅G to the issuer, who returns a
// reconstruction point Pu and reconstruction data r. Anyone recovers the user's
// public key as Qu = e⋅Pu + Qca, and only the user recovers du = e⋅ku + r, where
// e is the hash of the identity information and Pu.
package ecqv

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/internal/params"
	"github.com/taurusgroup/eccore/pkg/hash"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

var (
	ErrMaxIterations = errors.Errorf("ecqv: no valid certificate after %d nonces", params.MaxIterations)
	ErrWrongCurve    = errors.New("ecqv: issuer and user on different curves")
	ErrInvalidPoint  = errors.New("ecqv: invalid point")
	ErrMismatch      = errors.New("ecqv: reconstructed private key does not match the certificate")
)

// Certificate is the implicit certificate issued for an identity.
type Certificate struct {
	// Pu = Ru + k⋅G is the public-key reconstruction point.
	Pu curve.Point
	// R = e⋅k + dca is the private-key reconstruction data, sent to the user only.
	R *curve.Scalar
}

// EmptyCertificate returns a certificate on group, ready to be unmarshalled.
func EmptyCertificate(group curve.Curve) *Certificate {
	return &Certificate{Pu: group.Infinity(), R: group.NewScalar()}
}

// challenge returns e = Hn(idInfo || Pu), with Pu compressed.
func challenge(h hash.Hash, idInfo []byte, pu curve.Point) *curve.Scalar {
	return curve.FromHash(pu.Curve(), h.Sum(idInfo, pu.Encode(true)))
}

func checkPoint(group curve.Curve, p curve.Point) error {
	if p == nil {
		return ErrInvalidPoint
	}
	if p.Curve() != group {
		return ErrWrongCurve
	}
	if p.IsInfinity() || !p.IsValid() {
		return ErrInvalidPoint
	}
	return nil
}

// issue runs the issuer side for a request point ru, which is infinity for a
// self-signed certificate.
func issue(ca *keys.KeyPair, h hash.Hash, idInfo []byte, ru curve.Point) (*Certificate, error) {
	dca, err := ca.Private()
	if err != nil {
		return nil, err
	}
	qca, err := ca.Public()
	if err != nil {
		return nil, err
	}
	for i := 0; i < params.MaxIterations; i++ {
		k, kG := ca.NonceWithPoint()
		pu := ru.Add(kG)
		if pu.IsInfinity() {
			continue
		}
		e := challenge(h, idInfo, pu)
		if e.Act(pu).Add(qca).IsInfinity() {
			continue
		}
		return &Certificate{
			Pu: pu.Normalize(),
			R:  e.Mul(k).Add(dca),
		}, nil
	}
	return nil, ErrMaxIterations
}

// GenerateCert issues a certificate binding idInfo to the request point ru.
func GenerateCert(ca *keys.KeyPair, h hash.Hash, idInfo []byte, ru curve.Point) (*Certificate, error) {
	if err := checkPoint(ca.Curve(), ru); err != nil {
		return nil, err
	}
	return issue(ca, h, idInfo, ru)
}

// GenerateSelfSigned issues a certificate for the issuer's own identity, without a
// request key pair. The certified private key is R itself.
func GenerateSelfSigned(ca *keys.KeyPair, h hash.Hash, idInfo []byte) (*Certificate, error) {
	return issue(ca, h, idInfo, ca.Curve().Infinity())
}

// ExtractPublic returns Qu = e⋅Pu + Qca.
func ExtractPublic(h hash.Hash, idInfo []byte, pu, qca curve.Point) (curve.Point, error) {
	if qca == nil {
		return nil, ErrInvalidPoint
	}
	group := qca.Curve()
	if err := checkPoint(group, qca); err != nil {
		return nil, err
	}
	if err := checkPoint(group, pu); err != nil {
		return nil, err
	}
	qu := challenge(h, idInfo, pu).Act(pu).Add(qca)
	if qu.IsInfinity() {
		return nil, ErrInvalidPoint
	}
	return qu, nil
}

// ExtractSelfSignedPublic returns the public key certified by a self-signed certificate.
func ExtractSelfSignedPublic(h hash.Hash, idInfo []byte, pu, qca curve.Point) (curve.Point, error) {
	return ExtractPublic(h, idInfo, pu, qca)
}

// reconstruct checks that du⋅G equals the public key derived from the certificate
// and returns the resulting key pair.
func reconstruct(du *curve.Scalar, h hash.Hash, idInfo []byte, cert *Certificate, qca curve.Point, opts []keys.Option) (*keys.KeyPair, error) {
	qu, err := ExtractPublic(h, idInfo, cert.Pu, qca)
	if err != nil {
		return nil, err
	}
	if du.IsZero() || !du.ActOnBase().Equal(qu) {
		return nil, ErrMismatch
	}
	kp := keys.New(du.Curve(), opts...)
	if err = kp.SetPrivate(du); err != nil {
		return nil, err
	}
	if err = kp.SetPublic(qu); err != nil {
		return nil, err
	}
	return kp, nil
}

func checkCertificate(group curve.Curve, cert *Certificate) error {
	if cert == nil || cert.R == nil {
		return errors.New("ecqv: empty certificate")
	}
	if cert.R.Curve() != group {
		return ErrWrongCurve
	}
	return checkPoint(group, cert.Pu)
}

// ExtractPrivate returns the user's certified key pair du = e⋅ku + r, where ku is
// the private key of the request pair. The randomness source of the request pair
// is kept.
func ExtractPrivate(request *keys.KeyPair, h hash.Hash, idInfo []byte, cert *Certificate, qca curve.Point) (*keys.KeyPair, error) {
	ku, err := request.Private()
	if err != nil {
		return nil, err
	}
	if err = checkCertificate(request.Curve(), cert); err != nil {
		return nil, err
	}
	du := challenge(h, idInfo, cert.Pu).Mul(ku).Add(cert.R)
	return reconstruct(du, h, idInfo, cert, qca, []keys.Option{keys.WithRand(request.Rand())})
}

// ExtractSelfSignedPrivate returns the key pair certified by a self-signed certificate.
func ExtractSelfSignedPrivate(h hash.Hash, idInfo []byte, cert *Certificate, qca curve.Point, opts ...keys.Option) (*keys.KeyPair, error) {
	if qca == nil {
		return nil, ErrInvalidPoint
	}
	if err := checkCertificate(qca.Curve(), cert); err != nil {
		return nil, err
	}
	return reconstruct(cert.R.Clone(), h, idInfo, cert, qca, opts)
}

type certificateMarshal struct {
	Pu curve.Point
	R  *curve.Scalar
}

// MarshalBinary implements encoding.BinaryMarshaler with CBOR.
func (c *Certificate) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(&certificateMarshal{Pu: c.Pu, R: c.R})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The certificate must have
// been created with EmptyCertificate.
func (c *Certificate) UnmarshalBinary(data []byte) error {
	if c.Pu == nil || c.R == nil {
		return errors.New("ecqv: certificate must be initialized using EmptyCertificate")
	}
	group := c.Pu.Curve()
	cm := &certificateMarshal{
		Pu: group.Infinity(),
		R:  group.NewScalar(),
	}
	if err := cbor.Unmarshal(data, cm); err != nil {
		return errors.Wrap(err, "ecqv")
	}
	if err := checkPoint(group, cm.Pu); err != nil {
		return err
	}
	c.Pu, c.R = cm.Pu, cm.R
	return nil
}

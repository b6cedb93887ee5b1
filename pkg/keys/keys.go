// Package keys holds elliptic-curve key pairs and their encodings.
//
// A KeyPair owns its curve, an optional private scalar D in [1, N-1], the public
// point Q = D⋅G (derived lazily when only D is known), and the randomness source
// used for key and nonce generation.
package keys

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/math/curve"
	"github.com/taurusgroup/eccore/pkg/math/sample"
	"github.com/taurusgroup/eccore/pkg/pool"
)

var (
	ErrNoPrivateKey = errors.New("keys: no private key")
	ErrNoPublicKey  = errors.New("keys: no public key")
	ErrInvalidKey   = errors.New("keys: invalid key")
	ErrWrongCurve   = errors.New("keys: key belongs to another curve")
	ErrMismatch     = errors.New("keys: public key does not match private key")
)

// KeyPair is safe for concurrent use. A source given to WithRand is read through a
// pool.LockedReader, so concurrent key and nonce generation never race on it.
type KeyPair struct {
	group curve.Curve
	rand  io.Reader

	mu     sync.Mutex
	d      *curve.Scalar
	q      curve.Point
	fixedK *curve.Scalar
}

// Option configures a KeyPair at construction.
type Option func(*KeyPair)

// WithRand sets the randomness source. It defaults to crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(kp *KeyPair) {
		kp.rand = lockedReader(r)
	}
}

func lockedReader(r io.Reader) io.Reader {
	if _, ok := r.(*pool.LockedReader); ok || r == rand.Reader {
		return r
	}
	return pool.NewLockedReader(r)
}

// New returns a KeyPair on group without key material.
func New(group curve.Curve, opts ...Option) *KeyPair {
	kp := &KeyPair{group: group, rand: rand.Reader}
	for _, opt := range opts {
		opt(kp)
	}
	return kp
}

// Generate returns a KeyPair with a fresh private key.
func Generate(group curve.Curve, opts ...Option) *KeyPair {
	kp := New(group, opts...)
	kp.GenerateKeyPair()
	return kp
}

func (kp *KeyPair) Curve() curve.Curve { return kp.group }

// Rand returns the randomness source of the pair.
func (kp *KeyPair) Rand() io.Reader { return kp.rand }

// GenerateKeyPair replaces the key material with a random D and Q = D⋅G.
func (kp *KeyPair) GenerateKeyPair() {
	d, q := sample.ScalarPointPair(kp.rand, kp.group)
	kp.mu.Lock()
	kp.d, kp.q = d, q
	kp.mu.Unlock()
}

// SetPrivate sets D and discards the public point, which is derived again on demand.
func (kp *KeyPair) SetPrivate(d *curve.Scalar) error {
	if d == nil || d.IsZero() {
		return errors.Wrap(ErrInvalidKey, "private key is zero")
	}
	if d.Curve() != kp.group {
		return errors.Wrapf(ErrWrongCurve, "private key of %s", d.Curve().Name())
	}
	kp.mu.Lock()
	kp.d, kp.q = d.Clone(), nil
	kp.mu.Unlock()
	return nil
}

// SetPublic sets Q. If D is already known, Q must equal D⋅G.
func (kp *KeyPair) SetPublic(q curve.Point) error {
	if err := kp.checkPoint(q); err != nil {
		return err
	}
	kp.mu.Lock()
	defer kp.mu.Unlock()
	if kp.d != nil && !kp.d.ActOnBase().Equal(q) {
		return ErrMismatch
	}
	kp.q = q
	return nil
}

func (kp *KeyPair) checkPoint(q curve.Point) error {
	if q == nil || q.IsInfinity() {
		return errors.Wrap(ErrInvalidKey, "public key is infinity")
	}
	if q.Curve() != kp.group {
		return errors.Wrapf(ErrWrongCurve, "public key on %s", q.Curve().Name())
	}
	if !q.IsValid() {
		return errors.Wrap(ErrInvalidKey, "public key is not in the subgroup")
	}
	return nil
}

// HasPrivate reports whether D is set.
func (kp *KeyPair) HasPrivate() bool {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	return kp.d != nil
}

// Private returns a copy of D.
func (kp *KeyPair) Private() (*curve.Scalar, error) {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	if kp.d == nil {
		return nil, ErrNoPrivateKey
	}
	return kp.d.Clone(), nil
}

// Public returns Q, computing and caching D⋅G if needed.
func (kp *KeyPair) Public() (curve.Point, error) {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	if kp.q == nil {
		if kp.d == nil {
			return nil, ErrNoPublicKey
		}
		kp.q = kp.d.ActOnBase().Normalize()
	}
	return kp.q, nil
}

// SetFixedK makes Nonce return k instead of sampling. A nil k restores sampling.
//
// Signing with a fixed nonce more than once leaks the private key; this exists
// for reproducible test vectors.
func (kp *KeyPair) SetFixedK(k *curve.Scalar) error {
	if k != nil {
		if k.IsZero() {
			return errors.Wrap(ErrInvalidKey, "fixed nonce is zero")
		}
		if k.Curve() != kp.group {
			return errors.Wrapf(ErrWrongCurve, "fixed nonce of %s", k.Curve().Name())
		}
		k = k.Clone()
	}
	kp.mu.Lock()
	kp.fixedK = k
	kp.mu.Unlock()
	return nil
}

// Nonce returns the fixed nonce if one is set, and otherwise a fresh scalar in [1, N-1].
func (kp *KeyPair) Nonce() *curve.Scalar {
	kp.mu.Lock()
	k := kp.fixedK
	kp.mu.Unlock()
	if k != nil {
		return k.Clone()
	}
	return sample.Scalar(kp.rand, kp.group)
}

// NonceWithPoint returns Nonce() together with k⋅G.
func (kp *KeyPair) NonceWithPoint() (*curve.Scalar, curve.Point) {
	k := kp.Nonce()
	return k, k.ActOnBase()
}

package main

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/taurusgroup/eccore/pkg/ecdsa"
	"github.com/taurusgroup/eccore/pkg/ecgdsa"
	"github.com/taurusgroup/eccore/pkg/ecsdsa"
	"github.com/taurusgroup/eccore/pkg/gost3410"
	"github.com/taurusgroup/eccore/pkg/hash"
	"github.com/taurusgroup/eccore/pkg/keys"
	"github.com/taurusgroup/eccore/pkg/math/curve"
)

// scheme signs and verifies whole messages; digest-based schemes hash first.
type scheme struct {
	sign   func(kp *keys.KeyPair, h hash.Hash, message []byte) ([]byte, error)
	verify func(pub curve.Point, h hash.Hash, message, sig []byte) bool
	// public returns the verification key of kp.
	public func(kp *keys.KeyPair) (curve.Point, error)
}

func publicKey(kp *keys.KeyPair) (curve.Point, error) { return kp.Public() }

func schnorr(v ecsdsa.Variant) scheme {
	return scheme{
		sign: func(kp *keys.KeyPair, h hash.Hash, message []byte) ([]byte, error) {
			sig, err := ecsdsa.Sign(kp, h, message, v)
			if err != nil {
				return nil, err
			}
			return sig.Bytes(), nil
		},
		verify: func(pub curve.Point, h hash.Hash, message, sig []byte) bool {
			return ecsdsa.VerifyRaw(pub, h, message, sig, v)
		},
		public: publicKey,
	}
}

var schemes = map[string]scheme{
	"ecdsa": {
		sign: func(kp *keys.KeyPair, h hash.Hash, message []byte) ([]byte, error) {
			sig, err := ecdsa.Sign(kp, h.Calc(message))
			if err != nil {
				return nil, err
			}
			return sig.Bytes(), nil
		},
		verify: func(pub curve.Point, h hash.Hash, message, sig []byte) bool {
			return ecdsa.VerifyRaw(pub, h.Calc(message), sig)
		},
		public: publicKey,
	},
	"ecdsa-der": {
		sign: func(kp *keys.KeyPair, h hash.Hash, message []byte) ([]byte, error) {
			return ecdsa.SignDER(kp, h.Calc(message))
		},
		verify: func(pub curve.Point, h hash.Hash, message, sig []byte) bool {
			return ecdsa.VerifyDER(pub, h.Calc(message), sig)
		},
		public: publicKey,
	},
	"ecsdsa":   schnorr(ecsdsa.Standard),
	"ecsdsa-x": schnorr(ecsdsa.XOnly),
	"ecgdsa": {
		sign: func(kp *keys.KeyPair, h hash.Hash, message []byte) ([]byte, error) {
			sig, err := ecgdsa.Sign(kp, h.Calc(message))
			if err != nil {
				return nil, err
			}
			return sig.Bytes(), nil
		},
		verify: func(pub curve.Point, h hash.Hash, message, sig []byte) bool {
			return ecgdsa.VerifyRaw(pub, h.Calc(message), sig)
		},
		public: ecgdsa.PublicKey,
	},
	"gost3410": {
		sign: func(kp *keys.KeyPair, h hash.Hash, message []byte) ([]byte, error) {
			sig, err := gost3410.Sign(kp, h.Calc(message))
			if err != nil {
				return nil, err
			}
			return sig.Bytes(), nil
		},
		verify: func(pub curve.Point, h hash.Hash, message, sig []byte) bool {
			return gost3410.VerifyRaw(pub, h.Calc(message), sig)
		},
		public: publicKey,
	},
}

func schemeNames() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupScheme(name string) (scheme, error) {
	s, ok := schemes[name]
	if !ok {
		return scheme{}, errors.Errorf("unknown scheme %q", name)
	}
	return s, nil
}

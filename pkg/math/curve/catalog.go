package curve

import (
	"context"
	"encoding/asn1"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/taurusgroup/eccore/pkg/math/f2m"
	"github.com/taurusgroup/eccore/pkg/math/fp"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownCurve = errors.New("unknown curve")

// namedCurve builds its curve on first use.
type namedCurve struct {
	once  sync.Once
	build func() Curve
	curve Curve
}

func (n *namedCurve) get() Curve {
	n.once.Do(func() { n.curve = n.build() })
	return n.curve
}

var (
	registry = map[string]*namedCurve{}
	aliases  = map[string]string{
		"P-192":      "secp192r1",
		"prime192v1": "secp192r1",
		"P-224":      "secp224r1",
		"P-256":      "secp256r1",
		"prime256v1": "secp256r1",
		"P-384":      "secp384r1",
		"P-521":      "secp521r1",
	}
)

func init() {
	for i := range primeCurves {
		e := &primeCurves[i]
		registry[e.name] = &namedCurve{build: e.build}
	}
	for i := range binaryCurves {
		e := &binaryCurves[i]
		registry[e.name] = &namedCurve{build: e.build}
	}
}

func hexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curve: bad hex constant " + s)
	}
	return v
}

func (e *primeEntry) build() Curve {
	f := fp.New(e.name, hexBig(e.p), e.reduction)
	n := hexBig(e.n)
	c := newFpCurve(&fpCurve{
		curveParams: newCurveParams(e.name, e.oid, f.Bits(), n, e.h),
		f:           f,
		a:           f.MustElement(e.a),
		b:           f.MustElement(e.b),
		modified:    e.modified,
	})
	gx, gy := f.MustElement(e.gx), f.MustElement(e.gy)
	g := c.point(&gx, &gy)
	if !g.onCurve() {
		panic("curve: generator of " + e.name + " is not on the curve")
	}
	c.generator = g
	c.comb = newCombTable(g, n.BitLen())
	return c
}

func (e *binaryEntry) build() Curve {
	f := f2m.New(e.m, e.ks...)
	n := hexBig(e.n)
	p := newCurveParams(e.name, e.oid, e.m, n, e.h)
	p.koblitz = e.koblitz
	c := newF2mCurve(&f2mCurve{
		curveParams: p,
		f:           f,
		a:           f.MustElement(e.a),
		b:           f.MustElement(e.b),
	})
	gx, gy := f.MustElement(e.gx), f.MustElement(e.gy)
	g := c.pointXY(&gx, &gy)
	if !g.onCurve() {
		panic("curve: generator of " + e.name + " is not on the curve")
	}
	c.generator = g
	c.comb = newCombTable(g, n.BitLen())
	return c
}

// ByName returns the named curve. Both SEC 2 names and the NIST aliases
// (P-256, prime256v1, …) are accepted.
func ByName(name string) (Curve, error) {
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	n, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("curve.ByName: %w: %q", ErrUnknownCurve, name)
	}
	return n.get(), nil
}

// ByOID returns the curve registered under the given object identifier.
func ByOID(oid asn1.ObjectIdentifier) (Curve, error) {
	for _, e := range primeCurves {
		if len(e.oid) > 0 && e.oid.Equal(oid) {
			return ByName(e.name)
		}
	}
	for _, e := range binaryCurves {
		if e.oid.Equal(oid) {
			return ByName(e.name)
		}
	}
	return nil, fmt.Errorf("curve.ByOID: %w: %s", ErrUnknownCurve, oid)
}

// Names returns the canonical names of all supported curves, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Warm builds the named curves concurrently, or every curve when names is empty.
// Building a curve precomputes its generator comb.
func Warm(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}
	eg, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := ByName(name)
			return err
		})
	}
	return eg.Wait()
}

func mustByName(name string) Curve {
	c, err := ByName(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Secp128r1 returns the SEC 2 prime curve secp128r1.
func Secp128r1() Curve { return mustByName("secp128r1") }

// Secp160k1 returns the SEC 2 prime curve secp160k1.
func Secp160k1() Curve { return mustByName("secp160k1") }

// Secp160r1 returns the SEC 2 prime curve secp160r1.
func Secp160r1() Curve { return mustByName("secp160r1") }

// Secp160r2 returns the SEC 2 prime curve secp160r2.
func Secp160r2() Curve { return mustByName("secp160r2") }

// Secp192k1 returns the SEC 2 prime curve secp192k1.
func Secp192k1() Curve { return mustByName("secp192k1") }

// Secp192r1 returns the SEC 2 prime curve secp192r1.
func Secp192r1() Curve { return mustByName("secp192r1") }

// Secp224k1 returns the SEC 2 prime curve secp224k1.
func Secp224k1() Curve { return mustByName("secp224k1") }

// Secp224r1 returns the SEC 2 prime curve secp224r1.
func Secp224r1() Curve { return mustByName("secp224r1") }

// Secp256k1 returns the SEC 2 prime curve secp256k1.
func Secp256k1() Curve { return mustByName("secp256k1") }

// Secp256r1 returns the SEC 2 prime curve secp256r1.
func Secp256r1() Curve { return mustByName("secp256r1") }

// Secp384r1 returns the SEC 2 prime curve secp384r1.
func Secp384r1() Curve { return mustByName("secp384r1") }

// Secp521r1 returns the SEC 2 prime curve secp521r1.
func Secp521r1() Curve { return mustByName("secp521r1") }

// Sect113r1 returns the SEC 2 binary curve sect113r1.
func Sect113r1() Curve { return mustByName("sect113r1") }

// Sect113r2 returns the SEC 2 binary curve sect113r2.
func Sect113r2() Curve { return mustByName("sect113r2") }

// Sect131r1 returns the SEC 2 binary curve sect131r1.
func Sect131r1() Curve { return mustByName("sect131r1") }

// Sect131r2 returns the SEC 2 binary curve sect131r2.
func Sect131r2() Curve { return mustByName("sect131r2") }

// Sect163k1 returns the SEC 2 binary curve sect163k1.
func Sect163k1() Curve { return mustByName("sect163k1") }

// Sect163r1 returns the SEC 2 binary curve sect163r1.
func Sect163r1() Curve { return mustByName("sect163r1") }

// Sect163r2 returns the SEC 2 binary curve sect163r2.
func Sect163r2() Curve { return mustByName("sect163r2") }

// Sect193r1 returns the SEC 2 binary curve sect193r1.
func Sect193r1() Curve { return mustByName("sect193r1") }

// Sect193r2 returns the SEC 2 binary curve sect193r2.
func Sect193r2() Curve { return mustByName("sect193r2") }

// Sect233k1 returns the SEC 2 binary curve sect233k1.
func Sect233k1() Curve { return mustByName("sect233k1") }

// Sect233r1 returns the SEC 2 binary curve sect233r1.
func Sect233r1() Curve { return mustByName("sect233r1") }

// Sect239k1 returns the SEC 2 binary curve sect239k1.
func Sect239k1() Curve { return mustByName("sect239k1") }

// Curve25519 returns the Weierstrass form of Curve25519.
func Curve25519() Curve { return mustByName("curve25519") }

// P192 is the NIST name of Secp192r1.
func P192() Curve { return Secp192r1() }

// P224 is the NIST name of Secp224r1.
func P224() Curve { return Secp224r1() }

// P256 is the NIST name of Secp256r1.
func P256() Curve { return Secp256r1() }

// P384 is the NIST name of Secp384r1.
func P384() Curve { return Secp384r1() }

// P521 is the NIST name of Secp521r1.
func P521() Curve { return Secp521r1() }

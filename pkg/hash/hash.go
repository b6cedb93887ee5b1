// Package hash provides the hash functions consumed by the signature and
// certificate schemes.
//
// Schemes never hard-wire a digest: they receive a Hash, and any function with a
// fixed output size can be adapted into one.
package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	stdhash "hash"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Hash computes a fixed-size digest of a byte string.
type Hash struct {
	Name string
	// Size is the length in bytes of every output of Calc.
	Size int
	Calc func(data []byte) []byte
}

// Sum returns the digest of the concatenation of parts.
func (h Hash) Sum(parts ...[]byte) []byte {
	if len(parts) == 1 {
		return h.Calc(parts[0])
	}
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	buf := make([]byte, 0, n)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return h.Calc(buf)
}

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Name }

// FromStd adapts a constructor of the standard hash.Hash interface.
func FromStd(name string, newHash func() stdhash.Hash) Hash {
	return Hash{
		Name: name,
		Size: newHash().Size(),
		Calc: func(data []byte) []byte {
			h := newHash()
			_, _ = h.Write(data)
			return h.Sum(nil)
		},
	}
}

func SHA256() Hash {
	return Hash{Name: "SHA-256", Size: sha256.Size, Calc: func(data []byte) []byte {
		d := sha256.Sum256(data)
		return d[:]
	}}
}

func SHA384() Hash {
	return Hash{Name: "SHA-384", Size: sha512.Size384, Calc: func(data []byte) []byte {
		d := sha512.Sum384(data)
		return d[:]
	}}
}

func SHA512() Hash {
	return Hash{Name: "SHA-512", Size: sha512.Size, Calc: func(data []byte) []byte {
		d := sha512.Sum512(data)
		return d[:]
	}}
}

func SHA3_256() Hash {
	return Hash{Name: "SHA3-256", Size: 32, Calc: func(data []byte) []byte {
		d := sha3.Sum256(data)
		return d[:]
	}}
}

func SHA3_512() Hash {
	return Hash{Name: "SHA3-512", Size: 64, Calc: func(data []byte) []byte {
		d := sha3.Sum512(data)
		return d[:]
	}}
}

// Keccak256 is the pre-standard Keccak with the original padding.
func Keccak256() Hash {
	return FromStd("Keccak-256", sha3.NewLegacyKeccak256)
}

// BLAKE3 returns 32 bytes of BLAKE3 output.
func BLAKE3() Hash {
	return Hash{Name: "BLAKE3", Size: 32, Calc: func(data []byte) []byte {
		d := blake3.Sum256(data)
		return d[:]
	}}
}

var byName = map[string]func() Hash{
	"sha256":    SHA256,
	"sha384":    SHA384,
	"sha512":    SHA512,
	"sha3-256":  SHA3_256,
	"sha3-512":  SHA3_512,
	"keccak256": Keccak256,
	"blake3":    BLAKE3,
}

// ByName looks up a hash by a case-insensitive name such as "sha256" or "SHA3-256".
func ByName(name string) (Hash, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	key = strings.Replace(key, "sha-", "sha", 1)
	key = strings.Replace(key, "keccak-", "keccak", 1)
	if f, ok := byName[key]; ok {
		return f(), nil
	}
	return Hash{}, errors.Errorf("hash: unknown function %q", name)
}

// Names lists the names accepted by ByName.
func Names() []string {
	out := make([]string, 0, len(byName))
	for name := range byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"slices"

	"github.com/zeebo/blake3"
)

// Algorithm names a digest algorithm, such as "sha256".
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA384 Algorithm = "sha384"
	SHA512 Algorithm = "sha512"
	SHA1   Algorithm = "sha1"
	MD5    Algorithm = "md5"
	BLAKE3 Algorithm = "blake3"
)

// Canonical is the algorithm used when none is asked for.
const Canonical = SHA256

type algorithmInfo struct {
	size int
	new  func() hash.Hash
}

var algorithms = map[Algorithm]algorithmInfo{
	SHA256: {sha256.Size, sha256.New},
	SHA384: {sha512.Size384, sha512.New384},
	SHA512: {sha512.Size, sha512.New},
	SHA1:   {sha1.Size, sha1.New},
	MD5:    {md5.Size, md5.New},
	BLAKE3: {32, func() hash.Hash { return blake3.New() }},
}

// Algorithms returns the supported algorithms in name order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, len(algorithms))
	for a := range algorithms {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Available reports whether a can compute digests.
func (a Algorithm) Available() bool {
	_, ok := algorithms[a]
	return ok
}

// Size returns the length in bytes of a's sums, or 0 for an unknown
// algorithm.
func (a Algorithm) Size() int {
	return algorithms[a].size
}

func (a Algorithm) String() string { return string(a) }

// Hash returns a fresh hash.Hash for a.
func (a Algorithm) Hash() (hash.Hash, error) {
	info, ok := algorithms[a]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
	return info.new(), nil
}

// Digester returns a writer that accumulates a digest of everything
// written to it.
func (a Algorithm) Digester() (*Digester, error) {
	h, err := a.Hash()
	if err != nil {
		return nil, err
	}
	return &Digester{alg: a, hash: h}, nil
}

// Digester hashes the bytes written to it.
type Digester struct {
	alg  Algorithm
	hash hash.Hash
}

func (d *Digester) Write(p []byte) (int, error) { return d.hash.Write(p) }

// Digest returns the digest of the bytes written so far.
func (d *Digester) Digest() Digest {
	return NewDigest(d.alg, d.hash.Sum(nil))
}

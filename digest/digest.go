// Package digest implements content digests written as
// "algorithm:encoded", such as
//
//	sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824
//
// Parse only checks the grammar; Validate also checks that the algorithm
// is known and the encoded part is hex of the right length.
package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/dendrascience/dendra-hid/rules"
)

var (
	algorithmComponent = rules.LowAlpha.Or(rules.Digit)
	algorithmSeparator = rules.AnyOf("+._-")
	encodedChar        = rules.AlphaNum.Or(rules.AnyOf("=_-"))
)

// Digest is an algorithm name and an encoded sum.
type Digest struct {
	algorithm Algorithm
	encoded   string
}

// Parse parses "algorithm:encoded". The algorithm is one or more runs of
// [a-z0-9] joined by one of "+._-"; the encoded part is [a-zA-Z0-9=_-]+.
func Parse(s string) (Digest, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return Digest{}, fmt.Errorf("%w: %q has no ':'", ErrMalformedDigest, s)
	}
	alg, enc := s[:i], s[i+1:]
	if !validAlgorithm(alg) {
		return Digest{}, fmt.Errorf("%w: bad algorithm %q", ErrMalformedDigest, alg)
	}
	if enc == "" || !encodedChar.MatchesAll(enc) {
		return Digest{}, fmt.Errorf("%w: bad encoded part %q", ErrMalformedDigest, enc)
	}
	return Digest{algorithm: Algorithm(alg), encoded: enc}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Digest {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func validAlgorithm(s string) bool {
	i := 0
	for {
		end := algorithmComponent.Span(s, i)
		if end == i {
			return false
		}
		if end == len(s) {
			return true
		}
		if !algorithmSeparator.Matches(s[end]) {
			return false
		}
		i = end + 1
	}
}

// NewDigest returns the digest of alg with the raw sum encoded as lower-case
// hex.
func NewDigest(alg Algorithm, sum []byte) Digest {
	return Digest{algorithm: alg, encoded: hex.EncodeToString(sum)}
}

// FromReader digests everything read from r.
func FromReader(alg Algorithm, r io.Reader) (Digest, error) {
	d, err := alg.Digester()
	if err != nil {
		return Digest{}, err
	}
	if _, err := io.Copy(d, r); err != nil {
		return Digest{}, err
	}
	return d.Digest(), nil
}

func FromBytes(alg Algorithm, p []byte) (Digest, error) {
	d, err := alg.Digester()
	if err != nil {
		return Digest{}, err
	}
	d.Write(p)
	return d.Digest(), nil
}

func (d Digest) IsZero() bool { return d.algorithm == "" }

func (d Digest) Algorithm() Algorithm { return d.algorithm }

func (d Digest) Encoded() string { return d.encoded }

func (d Digest) String() string {
	if d.IsZero() {
		return ""
	}
	return string(d.algorithm) + ":" + d.encoded
}

// Validate checks that the algorithm is available and the encoded part is
// lower-case hex of the algorithm's size.
func (d Digest) Validate() error {
	if !d.algorithm.Available() {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(d.algorithm))
	}
	if len(d.encoded) != 2*d.algorithm.Size() || !rules.IsLowerHex(d.encoded) {
		return fmt.Errorf("%w: %s needs %d lower-case hex digits", ErrInvalidEncoding, d.algorithm, 2*d.algorithm.Size())
	}
	return nil
}

// Sum returns the raw bytes of the encoded part.
func (d Digest) Sum() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return hex.DecodeString(d.encoded)
}

// Verifier returns a writer that checks the bytes written to it against d.
func (d Digest) Verifier() (*Verifier, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	dg, err := d.algorithm.Digester()
	if err != nil {
		return nil, err
	}
	return &Verifier{want: d, digester: dg}, nil
}

// Verify reads r to the end and reports ErrMismatch when its digest is not
// d.
func (d Digest) Verify(r io.Reader) error {
	v, err := d.Verifier()
	if err != nil {
		return err
	}
	if _, err := io.Copy(v, r); err != nil {
		return err
	}
	if !v.Verified() {
		return fmt.Errorf("%w: got %s, want %s", ErrMismatch, v.digester.Digest(), d)
	}
	return nil
}

// Verifier hashes what is written to it and compares against an expected
// digest.
type Verifier struct {
	want     Digest
	digester *Digester
}

func (v *Verifier) Write(p []byte) (int, error) { return v.digester.Write(p) }

// Verified reports whether the bytes written so far match.
func (v *Verifier) Verified() bool {
	return v.digester.Digest() == v.want
}

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Digest{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

package digest

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	d, err := Parse("sha256:abc")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d.Algorithm() != "sha256" {
		t.Errorf("Algorithm() = %q, want sha256", d.Algorithm())
	}
	if d.Encoded() != "abc" || d.String() != "sha256:abc" {
		t.Errorf("Encoded/String = %q/%q", d.Encoded(), d.String())
	}

	valid := []string{
		"sha512:abcdef0123",
		"multihash+base58:QmRZxt2b1FVZPNqd8hsiykDL3TdBDeTSPX9Kv46HmX4Gx8",
		"sha256+b64u:LCa0a2j_xo_5m0U8HTBBNBNCLXBkg7-g-YpeiGJm564",
		"tarsum.v1+sha256:6c3c624b58dbbcd3c0dd82b4c53f04194d1247c6eebdaab7c610cf7d66709b3b",
	}
	for _, s := range valid {
		if _, err := Parse(s); err != nil {
			t.Errorf("Parse(%q) failed: %v", s, err)
		}
	}

	invalid := []string{
		":abc",
		"sha256:",
		"sha256",
		"SHA256:abc",
		"sha256+:abc",
		"+sha256:abc",
		"sha256:a b",
		"sha256:abc/def",
	}
	for _, s := range invalid {
		if _, err := Parse(s); !errors.Is(err, ErrMalformedDigest) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedDigest", s, err)
		}
	}
}

func TestFromBytes(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		want string
	}{
		{SHA256, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
		{SHA1, "sha1:aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"},
		{MD5, "md5:5d41402abc4b2a76b9719d911017c592"},
	}

	for _, tt := range tests {
		t.Run(string(tt.alg), func(t *testing.T) {
			d, err := FromBytes(tt.alg, []byte("hello"))
			if err != nil {
				t.Fatalf("FromBytes failed: %v", err)
			}
			if d.String() != tt.want {
				t.Errorf("FromBytes = %s, want %s", d, tt.want)
			}
			if err := d.Validate(); err != nil {
				t.Errorf("Validate failed: %v", err)
			}
		})
	}
}

func TestEveryAlgorithmRoundTrips(t *testing.T) {
	data := []byte(strings.Repeat("nested archive ", 1000))
	for _, alg := range Algorithms() {
		t.Run(string(alg), func(t *testing.T) {
			d, err := FromReader(alg, bytes.NewReader(data))
			if err != nil {
				t.Fatalf("FromReader failed: %v", err)
			}
			if len(d.Encoded()) != 2*alg.Size() {
				t.Errorf("encoded length %d, want %d", len(d.Encoded()), 2*alg.Size())
			}
			if err := d.Verify(bytes.NewReader(data)); err != nil {
				t.Errorf("Verify failed: %v", err)
			}
			if err := d.Verify(bytes.NewReader(data[1:])); !errors.Is(err, ErrMismatch) {
				t.Errorf("Verify of altered data: got %v, want ErrMismatch", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"sha256:abc", ErrInvalidEncoding},
		{"whirlpool:abc", ErrUnknownAlgorithm},
		{"md5:5D41402ABC4B2A76B9719D911017C592", ErrInvalidEncoding},
		{"md5:5d41402abc4b2a76b9719d911017c592", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if err := MustParse(tt.in).Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := FromBytes("whirlpool", nil); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("FromBytes with unknown algorithm: got %v", err)
	}
}

func TestTextMarshaling(t *testing.T) {
	d := MustParse("blake3:00ff")
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	var back Digest
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
	if err := back.UnmarshalText([]byte(":x")); !errors.Is(err, ErrMalformedDigest) {
		t.Errorf("UnmarshalText(:x) = %v", err)
	}
}

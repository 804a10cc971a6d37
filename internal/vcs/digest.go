package vcs

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
	mhcore "github.com/multiformats/go-multihash/core"
	"github.com/zeebo/blake3"
)

// Digest is the lowercase hex encoding of a 256-bit content hash.
type Digest string

// Short returns the first 14 hex characters, for display.
func (d Digest) Short() string {
	if len(d) <= 14 {
		return string(d)
	}
	return string(d[:14])
}

// HashAlgorithm names the content hash a repository was initialised with.
type HashAlgorithm string

const (
	HashSHA256 HashAlgorithm = "sha256"
	HashBLAKE3 HashAlgorithm = "blake3"
)

const digestSize = 32

// Hasher computes digests for one algorithm and converts them to and from
// their CIDv1 form. The multihash code travels inside every CID, so a CID
// computed under one algorithm is never accepted by a store using another.
type Hasher struct {
	alg  HashAlgorithm
	code uint64
}

// NewHasher returns a Hasher for alg.
func NewHasher(alg HashAlgorithm) (*Hasher, error) {
	switch alg {
	case HashSHA256:
		return &Hasher{alg: alg, code: multihash.SHA2_256}, nil
	case HashBLAKE3:
		return &Hasher{alg: alg, code: multihash.BLAKE3}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", alg)
	}
}

// Algorithm returns the configured algorithm.
func (h *Hasher) Algorithm() HashAlgorithm { return h.alg }

// Sum computes the digest of data.
func (h *Hasher) Sum(data []byte) (Digest, error) {
	if h.alg == HashBLAKE3 {
		sum := blake3.Sum256(data)
		return Digest(hex.EncodeToString(sum[:])), nil
	}
	mh, err := multihash.Sum(data, h.code, -1)
	if err != nil {
		return "", fmt.Errorf("multihash: %w", err)
	}
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return "", fmt.Errorf("decode multihash: %w", err)
	}
	return Digest(hex.EncodeToString(decoded.Digest)), nil
}

// New returns a streaming hash.Hash for the configured algorithm. Its Sum
// output is the raw digest; pass it through FromSum.
func (h *Hasher) New() (hash.Hash, error) {
	if h.alg == HashBLAKE3 {
		return blake3.New(), nil
	}
	return mhcore.GetHasher(h.code)
}

// FromSum converts a raw digest produced by New into a Digest.
func (h *Hasher) FromSum(sum []byte) (Digest, error) {
	if len(sum) != digestSize {
		return "", fmt.Errorf("digest length %d, want %d", len(sum), digestSize)
	}
	return Digest(hex.EncodeToString(sum)), nil
}

// SumReader hashes r without buffering it.
func (h *Hasher) SumReader(r io.Reader) (Digest, int64, error) {
	hh, err := h.New()
	if err != nil {
		return "", 0, err
	}
	n, err := io.Copy(hh, r)
	if err != nil {
		return "", n, fmt.Errorf("hash stream: %w", err)
	}
	d, err := h.FromSum(hh.Sum(nil))
	return d, n, err
}

// CID renders d as a base32 CIDv1 with the raw codec.
func (h *Hasher) CID(d Digest) (string, error) {
	raw, err := hex.DecodeString(string(d))
	if err != nil {
		return "", fmt.Errorf("decode digest %q: %w", d, err)
	}
	mh, err := multihash.Encode(raw, h.code)
	if err != nil {
		return "", fmt.Errorf("multihash: %w", err)
	}
	c := gocid.NewCidV1(gocid.Raw, mh)
	return multibase.Encode(multibase.Base32, c.Bytes())
}

// Parse accepts either a 64-character hex digest or a CID string and
// returns the hex digest.
func (h *Hasher) Parse(s string) (Digest, error) {
	s = strings.TrimSpace(s)
	if isHexDigest(s) {
		return Digest(strings.ToLower(s)), nil
	}
	c, err := gocid.Decode(s)
	if err != nil {
		return "", fmt.Errorf("parse digest %q: %w", s, err)
	}
	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return "", fmt.Errorf("decode CID multihash: %w", err)
	}
	if decoded.Code != h.code {
		return "", fmt.Errorf("CID uses %s, repository uses %s", decoded.Name, h.alg)
	}
	return h.FromSum(decoded.Digest)
}

func isHexDigest(s string) bool {
	if len(s) != digestSize*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

package vcs

import (
	"bytes"
	"strings"
	"testing"
)

// sha256("hello")
const helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func mustHasher(t *testing.T, alg HashAlgorithm) *Hasher {
	t.Helper()
	h, err := NewHasher(alg)
	if err != nil {
		t.Fatalf("NewHasher(%s): %v", alg, err)
	}
	return h
}

func TestHasher_SHA256KnownVector(t *testing.T) {
	h := mustHasher(t, HashSHA256)
	d, err := h.Sum([]byte("hello"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if d != helloSHA256 {
		t.Errorf("digest = %s, want %s", d, helloSHA256)
	}
}

func TestHasher_StreamingMatchesSum(t *testing.T) {
	for _, alg := range []HashAlgorithm{HashSHA256, HashBLAKE3} {
		h := mustHasher(t, alg)
		data := bytes.Repeat([]byte("svcs "), 10000)

		whole, err := h.Sum(data)
		if err != nil {
			t.Fatalf("%s Sum: %v", alg, err)
		}
		streamed, n, err := h.SumReader(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s SumReader: %v", alg, err)
		}
		if whole != streamed {
			t.Errorf("%s: Sum %s != SumReader %s", alg, whole, streamed)
		}
		if n != int64(len(data)) {
			t.Errorf("%s: hashed %d bytes, want %d", alg, n, len(data))
		}
		if len(whole) != 64 {
			t.Errorf("%s: digest length %d, want 64", alg, len(whole))
		}
	}
}

func TestHasher_AlgorithmsDiffer(t *testing.T) {
	a, _ := mustHasher(t, HashSHA256).Sum([]byte("hello"))
	b, _ := mustHasher(t, HashBLAKE3).Sum([]byte("hello"))
	if a == b {
		t.Fatal("sha256 and blake3 digests should differ")
	}
}

func TestHasher_CIDRoundTrip(t *testing.T) {
	h := mustHasher(t, HashSHA256)
	c, err := h.CID(helloSHA256)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if !strings.HasPrefix(c, "b") {
		t.Errorf("CID %q should be base32 (b prefix)", c)
	}
	d, err := h.Parse(c)
	if err != nil {
		t.Fatalf("Parse(%s): %v", c, err)
	}
	if d != helloSHA256 {
		t.Errorf("Parse(CID) = %s, want %s", d, helloSHA256)
	}
}

func TestHasher_ParseHex(t *testing.T) {
	h := mustHasher(t, HashSHA256)
	d, err := h.Parse(strings.ToUpper(helloSHA256))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d != helloSHA256 {
		t.Errorf("Parse = %s, want lowercase %s", d, helloSHA256)
	}
	if _, err := h.Parse("not-a-digest"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestHasher_ParseRejectsForeignAlgorithm(t *testing.T) {
	b3 := mustHasher(t, HashBLAKE3)
	d, _ := b3.Sum([]byte("hello"))
	c, err := b3.CID(d)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if _, err := mustHasher(t, HashSHA256).Parse(c); err == nil {
		t.Error("sha256 hasher accepted a blake3 CID")
	}
}

func TestNewHasher_Unknown(t *testing.T) {
	if _, err := NewHasher("md5"); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestDigest_Short(t *testing.T) {
	if got := Digest(helloSHA256).Short(); got != "2cf24dba5fb0a3" {
		t.Errorf("Short = %q", got)
	}
}

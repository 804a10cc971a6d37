package vcs

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Codec names the compression used for a packed object.
type Codec string

const (
	CodecZstd Codec = "zstd"
	CodecLZ4  Codec = "lz4"
)

// packMagic prefixes every packed object file. Raw blobs that happen to
// start with it are told apart by the digest check in ObjectStore.Get.
var packMagic = []byte("SVZ\x01")

// packHeadLen bounds magic plus header; enough to sniff a file's encoding.
const packHeadLen = 64

// packHeader follows packMagic as a single CBOR item.
type packHeader struct {
	Codec Codec `cbor:"codec"`
	Size  int   `cbor:"size"`
}

// errIncompressible is returned by pack when the packed form would not be
// smaller than the input.
var errIncompressible = errors.New("data is incompressible")

func (c Codec) valid() bool {
	return c == CodecZstd || c == CodecLZ4
}

// pack compresses data into the packed object format.
func pack(data []byte, codec Codec) ([]byte, error) {
	var payload []byte
	switch codec {
	case CodecZstd:
		payload = zstdEncoder.EncodeAll(data, nil)
	case CodecLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 {
			return nil, errIncompressible
		}
		payload = dst[:n]
	default:
		return nil, fmt.Errorf("unsupported codec %q", codec)
	}

	header, err := cborEnc.Marshal(packHeader{Codec: codec, Size: len(data)})
	if err != nil {
		return nil, fmt.Errorf("encode pack header: %w", err)
	}

	out := make([]byte, 0, len(packMagic)+len(header)+len(payload))
	out = append(out, packMagic...)
	out = append(out, header...)
	out = append(out, payload...)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

// maxPackRatio bounds the declared size of a packed object relative to its
// payload. zstd tops out near 32768:1 on RLE blocks and lz4 near 255:1.
const maxPackRatio = 1 << 16

// errBadPackHeader marks a header whose size cannot belong to its payload.
var errBadPackHeader = errors.New("pack header size out of range")

// readPackHeader decodes the header after packMagic and returns it with the
// payload that follows.
func readPackHeader(raw []byte) (packHeader, []byte, error) {
	return parsePackHeader(raw, int64(len(raw)))
}

// parsePackHeader decodes the header at the start of raw, which may be a
// prefix of an object total bytes long.
func parsePackHeader(raw []byte, total int64) (packHeader, []byte, error) {
	var h packHeader
	if !bytes.HasPrefix(raw, packMagic) {
		return h, nil, errors.New("missing pack magic")
	}
	payload, err := cborDec.UnmarshalFirst(raw[len(packMagic):], &h)
	if err != nil {
		return h, nil, fmt.Errorf("decode pack header: %w", err)
	}
	if !h.Codec.valid() {
		return h, nil, fmt.Errorf("unsupported codec %q", h.Codec)
	}
	payloadLen := total - int64(len(raw)-len(payload))
	if h.Size < 0 || int64(h.Size) > payloadLen*maxPackRatio {
		return h, nil, fmt.Errorf("%w: %d bytes from %d", errBadPackHeader, h.Size, payloadLen)
	}
	return h, payload, nil
}

// isPacked reports whether raw carries the packed magic and a plausible header.
func isPacked(raw []byte) bool {
	_, _, err := readPackHeader(raw)
	return err == nil
}

// unpack decodes a packed object.
func unpack(raw []byte) ([]byte, error) {
	h, payload, err := readPackHeader(raw)
	if err != nil {
		return nil, err
	}

	switch h.Codec {
	case CodecZstd:
		out, err := zstdDecoder.DecodeAll(payload, make([]byte, 0, h.Size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != h.Size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(out), h.Size)
		}
		return out, nil
	default:
		out := make([]byte, h.Size)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != h.Size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, h.Size)
		}
		return out, nil
	}
}

package vcs

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// CBOR modes for packed-object headers. Core Deterministic Encoding keeps
// identical headers byte-identical.
var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

// zstd coders are safe for concurrent use and expensive to build. DecodeAll
// never grows dst past the capacity the caller sized from the pack header.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("vcs: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("vcs: CBOR decoder initialization failed: " + err.Error())
	}

	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("vcs: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true))
	if err != nil {
		panic("vcs: zstd decoder initialization failed: " + err.Error())
	}
}

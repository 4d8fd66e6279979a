package persistence

import (
	"adforge/internal/persistence/interfaces"
	"adforge/internal/structures"
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic opens every zstd frame. Values without it are stored as plain JSON.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

type ZstdCompression struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func (z *ZstdCompression) Compress(val []byte) ([]byte, error) {
	return z.encoder.EncodeAll(val, make([]byte, 0, len(val)/2)), nil
}

// Decompress passes uncompressed values through, so a store written with
// compression off stays readable after turning it on.
func (z *ZstdCompression) Decompress(val []byte) ([]byte, error) {
	if !IsCompressed(val) {
		return val, nil
	}
	return z.decoder.DecodeAll(val, nil)
}

func (z *ZstdCompression) Close() {
	_ = z.encoder.Close()
	z.decoder.Close()
}

func IsCompressed(val []byte) bool {
	return bytes.HasPrefix(val, zstdMagic)
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &ZstdCompression{encoder: encoder, decoder: decoder}, nil
}

// plainCompression stores values as they are while still decoding zstd
// values written by an earlier run.
type plainCompression struct {
	inner interfaces.CompressorInterface
}

func (p *plainCompression) Compress(val []byte) ([]byte, error) {
	return val, nil
}

func (p *plainCompression) Decompress(val []byte) ([]byte, error) {
	return p.inner.Decompress(val)
}

func (p *plainCompression) Close() {
	p.inner.Close()
}

// NewCompressor picks the codec from persistence.compress.
func NewCompressor(compress bool) (interfaces.CompressorInterface, error) {
	z, err := NewZstdCompressor()
	if err != nil {
		return nil, err
	}
	if compress {
		return z, nil
	}
	return &plainCompression{inner: z}, nil
}

func NewConfiguredCompressor(conf *structures.Config) (interfaces.CompressorInterface, error) {
	return NewCompressor(conf.Persistence.Compress)
}

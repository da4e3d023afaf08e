package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/voxelsplace/voxscene/scene"
)

// DefaultMaxBytes caps input files and their decompressed size.
const DefaultMaxBytes = 64 << 20

var ErrInputTooLarge = errors.New("input exceeds size limit")

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

type LoadOptions struct {
	// MaxBytes limits both the raw and the decompressed input. Zero means
	// DefaultMaxBytes.
	MaxBytes int64
}

func (o LoadOptions) limit() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// Decompress inflates zstd or gzip framed data, detected by magic bytes, and
// strips the matching ".zst" / ".gz" suffix from name so the inner extension
// still drives format dispatch. Other data is returned unchanged.
func Decompress(data []byte, name string, opts LoadOptions) ([]byte, string, error) {
	limit := opts.limit()
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(uint64(limit)),
		)
		if err != nil {
			return nil, name, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
				return nil, name, fmt.Errorf("zstd: %w (%d bytes)", ErrInputTooLarge, limit)
			}
			return nil, name, fmt.Errorf("zstd: %w", err)
		}
		if int64(len(out)) > limit {
			return nil, name, fmt.Errorf("zstd: %w (%d bytes)", ErrInputTooLarge, limit)
		}
		return out, strings.TrimSuffix(name, ".zst"), nil
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, name, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(io.LimitReader(zr, limit+1))
		if err != nil {
			return nil, name, fmt.Errorf("gzip: %w", err)
		}
		if int64(len(out)) > limit {
			return nil, name, fmt.Errorf("gzip: %w (%d bytes)", ErrInputTooLarge, limit)
		}
		return out, strings.TrimSuffix(name, ".gz"), nil
	}
	return data, name, nil
}

// DecodeBytes decompresses data if needed and decodes it as a scene. name is
// only used for its extension.
func DecodeBytes(data []byte, name string, opts LoadOptions) (*scene.Scene, scene.Format, error) {
	if int64(len(data)) > opts.limit() {
		return nil, scene.FormatUnknown, fmt.Errorf("%s: %w (%d bytes)", name, ErrInputTooLarge, opts.limit())
	}
	raw, inner, err := Decompress(data, name, opts)
	if err != nil {
		return nil, scene.FormatUnknown, fmt.Errorf("%s: %w", name, err)
	}
	s, f, err := scene.DecodeFormat(raw, inner)
	if err != nil {
		return nil, f, fmt.Errorf("%s: %w", name, err)
	}
	return s, f, nil
}

// LoadScene reads and decodes the scene file at path.
func LoadScene(path string, opts LoadOptions) (*scene.Scene, scene.Format, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, scene.FormatUnknown, err
	}
	if fi.Size() > opts.limit() {
		return nil, scene.FormatUnknown, fmt.Errorf("%s: %w (%d > %d bytes)", path, ErrInputTooLarge, fi.Size(), opts.limit())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scene.FormatUnknown, err
	}
	return DecodeBytes(data, filepath.Base(path), opts)
}

// Package source loads and stores the raw blobs that get decoded.
//
// Blobs may be stored as-is or compressed with zstd. Compressed blobs
// are recognized by their frame magic number, so a raw blob that
// happens to begin with those four bytes must be stored compressed.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/mmap"
)

// ErrTooLarge is returned when a blob is larger than the configured
// limit.
var ErrTooLarge = errors.New("blob too large")

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// DefaultMaxSize is the decompressed size limit used by ReadFile.
const DefaultMaxSize = 1 << 30

// IsCompressed reports whether data starts with a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// ReadFile reads the blob stored at path, decompressing it if
// necessary.
func ReadFile(path string) ([]byte, error) {
	return Options{}.ReadFile(path)
}

// WriteFile stores data at path without compression.
func WriteFile(path string, data []byte) error {
	return Options{}.WriteFile(path, data)
}

// Options controls how blobs are loaded and stored.
type Options struct {
	// Compress causes written blobs to be compressed with zstd.
	Compress bool

	// MaxSize limits the size of a loaded blob after decompression.
	// If it is zero, DefaultMaxSize is used.
	MaxSize int64
}

func (opts Options) maxSize() int64 {
	if opts.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return opts.MaxSize
}

// ReadFile reads the blob stored at path, decompressing it if
// necessary.
func (opts Options) ReadFile(path string) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer r.Close()

	if int64(r.Len()) > opts.maxSize() && !opts.compressedAt(r) {
		return nil, fmt.Errorf("%w: %v bytes", ErrTooLarge, r.Len())
	}

	data := make([]byte, r.Len())
	if len(data) > 0 {
		_, err = r.ReadAt(data, 0)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
	}

	return opts.Decompress(data)
}

func (opts Options) compressedAt(r *mmap.ReaderAt) bool {
	if r.Len() < len(zstdMagic) {
		return false
	}
	var magic [4]byte
	_, err := r.ReadAt(magic[:], 0)
	return (err == nil) && IsCompressed(magic[:])
}

// Decompress returns the blob held in data. If data is not
// compressed, it is returned unchanged.
func (opts Options) Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}

	dec, err := zstd.NewReader(
		bytes.NewReader(data),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(opts.maxSize())),
	)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(dec, opts.maxSize()+1))
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	if n > opts.maxSize() {
		return nil, fmt.Errorf("%w: more than %v bytes decompressed", ErrTooLarge, opts.maxSize())
	}

	return buf.Bytes(), nil
}

// Compress returns data compressed as a single zstd frame.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	_, err = enc.Write(data)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("compress: %w", err)
	}
	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile stores data at path, compressing it if opts.Compress is
// set. Uncompressed blobs that would be mistaken for compressed ones
// are compressed regardless.
func (opts Options) WriteFile(path string, data []byte) error {
	if opts.Compress || IsCompressed(data) {
		var err error
		data, err = Compress(data)
		if err != nil {
			return err
		}
	}

	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

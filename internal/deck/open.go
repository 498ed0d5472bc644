package deck

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/vk/keydeck/internal/format"
)

// StdinPath names standard input as a deck path.
const StdinPath = "-"

// Open reads the deck at path, or standard input for "-". Compressed input
// is decoded transparently: gzip and zstd by magic number or by a .gz or
// .zst suffix, brotli by a .br suffix. The file is closed before Open
// returns.
func Open(ctx context.Context, path string, table *format.Table, opts ...Option) (*Deck, error) {
	rc, codec, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	ctxlog.FromContext(ctx).Debug("Deck input opened.", "path", path, "compression", codec)
	d, err := Parse(ctx, rc, table, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// openReader opens path and wraps it in the matching decompressor. It
// returns the name of the codec, or "none".
func openReader(path string) (io.ReadCloser, string, error) {
	var src io.ReadCloser
	if path == StdinPath {
		src = io.NopCloser(os.Stdin)
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, "", err
		}
		src = fh
	}

	br := bufio.NewReader(src)
	sig, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(sig, gzipMagic) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			_ = src.Close()
			return nil, "", fmt.Errorf("open gzip deck %s: %w", path, err)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, src}}, "gzip", nil
	case bytes.HasPrefix(sig, zstdMagic) || strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			_ = src.Close()
			return nil, "", fmt.Errorf("open zstd deck %s: %w", path, err)
		}
		return &multiReadCloser{Reader: zr, closers: []io.Closer{closerFunc(zr.Close), src}}, "zstd", nil
	case strings.HasSuffix(path, ".br"):
		return &multiReadCloser{Reader: brotli.NewReader(br), closers: []io.Closer{src}}, "brotli", nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{src}}, "none", nil
}

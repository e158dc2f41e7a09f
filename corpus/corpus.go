package corpus

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrNotFound is returned when a corpus does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`.
var ErrNotFound = os.ErrNotExist

// maxLineSize bounds a single document.
const maxLineSize = 1 << 20

// Source opens corpora by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Dir is a Source rooted at a local directory.
type Dir string

// Open opens root/name.
func (d Dir) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

// ReadLines opens name from src and returns its non-blank lines, trimmed.
func ReadLines(ctx context.Context, src Source, name string) ([]string, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	r, err := Decompress(name, rc)
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", name, err)
	}
	defer func() { _ = r.Close() }()

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", name, err)
	}

	return lines, nil
}

// Decompress wraps r in a decoder chosen by the extension of name. Closing
// the result releases the decoder but not r.
func Decompress(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case ".gz":
		return gzip.NewReader(r)
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

package corpus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poems = "Do not go gentle into that good night\n\n  Shall I compare thee to a summer's day  \nWhat happens to a dream deferred?\n"

var want = []string{
	"Do not go gentle into that good night",
	"Shall I compare thee to a summer's day",
	"What happens to a dream deferred?",
}

func compress(t *testing.T, ext string, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w io.WriteCloser

	switch ext {
	case ".zst":
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = enc
	case ".gz":
		w = gzip.NewWriter(&buf)
	case ".lz4":
		w = lz4.NewWriter(&buf)
	default:
		return data
	}

	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadLines(t *testing.T) {
	dir := t.TempDir()

	for _, ext := range []string{".txt", ".zst", ".gz", ".lz4"} {
		t.Run(ext, func(t *testing.T) {
			name := "poems" + ext
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), compress(t, ext, []byte(poems)), 0o600))

			lines, err := ReadLines(context.Background(), Dir(dir), name)
			require.NoError(t, err)
			assert.Equal(t, want, lines)
		})
	}
}

func TestReadLinesNotFound(t *testing.T) {
	_, err := ReadLines(context.Background(), Dir(t.TempDir()), "missing.txt")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadLinesCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.gz"), []byte("not gzip"), 0o600))

	_, err := ReadLines(context.Background(), Dir(dir), "bad.gz")
	assert.Error(t, err)
}

func TestDirCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Dir(t.TempDir()).Open(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecompressPassthrough(t *testing.T) {
	r, err := Decompress("plain", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}

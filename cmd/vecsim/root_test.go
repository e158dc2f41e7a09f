package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const poems = `Do not go gentle into that good night
Shall I compare thee to a summer's day
What happens to a dream deferred?
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeCorpus(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poems.txt"), []byte(poems), 0o600))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(poems), nil)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poems.txt.zst"), compressed, 0o600))

	cfg := "corpus:\n  source: dir\n  root: " + dir + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vecsim.yaml"), []byte(cfg), 0o600))
	return dir
}

func TestBackendsCmd(t *testing.T) {
	out, err := run(t, "backends")
	require.NoError(t, err)

	assert.Contains(t, out, "Hnsw_Cosine")
	assert.Contains(t, out, "LSH")
	assert.Contains(t, out, "fall back to Cosine")
}

func TestQueryCmd(t *testing.T) {
	dir := writeCorpus(t)
	config := filepath.Join(dir, "vecsim.yaml")

	for _, name := range []string{"poems.txt", "poems.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, "query", "--config", config, "--backend", "Hnsw_L2", "--corpus", name, "-n", "5",
				"Shall I compare thee to a summer's day")
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 3)
			assert.Contains(t, lines[0], "Shall I compare thee to a summer's day")
		})
	}
}

func TestQueryCmdJSON(t *testing.T) {
	dir := writeCorpus(t)

	out, err := run(t, "query", "--config", filepath.Join(dir, "vecsim.yaml"), "--corpus", "poems.txt", "-n", "1", "--json",
		"What happens to a dream deferred?")
	require.NoError(t, err)

	var docs []struct {
		Text  string  `json:"text"`
		Score float32 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "What happens to a dream deferred?", docs[0].Text)
}

func TestQueryCmdErrors(t *testing.T) {
	dir := writeCorpus(t)
	config := filepath.Join(dir, "vecsim.yaml")

	_, err := run(t, "query", "--config", config, "text")
	assert.ErrorContains(t, err, "--corpus")

	_, err = run(t, "query", "--config", config, "--corpus", "poems.txt", "--backend", "Annoy", "--strict", "text")
	assert.ErrorContains(t, err, "unknown backend")

	_, err = run(t, "query", "--config", config, "--corpus", "missing.txt", "text")
	assert.ErrorContains(t, err, "load corpus")

	_, err = run(t, "query", "--config", config, "--corpus", "poems.txt", "--log-level", "loud", "text")
	assert.ErrorContains(t, err, "log level")

	_, err = run(t, "query", "--corpus", "poems.txt")
	assert.Error(t, err)
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/vecsim/corpus"
	"github.com/hupe1980/vecsim/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vecsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: Hnsw_Cosine
strict: true
embedder:
  kind: hashing
  dimension: 64
  cache_size: 128
corpus:
  source: dir
  root: /data
hnsw:
  m: 24
  ef_search: 80
lsh:
  tables: 10
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Hnsw_Cosine", cfg.Backend)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 64, cfg.Embedder.Dimension)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.APIKeyEnv)
	assert.Equal(t, "/data", cfg.Corpus.Root)
	assert.Equal(t, HNSWConfig{M: 24, EFSearch: 80}, cfg.HNSW)
	assert.Equal(t, 10, cfg.LSH.Tables)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [unterminated"), 0o600))
	_, err = LoadConfig(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestParseLevel(t *testing.T) {
	_, err := parseLevel("debug")
	assert.NoError(t, err)

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestEmbedderConfigBuild(t *testing.T) {
	e, err := EmbedderConfig{Kind: "hashing", Dimension: 32}.build()
	require.NoError(t, err)
	assert.Equal(t, 32, e.Dimension())

	e, err = EmbedderConfig{Kind: "hashing", CacheSize: 8}.build()
	require.NoError(t, err)
	assert.IsType(t, &embed.Cached{}, e)

	t.Setenv("VECSIM_TEST_KEY", "")
	_, err = EmbedderConfig{Kind: "openai", APIKeyEnv: "VECSIM_TEST_KEY"}.build()
	assert.Error(t, err)

	t.Setenv("VECSIM_TEST_KEY", "sk-test")
	e, err = EmbedderConfig{Kind: "openai", APIKeyEnv: "VECSIM_TEST_KEY"}.build()
	require.NoError(t, err)
	assert.IsType(t, &embed.OpenAI{}, e)

	_, err = EmbedderConfig{Kind: "word2vec"}.build()
	assert.Error(t, err)
}

func TestCorpusConfigBuild(t *testing.T) {
	ctx := context.Background()

	src, err := CorpusConfig{Source: "dir", Root: "/tmp"}.build(ctx)
	require.NoError(t, err)
	assert.Equal(t, corpus.Dir("/tmp"), src)

	_, err = CorpusConfig{Source: "s3"}.build(ctx)
	assert.Error(t, err)

	_, err = CorpusConfig{Source: "minio", Bucket: "b"}.build(ctx)
	assert.Error(t, err)

	src, err = CorpusConfig{Source: "minio", Bucket: "b", Endpoint: "localhost:9000"}.build(ctx)
	require.NoError(t, err)
	assert.NotNil(t, src)

	_, err = CorpusConfig{Source: "ftp"}.build(ctx)
	assert.Error(t, err)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/vecsim/corpus"
	corpusminio "github.com/hupe1980/vecsim/corpus/minio"
	corpuss3 "github.com/hupe1980/vecsim/corpus/s3"
	"github.com/hupe1980/vecsim/embed"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"gopkg.in/yaml.v3"
)

type EmbedderConfig struct {
	Kind      string `yaml:"kind"`
	Model     string `yaml:"model,omitempty"`
	Dimension int    `yaml:"dimension,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	CacheSize int    `yaml:"cache_size,omitempty"`
}

type CorpusConfig struct {
	Source       string `yaml:"source"`
	Root         string `yaml:"root,omitempty"`
	Bucket       string `yaml:"bucket,omitempty"`
	Prefix       string `yaml:"prefix,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	Secure       bool   `yaml:"secure,omitempty"`
	AccessKeyEnv string `yaml:"access_key_env,omitempty"`
	SecretKeyEnv string `yaml:"secret_key_env,omitempty"`
}

type HNSWConfig struct {
	M              int `yaml:"m,omitempty"`
	EFConstruction int `yaml:"ef_construction,omitempty"`
	EFSearch       int `yaml:"ef_search,omitempty"`
}

type LSHConfig struct {
	Projections int `yaml:"projections,omitempty"`
	Tables      int `yaml:"tables,omitempty"`
}

type Config struct {
	Backend  string         `yaml:"backend"`
	Strict   bool           `yaml:"strict,omitempty"`
	LogLevel string         `yaml:"log_level,omitempty"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	HNSW     HNSWConfig     `yaml:"hnsw,omitempty"`
	LSH      LSHConfig      `yaml:"lsh,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:  "Cosine",
		LogLevel: "warn",
		Embedder: EmbedderConfig{
			Kind:      "hashing",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Corpus: CorpusConfig{
			Source:       "dir",
			Root:         ".",
			AccessKeyEnv: "MINIO_ACCESS_KEY",
			SecretKeyEnv: "MINIO_SECRET_KEY",
		},
	}
}

// LoadConfig reads path over the defaults. An empty path returns the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

func (c EmbedderConfig) build() (embed.Embedder, error) {
	var opts []embed.Option
	if c.Model != "" {
		opts = append(opts, embed.WithModel(c.Model))
	}
	if c.Dimension > 0 {
		opts = append(opts, embed.WithDimension(c.Dimension))
	}
	if c.BaseURL != "" {
		opts = append(opts, embed.WithBaseURL(c.BaseURL))
	}

	var e embed.Embedder
	switch strings.ToLower(c.Kind) {
	case "", "hashing":
		e = embed.NewHashing(opts...)
	case "openai":
		key := os.Getenv(c.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("embedder openai: %s is not set", c.APIKeyEnv)
		}
		e = embed.NewOpenAI(key, opts...)
	default:
		return nil, fmt.Errorf("unknown embedder %q", c.Kind)
	}

	if c.CacheSize > 0 {
		e = embed.NewCached(e, c.CacheSize)
	}
	return e, nil
}

func (c CorpusConfig) build(ctx context.Context) (corpus.Source, error) {
	switch strings.ToLower(c.Source) {
	case "", "dir":
		return corpus.Dir(c.Root), nil
	case "s3":
		if c.Bucket == "" {
			return nil, errors.New("corpus s3: bucket is required")
		}
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("corpus s3: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if c.Endpoint != "" {
				o.BaseEndpoint = &c.Endpoint
				o.UsePathStyle = true
			}
		})
		return corpuss3.NewSource(client, c.Bucket, c.Prefix), nil
	case "minio":
		if c.Bucket == "" || c.Endpoint == "" {
			return nil, errors.New("corpus minio: bucket and endpoint are required")
		}
		client, err := minio.New(c.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv(c.AccessKeyEnv), os.Getenv(c.SecretKeyEnv), ""),
			Secure: c.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("corpus minio: %w", err)
		}
		return corpusminio.NewSource(client, c.Bucket, c.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown corpus source %q", c.Source)
	}
}

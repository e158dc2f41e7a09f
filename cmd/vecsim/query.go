package main

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/vecsim"
	"github.com/hupe1980/vecsim/index/hnsw"
	"github.com/hupe1980/vecsim/index/lsh"
	"github.com/spf13/cobra"
)

func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Query a corpus",
		Long:  `Load the corpus into the selected backend and print the closest documents, closest first.`,
		Args:  cobra.ExactArgs(1),
		RunE:  runQuery,
	}

	cmd.Flags().StringP("backend", "b", "", "Backend selector (see 'vecsim backends')")
	cmd.Flags().StringP("corpus", "c", "", "Corpus name, one document per line (.zst, .gz and .lz4 are decompressed)")
	cmd.Flags().IntP("number", "n", 3, "Maximum results")
	cmd.Flags().Bool("strict", false, "Fail on an unknown backend instead of falling back")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

// resolveConfig loads --config and applies flag overrides.
func resolveConfig(cmd *cobra.Command) (*Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := cmd.Flags().Lookup("backend"); f != nil && f.Changed {
		cfg.Backend = f.Value.String()
	}
	if f := cmd.Flags().Lookup("strict"); f != nil && f.Changed {
		cfg.Strict, _ = cmd.Flags().GetBool("strict")
	}

	return cfg, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("corpus")
	if name == "" {
		return fmt.Errorf("--corpus is required")
	}
	n, _ := cmd.Flags().GetInt("number")
	asJSON, _ := cmd.Flags().GetBool("json")

	idx, err := newIndex(cmd, cfg)
	if err != nil {
		return err
	}

	src, err := cfg.Corpus.build(cmd.Context())
	if err != nil {
		return err
	}

	if err := idx.LoadCorpus(cmd.Context(), src, name); err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	docs, err := idx.Query(cmd.Context(), args[0], n)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	if asJSON {
		out := make([]map[string]any, 0, len(docs))
		for _, d := range docs {
			out = append(out, map[string]any{
				"text":  d.Text,
				"score": d.Score,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, d := range docs {
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f  %s\n", d.Score, d.Text)
	}
	return nil
}

func newIndex(cmd *cobra.Command, cfg *Config) (*vecsim.Index, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	e, err := cfg.Embedder.build()
	if err != nil {
		return nil, err
	}

	opts := []vecsim.Option{
		vecsim.WithLogger(vecsim.NewTextLogger(level)),
		vecsim.WithHNSWOptions(func(o *hnsw.Options) {
			if cfg.HNSW.M > 0 {
				o.M = cfg.HNSW.M
			}
			if cfg.HNSW.EFConstruction > 0 {
				o.EFConstruction = cfg.HNSW.EFConstruction
			}
			if cfg.HNSW.EFSearch > 0 {
				o.EFSearch = cfg.HNSW.EFSearch
			}
		}),
		vecsim.WithLSHOptions(func(o *lsh.Options) {
			if cfg.LSH.Projections > 0 {
				o.Projections = cfg.LSH.Projections
			}
			if cfg.LSH.Tables > 0 {
				o.Tables = cfg.LSH.Tables
			}
		}),
	}
	if cfg.Strict {
		opts = append(opts, vecsim.WithStrictBackend())
	}

	return vecsim.New(cfg.Backend, e, opts...)
}

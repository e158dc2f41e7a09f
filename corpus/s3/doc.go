// Package s3 reads corpora from Amazon S3.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := s3.NewSource(awss3.NewFromConfig(cfg), "my-bucket", "corpora/")
//	lines, _ := corpus.ReadLines(ctx, src, "poems.txt.zst")
package s3

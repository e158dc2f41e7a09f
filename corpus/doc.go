// Package corpus reads text corpora, one document per line.
//
// A [Source] resolves names to byte streams. [Dir] reads from the local
// file system; the s3 and minio subpackages read from object storage.
// [ReadLines] decompresses by file extension:
//
//   - .zst   Zstandard
//   - .gz    gzip
//   - .lz4   LZ4 frame
//
// Blank lines are skipped and surrounding whitespace is trimmed.
package corpus

// Package index defines the contract every search backend satisfies and the
// plumbing they share.
//
// A backend owns a set of documents. Load embeds new texts and adds them;
// Query embeds a text and returns the n closest documents. Scores are
// distances: lower is better and results are ordered ascending.
//
// # Backends
//
//   - flat: exact brute-force scoring (Cosine, Euclidean)
//   - hnsw: approximate graph search (L2, Cosine, Dot, L1)
//   - lsh: sign-random-projection buckets re-ranked by cosine distance
//
// # Policies
//
//   - n <= 0 is ErrInvalidParameter
//   - n larger than the document count returns every document
//   - Query on an empty backend returns no documents and does not call the
//     embedder
//   - a failed Load leaves the backend unchanged
package index

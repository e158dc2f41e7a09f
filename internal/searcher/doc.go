// Package searcher holds the scratch structures used by graph traversal: a
// value-based binary heap of (node, distance) pairs and a resettable
// visited set.
package searcher

// Package hash maps text features to vector buckets.
package hash

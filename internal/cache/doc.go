// Package cache provides a small generic LRU used to memoise embeddings.
//
// Memory held by cached values can be charged against a resource.Controller;
// when the controller refuses a reservation the value is simply not cached.
package cache

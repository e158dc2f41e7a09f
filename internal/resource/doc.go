// Package resource bounds how hard the engine leans on outside systems:
// concurrent embedding calls, their request rate, and the memory held by
// caches.
package resource

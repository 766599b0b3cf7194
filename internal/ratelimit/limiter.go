// Package ratelimit throttles requests per client key, either across
// instances through Redis or inside a single process.
package ratelimit

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// Package ratelimit limits request rates per key with fixed windows.
//
// A Limiter counts hits in a Store (in memory or Redis) and Middleware
// rejects requests over the limit with 429. Storage failures fail open.
package ratelimit

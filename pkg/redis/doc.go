// Package redis wraps go-redis connection setup with retries and a health
// probe. The connected client backs the distributed tenant cache.
package redis

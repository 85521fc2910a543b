// Package cache keeps decoded PCM clips so that a symbol pressed twice is
// not decoded or synthesized twice. It has two tiers: an LRU in memory and
// a zstd-compressed store on disk that survives restarts.
package cache

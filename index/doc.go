// Package index provides the in-memory document store for the knowledge
// engine: the authoritative document set, the global inverted index used by
// keyword search, and the vector index used by semantic search.
//
// The store treats the in-memory maps as a cache over the persistence
// contract in package storage; they are never the source of truth across
// restarts. Loading rebuilds both indices through Add rather than trusting
// any persisted index fields.
package index

// Package storage defines the persistence contracts for content items,
// extraction records, chunk embeddings, and tags, plus the JSON
// serialization shared by backends.
//
// Repositories are storage-engine agnostic interfaces; the badger
// subpackage provides the embedded BadgerDB implementation.
package storage

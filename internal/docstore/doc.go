// Package docstore defines the document store contract used by the game
// engine: keyed JSON documents grouped in collections, single-document
// writes, multi-document transactions, simple queries and change
// subscriptions.
//
// Implementations live elsewhere (see internal/store for SQLite). The engine
// depends only on the interfaces here.
package docstore

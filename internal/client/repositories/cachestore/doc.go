// Package cachestore provides the persistence layer of the users cache.
//
// # Overview
//
// The package defines the Store interface: a single slot holding one
// collection of users plus the instant it was fetched. Store knows nothing
// about validity; that policy lives in internal/client/cache, the only caller
// of a Store.
//
// # Backings
//
//   - MemoryStore: process-local slot, used by tests and "memory" mode
//   - SQLStore: database/sql over SQLite (modernc.org/sqlite, on-device)
//     or Postgres (pgx stdlib, shared by several clients). The schema is applied
//     with embedded goose migrations
//   - S3Store: one JSON object in an S3-compatible bucket
//
// # Atomicity
//
// Insert replaces the stored collection as a whole: SQL backings delete and
// insert inside one transaction, S3 replaces the object with a single PUT.
// A failed Insert leaves the previous collection in place.
//
// # Errors
//
// I/O failures are reported wrapped in ErrStorageUnavailable, undecodable
// stored data in ErrCorrupt. Callers match them with errors.Is and usually
// treat both as a cache miss.
//
// Typical Usage
//
//	store, closeFn, err := cachestore.Open(ctx, cachestore.Options{Backend: cachestore.BackendSQLite, SQLitePath: "ghbrowse.db"})
//	_ = store.Insert(ctx, users, time.Now())
//	cached, _ := store.Retrieve(ctx)
//	_ = store.DeleteCachedUsers(ctx)
package cachestore

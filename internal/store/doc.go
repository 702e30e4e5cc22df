// Package store provides a SQLite-backed implementation of docstore.Store.
//
// Every document is a JSON object stored in a single `documents` table keyed
// by (collection, id), with a version counter that increments on each write.
//
// # Critical Patterns
//
// Create-if-absent idempotency:
//   - Create uses INSERT ... ON CONFLICT(collection, id) DO NOTHING
//   - Writing a deterministically-identified document twice keeps the first
//
// Atomic multi-document writes:
//   - RunTransaction wraps one IMMEDIATE SQLite transaction
//   - Lock contention (SQLITE_BUSY / SQLITE_LOCKED) surfaces as
//     docstore.ErrConflict; nothing from the failed attempt is visible
//
// Deterministic query results:
//   - All queries include ORDER BY id COLLATE BINARY ASC
//
// Validation before write:
//   - An optional docstore.Validator sees the full body of every write,
//     including the merged result of Merge and Update
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - _txlock=immediate: Take the write lock at BEGIN
//
// Subscriptions are notified after commit for writes made through this
// Store. Writes from other processes are observed when a poll interval is
// configured with WithPollInterval.
package store

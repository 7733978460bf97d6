// Package repository defines the data access interfaces for c4dsl.
//
// The only persisted entity is the validation Run: every validation handled
// by the service layer is recorded with a digest of its source so identical
// inputs can be found again. The implementation lives in the sqlite
// subpackage.
//
// # SQLite Implementation
//
// The sqlite implementation uses the pure-Go modernc.org/sqlite driver with
// WAL mode for file databases. Findings are stored as JSON columns, and the
// schema is migrated on startup.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository

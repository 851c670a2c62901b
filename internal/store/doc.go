// Package store provides a SQLite-backed catalog of saved query definitions.
//
// Each row holds one definition together with the builder configuration it
// renders with, encoded as JSON. Rows are keyed by name; saving a name that
// already exists replaces the body, keeps the id and bumps the revision.
//
// # Ordering
//
// Listing queries use ORDER BY name COLLATE BINARY so results are identical
// on every platform, whatever the locale.
//
// # Names
//
// Names are normalised to Unicode NFC before every read and write, so
// "café" typed with a combining accent finds the row saved with a
// precomposed é.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

// Package store persists imported reference logs and verification runs in
// SQLite.
//
// Reference entries are keyed by user and logged position; importing a user
// again replaces that user's entries. Imports are serialized through a lock
// file next to the database so two CLI invocations cannot interleave a
// replacement. Verification runs keep per-user results and the structured
// mismatches that produced them.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema and re-import their exports.
package store

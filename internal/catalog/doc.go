// Package catalog loads the ordered video list that defines the pair universe.
//
// Catalog files come in two shapes: a bare JSON array of paths, or an object
// carrying version, generated_at, hash, and files. Order is preserved exactly
// as stored since it decides which pair each ordinal names. Resolve can
// substitute a configured last-known-good list when the file is unavailable;
// the substitution is flagged on the returned Document so callers surface it.
//
// The package also computes the list hash the web client records with each
// response and generates catalog documents from a video directory.
package catalog

// Package preflight provides readiness checks for the filesystem paths,
// catalog, and database that cgreplay depends on.
//
// The CLI "cgreplay check" command prints every result; "cgreplay serve"
// runs the same checks at startup and refuses to start when the catalog
// cannot produce a session.
package preflight

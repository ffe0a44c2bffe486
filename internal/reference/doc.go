// Package reference reads the pairs participants were actually shown, as
// logged at session time.
//
// Records come from a JSON fixture file keyed by user identifier or from the
// study's response export (CSV, or XLSX via excelize). Each record keeps its
// entries in logged order so they can be compared position by position with a
// reproduced session.
package reference

// Package record stores line-oriented text records. A record's identity is its
// exact text, so callers select, match and delete by value.
package record

import "context"

// Lines is one named store of text records kept in append order.
type Lines interface {
	// Name identifies the store within its backend.
	Name() string
	// Exists reports whether the store has been created.
	Exists(ctx context.Context) (bool, error)
	// ReadAll returns every non-blank record, trimmed, in append order. A
	// store that does not exist yet reads as empty.
	ReadAll(ctx context.Context) ([]string, error)
	// Append adds one record to the end of the store, creating it if needed.
	Append(ctx context.Context, line string) error
	// Rewrite keeps only the records for which keep returns true and reports
	// how many were dropped. The store is left untouched when nothing is
	// dropped. Rewriting a missing store fails with errs.NotFound.
	Rewrite(ctx context.Context, keep func(line string) bool) (int, error)
}

// Backend opens named stores.
type Backend interface {
	Open(name string) Lines
	Close() error
}

package migrate

import "context"

// Connection is the wire capability the migration engine consumes. Results
// are JSON-shaped and decode into out, which must be a pointer.
// Implementations live in their own subpackages (see edgehttp); this
// package never dials anything itself.
//
// A single migration session owns its Connection exclusively: every call is
// one sequential round-trip, and no two calls are ever issued concurrently
// on the same connection.
type Connection interface {
	// Execute runs a statement that produces no result.
	Execute(ctx context.Context, stmt string) error

	// QueryOne runs a query expected to produce exactly one result and
	// decodes it into out.
	QueryOne(ctx context.Context, query string, out interface{}, args ...interface{}) error

	// QueryOneOpt is QueryOne for queries that may legitimately produce
	// nothing. It reports whether a result was present.
	QueryOneOpt(ctx context.Context, query string, out interface{}, args ...interface{}) (bool, error)

	// Query runs a query and decodes every result into out, a pointer to
	// a slice.
	Query(ctx context.Context, query string, out interface{}, args ...interface{}) error
}

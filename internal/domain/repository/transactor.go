package repository

import "context"

// Transactor runs a unit of work. Repositories called with the context passed to fn
// take part in the same transaction; returning an error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

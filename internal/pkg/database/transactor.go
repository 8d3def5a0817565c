package database

import "context"

// Transactor runs fn inside one store transaction. Repositories called with the
// ctx passed to fn take part in that transaction; an error from fn rolls it back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

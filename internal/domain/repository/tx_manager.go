package repository

import "context"

// TransactionManager runs fn inside one database transaction. Repositories
// called with txCtx join that transaction; returning an error rolls it back.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

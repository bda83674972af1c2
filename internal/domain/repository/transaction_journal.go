package repository

import (
	"context"

	"github.com/damon-houk/finance-ledger/internal/domain/entity"
)

// TransactionJournal defines durable storage that mirrors ledger mutations
type TransactionJournal interface {
	// Record saves a newly added transaction
	Record(ctx context.Context, tx *entity.Transaction) error

	// Remove deletes a transaction by ID; removing an unknown ID is not an error
	Remove(ctx context.Context, id string) error

	// LoadAll returns every recorded transaction, newest first
	LoadAll(ctx context.Context) ([]*entity.Transaction, error)
}

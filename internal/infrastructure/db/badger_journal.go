package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const txPrefix = "tx:"

// BadgerJournal implements the transaction journal interface using BadgerDB.
// It also acts as a ledger observer so every mutation is mirrored to disk.
type BadgerJournal struct {
	db *badger.DB
}

// NewBadgerJournal creates a new BadgerDB transaction journal
func NewBadgerJournal(db *badger.DB) *BadgerJournal {
	return &BadgerJournal{db: db}
}

// OpenBadger opens (or creates) a Badger database in dir with its own logging disabled
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// txKey pads numeric IDs so that key order follows creation order
func txKey(id string) []byte {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && n >= 0 {
		return []byte(fmt.Sprintf("%s%020d", txPrefix, n))
	}
	return []byte(txPrefix + id)
}

// Record saves a transaction
func (j *BadgerJournal) Record(ctx context.Context, tx *entity.Transaction) error {
	// Serialize transaction to JSON
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(txKey(tx.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}

	return nil
}

// Remove deletes a transaction by ID
func (j *BadgerJournal) Remove(ctx context.Context, id string) error {
	err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(txKey(id))
	})
	if err != nil {
		return fmt.Errorf("failed to remove transaction: %w", err)
	}

	return nil
}

// LoadAll returns every stored transaction, newest first
func (j *BadgerJournal) LoadAll(ctx context.Context) ([]*entity.Transaction, error) {
	var txs []*entity.Transaction

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(txPrefix)
		// seeking in reverse needs a key past the last one with the prefix
		for it.Seek([]byte(txPrefix + "\xff")); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var tx entity.Transaction
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			})
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", it.Item().Key(), err)
			}
			txs = append(txs, &tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return txs, nil
}

// TransactionAdded mirrors an added transaction
func (j *BadgerJournal) TransactionAdded(ctx context.Context, tx entity.Transaction) error {
	return j.Record(ctx, &tx)
}

// TransactionDeleted mirrors a deleted transaction
func (j *BadgerJournal) TransactionDeleted(ctx context.Context, id string) error {
	return j.Remove(ctx, id)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/damon-houk/finance-ledger/internal/application/requestid"
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/domain/repository"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// LedgerObserver is notified after every committed ledger mutation, in commit order
// and off the ledger lock. Errors are logged and never undo the mutation.
type LedgerObserver interface {
	TransactionAdded(ctx context.Context, tx entity.Transaction) error
	TransactionDeleted(ctx context.Context, id string) error
}

// LedgerService owns the ordered, newest-first list of transactions
type LedgerService struct {
	mu           sync.RWMutex
	transactions []entity.Transaction
	lastID       int64
	now          func() time.Time
	queues       []*observerQueue
	closed       bool
	logger       logger.Logger
}

// NewLedgerService creates an empty ledger
func NewLedgerService(log logger.Logger, observers ...LedgerObserver) *LedgerService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	s := &LedgerService{
		now:    time.Now,
		logger: log,
	}
	for _, o := range observers {
		s.queues = append(s.queues, newObserverQueue(o, log))
	}

	return s
}

// Add records a new movement at the head of the ledger.
// Title and kind are trusted; only an unparseable amount is rejected, leaving the ledger untouched.
// A zero date means today.
func (s *LedgerService) Add(ctx context.Context, title, rawAmount string, kind entity.Kind, date entity.Date) (entity.Transaction, error) {
	requestID := requestid.From(ctx)

	magnitude, err := entity.ParseMagnitude(rawAmount)
	if err != nil {
		s.logger.Warn("Rejected transaction with unparseable amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     rawAmount,
		})
		return entity.Transaction{}, err
	}

	amount := magnitude
	if kind == entity.KindExpense {
		amount = amount.Neg()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if date.IsZero() {
		date = entity.DateOf(now)
	}

	tx := entity.Transaction{
		ID:          s.nextID(now),
		Kind:        kind,
		Title:       title,
		Amount:      amount.InexactFloat64(),
		OccurredAt:  date,
		DisplayTint: kind.Tint(),
	}

	s.transactions = slices.Insert(s.transactions, 0, tx)

	s.logger.Info("Transaction added", map[string]interface{}{
		"request_id": requestID,
		"id":         tx.ID,
		"kind":       tx.Kind,
		"amount":     tx.Amount,
		"date":       tx.OccurredAt.String(),
	})

	s.notify(ctx, mutation{added: &tx})

	return tx, nil
}

// Delete removes the transaction with the given ID; unknown IDs are ignored
func (s *LedgerService) Delete(ctx context.Context, id string) {
	requestID := requestid.From(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Debug("Delete of unknown transaction ignored", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
		})
		return
	}

	s.transactions = slices.Delete(s.transactions, idx, idx+1)

	s.logger.Info("Transaction deleted", map[string]interface{}{
		"request_id": requestID,
		"id":         id,
	})

	s.notify(ctx, mutation{deletedID: id})
}

// notify queues a mutation for every observer; callers hold s.mu.
// The request context is detached from cancellation so delivery outlives the request.
func (s *LedgerService) notify(ctx context.Context, m mutation) {
	if s.closed {
		s.logger.Warn("Ledger closed, observers not notified", map[string]interface{}{
			"request_id": requestid.From(ctx),
		})
		return
	}

	m.ctx = context.WithoutCancel(ctx)
	for _, q := range s.queues {
		q.push(m)
	}
}

// Flush waits until observers have seen every mutation committed so far
func (s *LedgerService) Flush() {
	for _, q := range s.queues {
		q.flush()
	}
}

// Close delivers pending notifications and stops the observer goroutines.
// Later mutations still apply but are not observed.
func (s *LedgerService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	for _, q := range s.queues {
		q.close()
	}
}

// Transactions returns a copy of the ledger, newest first
func (s *LedgerService) Transactions() []entity.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.transactions)
}

// Get returns the transaction with the given ID
func (s *LedgerService) Get(id string) (entity.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Transaction{}, false
	}
	return s.transactions[idx], true
}

// Len returns the number of transactions in the ledger
func (s *LedgerService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.transactions)
}

// Restore loads previously journaled transactions into an empty ledger.
// Observers are not notified; invalid or duplicate records are skipped.
func (s *LedgerService) Restore(ctx context.Context, journal repository.TransactionJournal) (int, error) {
	records, err := journal.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load journal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.transactions) > 0 {
		return 0, errors.New("restore requires an empty ledger")
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}

		if err := rec.Validate(); err != nil {
			s.logger.Warn("Skipping invalid journal record", map[string]interface{}{
				"id":    rec.ID,
				"error": err.Error(),
			})
			continue
		}

		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}

		if n, err := strconv.ParseInt(rec.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}

		s.transactions = append(s.transactions, *rec)
	}

	s.logger.Info("Ledger restored from journal", map[string]interface{}{
		"count": len(s.transactions),
	})

	return len(s.transactions), nil
}

// nextID derives an ID from the clock, bumping it when the clock has not moved past the last one
func (s *LedgerService) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	return strconv.FormatInt(id, 10)
}

func (s *LedgerService) indexOf(id string) int {
	return slices.IndexFunc(s.transactions, func(tx entity.Transaction) bool {
		return tx.ID == id
	})
}

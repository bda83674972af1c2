package service

import (
	"context"
	"errors"

	"github.com/damon-houk/finance-ledger/internal/application/requestid"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/cache"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/google/uuid"
)

var ErrConfirmationNotFound = errors.New("confirmation not found or expired")

// DeletionService runs the two-step delete: request a confirmation, then confirm or cancel it
type DeletionService struct {
	ledger  *LedgerService
	pending *cache.ConfirmationCache
	logger  logger.Logger
}

// NewDeletionService creates a deletion service bound to the ledger
func NewDeletionService(ledger *LedgerService, pending *cache.ConfirmationCache, log logger.Logger) *DeletionService {
	if ledger == nil {
		panic("service: NewDeletionService requires a ledger")
	}

	if pending == nil {
		pending = cache.NewConfirmationCache(0)
	}

	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &DeletionService{
		ledger:  ledger,
		pending: pending,
		logger:  log,
	}
}

// Request starts a delete confirmation for an existing transaction
func (s *DeletionService) Request(ctx context.Context, id string) (cache.Confirmation, error) {
	if _, ok := s.ledger.Get(id); !ok {
		return cache.Confirmation{}, ErrTransactionNotFound
	}

	c := s.pending.Put(uuid.New().String(), id)

	s.logger.Info("Delete confirmation requested", map[string]interface{}{
		"request_id": requestid.From(ctx),
		"id":         id,
		"token":      c.Token,
		"expires_at": c.ExpiresAt,
	})

	return c, nil
}

// Confirm commits the pending delete; the token is consumed
func (s *DeletionService) Confirm(ctx context.Context, token string) (string, error) {
	c, ok := s.pending.Take(token)
	if !ok {
		return "", ErrConfirmationNotFound
	}

	s.ledger.Delete(ctx, c.TransactionID)

	return c.TransactionID, nil
}

// Cancel abandons the pending delete; a cancelled token can no longer be confirmed
func (s *DeletionService) Cancel(ctx context.Context, token string) {
	s.pending.Remove(token)

	s.logger.Debug("Delete confirmation cancelled", map[string]interface{}{
		"request_id": requestid.From(ctx),
		"token":      token,
	})
}

// Sweep drops expired confirmations and returns how many were removed
func (s *DeletionService) Sweep() int {
	return s.pending.CleanExpired()
}

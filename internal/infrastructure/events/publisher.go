// Package events publishes ledger mutations to a message broker.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/damon-houk/finance-ledger/internal/application/requestid"
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
)

// Publisher sends a message body under a routing key
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// LedgerEventPublisher turns ledger mutations into LedgerEvent messages
type LedgerEventPublisher struct {
	publisher  Publisher
	routingKey string
	now        func() time.Time
	logger     logger.Logger
}

// NewLedgerEventPublisher creates a publisher that acts as a ledger observer
func NewLedgerEventPublisher(publisher Publisher, routingKey string, log logger.Logger) *LedgerEventPublisher {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &LedgerEventPublisher{
		publisher:  publisher,
		routingKey: routingKey,
		now:        time.Now,
		logger:     log,
	}
}

// TransactionAdded publishes a transaction.added event
func (p *LedgerEventPublisher) TransactionAdded(ctx context.Context, tx entity.Transaction) error {
	return p.publish(ctx, &LedgerEvent{
		Type:          TransactionAdded,
		TransactionID: tx.ID,
		Transaction:   &tx,
		Timestamp:     p.now().UTC(),
	})
}

// TransactionDeleted publishes a transaction.deleted event
func (p *LedgerEventPublisher) TransactionDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, &LedgerEvent{
		Type:          TransactionDeleted,
		TransactionID: id,
		Timestamp:     p.now().UTC(),
	})
}

func (p *LedgerEventPublisher) publish(ctx context.Context, e *LedgerEvent) error {
	body, err := e.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.publisher.Publish(ctx, p.routingKey, body); err != nil {
		return err
	}

	p.logger.Debug("Published ledger event", map[string]interface{}{
		"request_id":  requestid.From(ctx),
		"type":        e.Type,
		"id":          e.TransactionID,
		"routing_key": p.routingKey,
	})

	return nil
}

package events

import (
	"encoding/json"
	"time"

	"github.com/damon-houk/finance-ledger/internal/domain/entity"
)

// Event types published on the ledger exchange
const (
	TransactionAdded   = "transaction.added"
	TransactionDeleted = "transaction.deleted"
)

// LedgerEvent describes one committed ledger mutation
type LedgerEvent struct {
	Type          string              `json:"type"`
	TransactionID string              `json:"transaction_id"`
	Transaction   *entity.Transaction `json:"transaction,omitempty"`
	Timestamp     time.Time           `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

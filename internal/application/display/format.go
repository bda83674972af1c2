// Package display renders ledger values the way the list view shows them.
package display

import (
	"fmt"
	"strconv"

	"github.com/damon-houk/finance-ledger/internal/domain/entity"
)

// Spanish (es-ES) short month names
var monthAbbrev = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sept", "oct", "nov", "dic",
}

// FormatDate renders a date as "dd mmm yyyy", e.g. "10 sept 2025"
func FormatDate(d entity.Date) string {
	return fmt.Sprintf("%02d %s %d", d.Day(), monthAbbrev[d.Month()-1], d.Year())
}

// FormatAmount renders a signed amount with an explicit sign and a trailing "$"
func FormatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	if amount > 0 {
		s = "+" + s
	}
	return s + "$"
}

// Item is a transaction together with its rendered fields
type Item struct {
	entity.Transaction
	DisplayDate   string `json:"display_date"`
	DisplayAmount string `json:"display_amount"`
}

// NewItem renders a transaction for the list view
func NewItem(tx entity.Transaction) Item {
	return Item{
		Transaction:   tx,
		DisplayDate:   FormatDate(tx.OccurredAt),
		DisplayAmount: FormatAmount(tx.Amount),
	}
}

// Items renders a whole snapshot, keeping its order
func Items(txs []entity.Transaction) []Item {
	items := make([]Item, 0, len(txs))
	for _, tx := range txs {
		items = append(items, NewItem(tx))
	}
	return items
}

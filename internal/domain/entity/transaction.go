package entity

import (
	"errors"
	"math"
	"strings"
)

// Kind tells whether a movement brings money in or takes it out
type Kind string

const (
	// KindIncome is an incoming movement ("ingreso")
	KindIncome Kind = "ingreso"
	// KindExpense is an outgoing movement ("gasto")
	KindExpense Kind = "gasto"
)

// Display tints assigned at creation time
const (
	IncomeTint  = "#e5ffe5ff"
	ExpenseTint = "#ffe7e7ff"
)

var (
	ErrEmptyTitle    = errors.New("title must not be empty")
	ErrInvalidKind   = errors.New("kind must be ingreso or gasto")
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrSignMismatch  = errors.New("amount sign does not match kind")
)

// ParseKind converts a wire tag into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Tint returns the presentation color token for the kind
func (k Kind) Tint() string {
	if k == KindIncome {
		return IncomeTint
	}
	return ExpenseTint
}

// Transaction represents a single income or expense movement
type Transaction struct {
	ID          string  `json:"id"`
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	OccurredAt  Date    `json:"occurred_at"`
	DisplayTint string  `json:"display_tint"`
}

// Magnitude returns the unsigned amount of the movement
func (t *Transaction) Magnitude() float64 {
	return math.Abs(t.Amount)
}

// Validate ensures the transaction is internally consistent
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return errors.New("id must not be empty")
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}

	if !t.Kind.Valid() {
		return ErrInvalidKind
	}

	if t.Amount == 0 || math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return ErrInvalidAmount
	}

	if (t.Kind == KindExpense) != (t.Amount < 0) {
		return ErrSignMismatch
	}

	return nil
}

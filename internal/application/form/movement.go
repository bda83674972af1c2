// Package form validates a captured movement before it reaches the ledger.
package form

import (
	"errors"
	"strings"

	"github.com/damon-houk/finance-ledger/internal/domain/entity"
)

var (
	ErrMissingTitleAndAmount = errors.New("title and amount are required")
	ErrMissingTitle          = errors.New("title is required")
	ErrMissingAmount         = errors.New("amount is required")
	ErrInvalidAmount         = errors.New("amount must be a valid positive number")
	ErrMissingKind           = errors.New("kind must be selected (ingreso or gasto)")
	ErrInvalidDate           = errors.New("date must be in YYYY-MM-DD format")
)

// Movement is the raw input of the capture form
type Movement struct {
	Title  string `json:"title"`
	Amount string `json:"amount"`
	Kind   string `json:"kind"`
	Date   string `json:"date,omitempty"`
}

// Valid is a movement that passed validation and can be handed to the ledger
type Valid struct {
	Title  string
	Amount string
	Kind   entity.Kind
	Date   entity.Date
}

// Validate checks the movement field by field; the first failure is returned.
// An empty date is left zero so the ledger uses today.
func (m Movement) Validate() (Valid, error) {
	title := strings.TrimSpace(m.Title)
	amount := strings.TrimSpace(m.Amount)

	switch {
	case title == "" && amount == "":
		return Valid{}, ErrMissingTitleAndAmount
	case title == "":
		return Valid{}, ErrMissingTitle
	case amount == "":
		return Valid{}, ErrMissingAmount
	}

	if _, err := entity.ParseMagnitude(amount); err != nil {
		return Valid{}, ErrInvalidAmount
	}

	kind, err := entity.ParseKind(m.Kind)
	if err != nil {
		return Valid{}, ErrMissingKind
	}

	var date entity.Date
	if d := strings.TrimSpace(m.Date); d != "" {
		date, err = entity.ParseDate(d)
		if err != nil {
			return Valid{}, ErrInvalidDate
		}
	}

	return Valid{
		Title:  title,
		Amount: amount,
		Kind:   kind,
		Date:   date,
	}, nil
}

// IsValidationError reports whether err belongs to the form taxonomy
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingTitleAndAmount,
		ErrMissingTitle,
		ErrMissingAmount,
		ErrInvalidAmount,
		ErrMissingKind,
		ErrInvalidDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

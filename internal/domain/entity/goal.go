package entity

import (
	"errors"
	"math"
	"strings"
	"time"
)

var ErrInvalidTarget = errors.New("target must be a positive value")

// Goal represents a savings target and how much has been put towards it
type Goal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Target    float64   `json:"target"`
	Saved     float64   `json:"saved"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate ensures the goal meets all requirements
func (g *Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}

	if g.Target <= 0 || math.IsInf(g.Target, 0) || math.IsNaN(g.Target) {
		return ErrInvalidTarget
	}

	if g.Saved < 0 {
		return errors.New("saved amount must not be negative")
	}

	return nil
}

// Completed reports whether the saved amount reached the target
func (g *Goal) Completed() bool {
	return g.Saved >= g.Target
}

// ProgressPercent returns the rounded share of the target already saved, in [0, 100]
func (g *Goal) ProgressPercent() int {
	if g.Target <= 0 {
		return 0
	}

	p := math.Round(g.Saved / g.Target * 100)
	return int(math.Max(0, math.Min(100, p)))
}

package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/damon-houk/finance-ledger/internal/application/requestid"
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrGoalNotFound = errors.New("goal not found")

// GoalService keeps savings goals in memory, in creation order
type GoalService struct {
	mu     sync.RWMutex
	goals  []entity.Goal
	now    func() time.Time
	logger logger.Logger
}

// NewGoalService creates an empty goal service
func NewGoalService(log logger.Logger) *GoalService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &GoalService{
		now:    time.Now,
		logger: log,
	}
}

// Create adds a new goal with nothing saved yet
func (s *GoalService) Create(ctx context.Context, title, rawTarget string) (entity.Goal, error) {
	target, err := entity.ParseMagnitude(rawTarget)
	if err != nil {
		return entity.Goal{}, entity.ErrInvalidTarget
	}

	g := entity.Goal{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(title),
		Target:    target.InexactFloat64(),
		CreatedAt: s.now().UTC(),
	}

	if err := g.Validate(); err != nil {
		return entity.Goal{}, err
	}

	s.mu.Lock()
	s.goals = append(s.goals, g)
	s.mu.Unlock()

	s.logger.Info("Goal created", map[string]interface{}{
		"request_id": requestid.From(ctx),
		"id":         g.ID,
		"target":     g.Target,
	})

	return g, nil
}

// Contribute adds a positive amount to the saved total of a goal
func (s *GoalService) Contribute(ctx context.Context, id, rawAmount string) (entity.Goal, error) {
	amount, err := entity.ParseMagnitude(rawAmount)
	if err != nil {
		return entity.Goal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Goal{}, ErrGoalNotFound
	}

	g := &s.goals[idx]
	g.Saved = decimal.NewFromFloat(g.Saved).Add(amount).InexactFloat64()

	s.logger.Info("Goal contribution recorded", map[string]interface{}{
		"request_id": requestid.From(ctx),
		"id":         id,
		"amount":     amount.InexactFloat64(),
		"saved":      g.Saved,
		"completed":  g.Completed(),
	})

	return *g, nil
}

// List returns a copy of all goals
func (s *GoalService) List() []entity.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.goals)
}

// Delete removes a goal; unknown IDs are ignored
func (s *GoalService) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		s.goals = slices.Delete(s.goals, idx, idx+1)
		s.logger.Info("Goal deleted", map[string]interface{}{
			"request_id": requestid.From(ctx),
			"id":         id,
		})
	}
}

func (s *GoalService) indexOf(id string) int {
	return slices.IndexFunc(s.goals, func(g entity.Goal) bool {
		return g.ID == id
	})
}

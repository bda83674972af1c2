package service

import (
	"context"
	"io"
	"testing"

	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/damon-houk/finance-ledger/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalService(t *testing.T) {
	ctx := context.Background()
	goals := NewGoalService(logger.NewJSONLogger(io.Discard, logger.InfoLevel))

	t.Run("Create and contribute", func(t *testing.T) {
		g, err := goals.Create(ctx, "Vacaciones", "500")
		require.NoError(t, err)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, 500.0, g.Target)
		assert.Equal(t, 0.0, g.Saved)

		g, err = goals.Contribute(ctx, g.ID, "150")
		require.NoError(t, err)
		assert.Equal(t, 150.0, g.Saved)
		assert.Equal(t, 30, g.ProgressPercent())

		g, err = goals.Contribute(ctx, g.ID, "350.10")
		require.NoError(t, err)
		assert.Equal(t, 500.1, g.Saved)
		assert.True(t, g.Completed())
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := goals.Create(ctx, "  ", "100")
		assert.ErrorIs(t, err, entity.ErrEmptyTitle)

		_, err = goals.Create(ctx, "Laptop", "0")
		assert.ErrorIs(t, err, entity.ErrInvalidTarget)

		_, err = goals.Contribute(ctx, "missing", "10")
		assert.ErrorIs(t, err, ErrGoalNotFound)

		_, err = goals.Create(ctx, "Laptop", "1e400")
		assert.ErrorIs(t, err, entity.ErrInvalidTarget)
	})

	t.Run("Out of range contributions keep the goal intact", func(t *testing.T) {
		g, err := goals.Create(ctx, "Moto", "100")
		require.NoError(t, err)

		for _, raw := range []string{"1e400", "1e-400"} {
			_, err = goals.Contribute(ctx, g.ID, raw)
			assert.ErrorIs(t, err, entity.ErrInvalidAmount)
		}

		g, err = goals.Contribute(ctx, g.ID, "40")
		require.NoError(t, err)
		assert.Equal(t, 40.0, g.Saved)
	})

	t.Run("List keeps creation order and delete is idempotent", func(t *testing.T) {
		svc := NewGoalService(logger.NewJSONLogger(io.Discard, logger.InfoLevel))
		a, _ := svc.Create(ctx, "Laptop", "1000")
		b, _ := svc.Create(ctx, "Fondo de emergencia", "300")

		list := svc.List()
		require.Len(t, list, 2)
		assert.Equal(t, a.ID, list[0].ID)
		assert.Equal(t, b.ID, list[1].ID)

		svc.Delete(ctx, a.ID)
		svc.Delete(ctx, a.ID)

		list = svc.List()
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
	})
}

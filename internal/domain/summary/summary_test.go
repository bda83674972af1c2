package summary

import (
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func income(title string, amount float64) entity.Transaction {
	return entity.Transaction{Kind: entity.KindIncome, Title: title, Amount: amount}
}

func expense(title string, amount float64) entity.Transaction {
	return entity.Transaction{Kind: entity.KindExpense, Title: title, Amount: -amount}
}

func TestSummarize(t *testing.T) {
	t.Run("Empty ledger", func(t *testing.T) {
		s := Summarize(nil)
		assert.Equal(t, Summary{}, s)
	})

	t.Run("Income and expense", func(t *testing.T) {
		txs := []entity.Transaction{expense("Gasolina", 25), income("Pago", 200)}

		s := Summarize(txs)
		assert.Equal(t, 2, s.Count)
		assert.Equal(t, 200.0, s.TotalIncome)
		assert.Equal(t, 25.0, s.TotalExpense)
		assert.Equal(t, 175.0, s.NetSavings)
		assert.Equal(t, 175.0, s.VisibleSavings)
		assert.Equal(t, 88, s.SavingsPercent)
	})

	t.Run("Expenses only", func(t *testing.T) {
		txs := []entity.Transaction{expense("Pizza", 15), expense("Cine", 8)}

		s := Summarize(txs)
		assert.Equal(t, 0.0, s.TotalIncome)
		assert.Equal(t, 23.0, s.TotalExpense)
		assert.Equal(t, -23.0, s.NetSavings)
		assert.Equal(t, 0.0, s.VisibleSavings)
		assert.Equal(t, 0, s.SavingsPercent)
	})

	t.Run("Overspent", func(t *testing.T) {
		txs := []entity.Transaction{expense("Renta", 300), income("Pago", 200)}

		assert.Equal(t, -100.0, NetSavings(txs))
		assert.Equal(t, 0.0, VisibleSavings(txs))
		assert.Equal(t, 0, SavingsPercent(txs))
	})

	t.Run("Nothing spent", func(t *testing.T) {
		txs := []entity.Transaction{income("Pago", 200)}
		assert.Equal(t, 100, SavingsPercent(txs))
	})
}

func TestKindDecidesBucket(t *testing.T) {
	// A record whose sign disagrees with its kind still counts by kind
	txs := []entity.Transaction{{Kind: entity.KindExpense, Title: "Odd", Amount: 10}}

	assert.Equal(t, 0.0, TotalIncome(txs))
	assert.Equal(t, 10.0, TotalExpense(txs))
}

func TestDecimalSums(t *testing.T) {
	txs := []entity.Transaction{income("a", 0.1), income("b", 0.2), expense("c", 0.3)}

	assert.Equal(t, 0.3, TotalIncome(txs))
	assert.Equal(t, 0.0, NetSavings(txs))
}

func TestAggregateProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for round := 0; round < 200; round++ {
		var txs []entity.Transaction
		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			amount := float64(rng.Intn(100000)+1) / 100
			if rng.Intn(2) == 0 {
				txs = append(txs, income(strconv.Itoa(i), amount))
			} else {
				txs = append(txs, expense(strconv.Itoa(i), amount))
			}
		}

		s := Summarize(txs)
		assert.InDelta(t, s.NetSavings, s.TotalIncome-s.TotalExpense, 1e-9)
		assert.GreaterOrEqual(t, s.TotalIncome, 0.0)
		assert.GreaterOrEqual(t, s.TotalExpense, 0.0)
		assert.GreaterOrEqual(t, s.VisibleSavings, 0.0)
		assert.GreaterOrEqual(t, s.SavingsPercent, 0)
		assert.LessOrEqual(t, s.SavingsPercent, 100)
		if s.TotalIncome == 0 {
			assert.Equal(t, 0, s.SavingsPercent)
		}
	}
}

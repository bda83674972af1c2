// Package summary computes the derived figures shown on the home and analytics views.
// Every function works on a snapshot and recomputes from scratch; nothing is cached.
package summary

import (
	"github.com/damon-houk/finance-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary bundles every aggregate of a ledger snapshot
type Summary struct {
	Count          int     `json:"count"`
	TotalIncome    float64 `json:"total_income"`
	TotalExpense   float64 `json:"total_expense"`
	NetSavings     float64 `json:"net_savings"`
	VisibleSavings float64 `json:"visible_savings"`
	SavingsPercent int     `json:"savings_percent"`
}

// Summarize computes all aggregates in one pass over the snapshot
func Summarize(txs []entity.Transaction) Summary {
	income, expense := totals(txs)
	net := income.Sub(expense)

	return Summary{
		Count:          len(txs),
		TotalIncome:    income.InexactFloat64(),
		TotalExpense:   expense.InexactFloat64(),
		NetSavings:     net.InexactFloat64(),
		VisibleSavings: decimal.Max(net, decimal.Zero).InexactFloat64(),
		SavingsPercent: percent(net, income),
	}
}

// TotalIncome is the sum of all income amounts
func TotalIncome(txs []entity.Transaction) float64 {
	income, _ := totals(txs)
	return income.InexactFloat64()
}

// TotalExpense is the sum of the magnitudes of all expenses
func TotalExpense(txs []entity.Transaction) float64 {
	_, expense := totals(txs)
	return expense.InexactFloat64()
}

// NetSavings is income minus expense; it may be negative
func NetSavings(txs []entity.Transaction) float64 {
	income, expense := totals(txs)
	return income.Sub(expense).InexactFloat64()
}

// VisibleSavings is NetSavings floored at zero
func VisibleSavings(txs []entity.Transaction) float64 {
	income, expense := totals(txs)
	return decimal.Max(income.Sub(expense), decimal.Zero).InexactFloat64()
}

// SavingsPercent is the rounded share of income that was kept, clamped to [0, 100].
// It is 0 when there is no income.
func SavingsPercent(txs []entity.Transaction) int {
	income, expense := totals(txs)
	return percent(income.Sub(expense), income)
}

// totals buckets by kind; the amount sign is ignored
func totals(txs []entity.Transaction) (income, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for i := range txs {
		magnitude := decimal.NewFromFloat(txs[i].Magnitude())
		switch txs[i].Kind {
		case entity.KindIncome:
			income = income.Add(magnitude)
		case entity.KindExpense:
			expense = expense.Add(magnitude)
		}
	}
	return income, expense
}

func percent(net, income decimal.Decimal) int {
	if income.IsZero() {
		return 0
	}

	p := net.Mul(hundred).Div(income).Round(0)
	switch {
	case p.LessThan(decimal.Zero):
		return 0
	case p.GreaterThan(hundred):
		return 100
	default:
		return int(p.IntPart())
	}
}

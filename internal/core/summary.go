package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Month is a YYYY-MM prefix matched against transaction dates.
type Month string

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// Contains reports whether date falls in m.
func (m Month) Contains(date string) bool {
	return strings.HasPrefix(date, string(m))
}

func (m Month) String() string { return string(m) }

// BudgetStatus is the expense total of a month compared with its limit.
type BudgetStatus struct {
	Month    Month
	Limit    decimal.Decimal
	Total    decimal.Decimal
	Exceeded bool
}

// Remaining is the limit minus the total; negative once exceeded.
func (b BudgetStatus) Remaining() decimal.Decimal {
	return b.Limit.Sub(b.Total)
}

// Summary is a monthly income/expense/savings overview.
type Summary struct {
	Month   Month
	Income  decimal.Decimal
	Expense decimal.Decimal
	Savings decimal.Decimal
}

// CheckBudget sums the month's expenses. Exceeded is a strict comparison: a
// total equal to the budget is within it.
func CheckBudget(txs []Transaction, monthlyBudget decimal.Decimal, month Month) BudgetStatus {
	total := sumOf(txs, Expense, month)
	return BudgetStatus{
		Month:    month,
		Limit:    monthlyBudget,
		Total:    total,
		Exceeded: total.GreaterThan(monthlyBudget),
	}
}

// MonthlySummary totals income and expense for the month. Records of any
// other type are ignored.
func MonthlySummary(txs []Transaction, month Month) Summary {
	income := sumOf(txs, Income, month)
	expense := sumOf(txs, Expense, month)
	return Summary{
		Month:   month,
		Income:  income,
		Expense: expense,
		Savings: income.Sub(expense),
	}
}

func sumOf(txs []Transaction, typ TransactionType, month Month) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == typ && month.Contains(t.Date) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

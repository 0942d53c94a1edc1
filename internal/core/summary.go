package core

// CategoryAmount is an expense total for one category. The slice form keeps
// first-seen order stable for chart legends.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// MonthBucket holds summed income and expense for one calendar month.
type MonthBucket struct {
	Year    int
	Month   int // 1-12
	Income  Money
	Expense Money
}

// DerivedSummary is the computed view of a transaction set. It is never
// persisted; it is rebuilt from the record store on every refresh.
type DerivedSummary struct {
	TotalIncome      Money
	TotalExpense     Money
	Balance          Money
	PerCategorySpend []CategoryAmount
	MonthlyBuckets   []MonthBucket
}

// SpendFor returns the expense total for a category, zero if the category
// never appears.
func (s DerivedSummary) SpendFor(category string) Money {
	for _, ca := range s.PerCategorySpend {
		if ca.Category == category {
			return ca.Amount
		}
	}
	return Money{}
}

// PercentOfBudget reports spend as a percentage of a limit. A zero limit
// yields 0 so that NaN never reaches the display layer.
func PercentOfBudget(spent, limit Money) float64 {
	if limit.Cents == 0 {
		return 0
	}
	return float64(spent.Cents) / float64(limit.Cents) * 100
}

package core

import "sort"

// Summarize derives totals, per-category expense spend and monthly buckets
// from a transaction set. It has no side effects and treats an empty set as
// all-zero results.
func Summarize(txns []Transaction) DerivedSummary {
	var s DerivedSummary

	catIndex := make(map[string]int)
	bucketIndex := make(map[[2]int]int)

	for _, t := range txns {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)

			i, ok := catIndex[t.Category]
			if !ok {
				i = len(s.PerCategorySpend)
				catIndex[t.Category] = i
				s.PerCategorySpend = append(s.PerCategorySpend, CategoryAmount{Category: t.Category})
			}
			s.PerCategorySpend[i].Amount = s.PerCategorySpend[i].Amount.Add(t.Amount)
		}

		key := [2]int{t.Date.Year(), t.Date.Month()}
		i, ok := bucketIndex[key]
		if !ok {
			i = len(s.MonthlyBuckets)
			bucketIndex[key] = i
			s.MonthlyBuckets = append(s.MonthlyBuckets, MonthBucket{Year: key[0], Month: key[1]})
		}
		switch t.Type {
		case Income:
			s.MonthlyBuckets[i].Income = s.MonthlyBuckets[i].Income.Add(t.Amount)
		case Expense:
			s.MonthlyBuckets[i].Expense = s.MonthlyBuckets[i].Expense.Add(t.Amount)
		}
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	sort.Slice(s.MonthlyBuckets, func(a, b int) bool {
		ba, bb := s.MonthlyBuckets[a], s.MonthlyBuckets[b]
		if ba.Year != bb.Year {
			return ba.Year < bb.Year
		}
		return ba.Month < bb.Month
	})

	return s
}

// SummarizeCategory is Summarize restricted to transactions in one category.
func SummarizeCategory(txns []Transaction, category string) DerivedSummary {
	var subset []Transaction
	for _, t := range txns {
		if t.Category == category {
			subset = append(subset, t)
		}
	}
	return Summarize(subset)
}

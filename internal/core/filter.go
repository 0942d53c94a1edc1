package core

import (
	"sort"
	"strings"
)

// TransactionFilter narrows a transaction list for display. Zero-value
// fields are unset: either date bound may be given independently, both are
// inclusive, and an empty keyword matches everything.
type TransactionFilter struct {
	From    Date
	To      Date
	Keyword string
}

// FilterTransactions returns the transactions matching the filter, sorted
// by date descending (ties broken by creation time descending). The source
// slice is never mutated.
func FilterTransactions(txns []Transaction, f TransactionFilter) []Transaction {
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))

	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if !f.From.IsZero() && t.Date.Before(f.From.Time) {
			continue
		}
		if !f.To.IsZero() && t.Date.After(f.To.Time) {
			continue
		}
		if keyword != "" && !matchesKeyword(t, keyword) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].Date.Equal(out[b].Date.Time) {
			return out[a].Date.After(out[b].Date.Time)
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})

	return out
}

func matchesKeyword(t Transaction, keyword string) bool {
	return strings.Contains(strings.ToLower(t.Description), keyword) ||
		strings.Contains(strings.ToLower(t.Category), keyword)
}

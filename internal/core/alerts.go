package core

import "time"

const (
	AlertOverrun   AlertKind = "overrun"
	AlertNearLimit AlertKind = "near_limit"
	AlertDueSoon   AlertKind = "due_soon"

	// DefaultNearLimitRatio is the spend/limit ratio above which a budget
	// is flagged as nearing its limit.
	DefaultNearLimitRatio = 0.8

	// DueSoonWindow is how far ahead an unpaid loan's due date may be and
	// still raise an alert.
	DueSoonWindow = 7 * 24 * time.Hour
)

type AlertKind string

// Alert is a single budget or loan notification. Budget alerts carry
// Category/Spent/Limit (and Overage when overrun); loan alerts carry
// Lender/Amount/DueDate.
type Alert struct {
	Kind     AlertKind
	Category string
	Spent    Money
	Limit    Money
	Overage  Money
	Lender   string
	Amount   Money
	DueDate  Date
}

// EvaluateAlerts derives budget and loan alerts from the current records.
// "now" is injected rather than read from the system clock so evaluation is
// reproducible. Alerts appear in input iteration order: budgets first, then
// loans. An empty result means no alerts, not an error.
//
// Budget policy: spent strictly greater than limit raises an overrun with
// the overage; otherwise a positive limit with spent/limit at or above
// nearLimitRatio raises a near-limit warning. Spent equal to limit is
// therefore a near-limit, never an overrun.
func EvaluateAlerts(budgets []Budget, txns []Transaction, loans []Loan, now time.Time, nearLimitRatio float64) []Alert {
	if nearLimitRatio <= 0 {
		nearLimitRatio = DefaultNearLimitRatio
	}

	summary := Summarize(txns)
	var alerts []Alert

	for _, b := range budgets {
		spent := summary.SpendFor(b.Category)
		switch {
		case spent.Cents > b.Limit.Cents:
			alerts = append(alerts, Alert{
				Kind:     AlertOverrun,
				Category: b.Category,
				Spent:    spent,
				Limit:    b.Limit,
				Overage:  spent.Sub(b.Limit),
			})
		case b.Limit.Cents > 0 && float64(spent.Cents)/float64(b.Limit.Cents) >= nearLimitRatio:
			alerts = append(alerts, Alert{
				Kind:     AlertNearLimit,
				Category: b.Category,
				Spent:    spent,
				Limit:    b.Limit,
			})
		}
	}

	cutoff := now.Add(DueSoonWindow)
	for _, l := range loans {
		if l.Status == Paid || l.DueDate.IsZero() {
			continue
		}
		if !l.DueDate.After(cutoff) {
			alerts = append(alerts, Alert{
				Kind:    AlertDueSoon,
				Lender:  l.Lender,
				Amount:  l.Amount,
				DueDate: l.DueDate,
			})
		}
	}

	return alerts
}

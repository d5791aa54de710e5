// Package usage models LLM token usage reports.
package usage

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/artguide/internal/domain"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod parses a period name. Empty defaults to day.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown period %q: %w", s, domain.ErrInvalidInput)
	}
}

// Budget is a snapshot of one token budget window.
type Budget struct {
	limit     int64
	used      int64
	remaining int64
	resetsAt  int64 // unix millis
}

// NewBudget creates a budget snapshot. A zero limit means unlimited.
func NewBudget(limit, used, remaining, resetsAt int64) Budget {
	return Budget{limit: limit, used: used, remaining: remaining, resetsAt: resetsAt}
}

// TokensLimit returns the token cap (0 = unlimited).
func (b Budget) TokensLimit() int64 { return b.limit }

// TokensUsed returns tokens consumed in the window.
func (b Budget) TokensUsed() int64 { return b.used }

// TokensRemaining returns tokens left, or -1 when unlimited.
func (b Budget) TokensRemaining() int64 { return b.remaining }

// IsExhausted reports whether the budget is spent.
func (b Budget) IsExhausted() bool { return b.limit > 0 && b.remaining <= 0 }

// ResetsAt returns the end of the window (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }

// Report is an LLM usage report for one period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	provider    string
	budget      Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end int64, provider string, b Budget) Report {
	return Report{period: period, periodStart: start, periodEnd: end, provider: provider, budget: b}
}

// Period returns the aggregation granularity.
func (r Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r Report) PeriodEnd() int64 { return r.periodEnd }

// Provider returns the LLM provider name.
func (r Report) Provider() string { return r.provider }

// Budget returns the budget status.
func (r Report) Budget() Budget { return r.budget }

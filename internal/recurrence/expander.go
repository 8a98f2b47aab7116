// Package recurrence expands one transaction template into a sequence of
// dated drafts, one calendar month apart. Expansion is a pure function;
// persisting the drafts is the caller's job.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"finanzo/internal/catalog"
	"finanzo/internal/core"
)

// Expand turns a template plus a recurrence plan into its dated drafts.
//
// Validation happens before anything is generated, so a rejected template
// never yields a partial sequence. All drafts share amount, category, type
// and establishment; only the date and description vary. With a count of
// N > 1 every draft, including the first, carries an "(i/N)" suffix.
func Expand(tx core.Transaction, plan core.RecurrencePlan) ([]core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := plan.Validate(core.MaxRecurrenceCount); err != nil {
		return nil, err
	}

	cat, ok := catalog.ByID(tx.CategoryID)
	if !ok {
		return nil, fmt.Errorf("category %q: %w", tx.CategoryID, core.ErrUnknownCategory)
	}

	base := strings.TrimSpace(tx.Description)
	if base == "" {
		base = cat.Label
	}

	count := plan.EffectiveCount()
	drafts := make([]core.Transaction, 0, count)
	for i := 0; i < count; i++ {
		draft := tx
		draft.Date = AddMonths(tx.Date, i)
		if count > 1 {
			draft.Description = fmt.Sprintf("%s (%d/%d)", base, i+1, count)
		} else {
			draft.Description = base
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// AddMonths advances a date by the given number of months, keeping the
// day of month where the target month supports it and clamping to the
// last valid day where it does not (Jan 31 + 1 month = Feb 28/29).
//
// This is deliberately not time.Time.AddDate, which normalizes overflow
// into the next month instead of clamping.
func AddMonths(d core.Date, months int) core.Date {
	year, month, day := d.Time.Date()
	// Anchor on day 1 so the month arithmetic itself never overflows.
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := lastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return core.NewDate(first.Year(), int(first.Month()), day)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense  TransactionType = "expense"
	Income   TransactionType = "income"
	Transfer TransactionType = "transfer"
)

// DefaultRecurrenceCount is the repeat count applied when a recurrence is
// enabled without an explicit count.
const DefaultRecurrenceCount = 12

// MaxRecurrenceCount bounds how many records one submission may produce.
const MaxRecurrenceCount = 60

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the user-submitted template: what gets persisted is
	// one or more Records derived from it by recurrence expansion.
	Transaction struct {
		Date          Date
		Description   string // may be blank, falls back to the category label
		Amount        Money
		CategoryID    string
		Type          TransactionType
		Establishment string
	}

	// Record is a persisted transaction. The ID is assigned by the store,
	// never by the caller.
	Record struct {
		ID     string
		UserID string
		Transaction
	}

	// RecurrencePlan governs how many Records one submission produces.
	RecurrencePlan struct {
		Enabled bool
		Count   int
	}

	// GoalPatch carries the partial fields of a goal update. Nil fields
	// are left untouched.
	GoalPatch struct {
		Name         *string
		TargetCents  *int64
		CurrentCents *int64
		Icon         *string
	}

	// Goal is a savings target. CurrentAmount may exceed TargetAmount;
	// over-funding is allowed and the stored value is never clamped.
	Goal struct {
		ID            string
		UserID        string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		Icon          string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyCategory    = errors.New("empty category")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidCount     = errors.New("invalid recurrence count")
	ErrZeroTarget       = errors.New("goal target amount is zero")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
)

// DateLayout is the wire and storage format for dates.
const DateLayout = "2006-01-02"

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Expense, Income, Transfer:
		return nil
	default:
		return ErrInvalidType
	}
}

// Validate checks the template before any expansion takes place, so a
// rejected submission never produces partial output.
func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// EffectiveCount resolves the number of records one submission produces.
// A disabled plan is always a single record regardless of the stored count.
func (p RecurrencePlan) EffectiveCount() int {
	if !p.Enabled {
		return 1
	}
	if p.Count <= 0 {
		return DefaultRecurrenceCount
	}
	return p.Count
}

// Validate rejects plans whose effective count exceeds the given cap.
// A cap <= 0 falls back to MaxRecurrenceCount.
func (p RecurrencePlan) Validate(maxCount int) error {
	if maxCount <= 0 {
		maxCount = MaxRecurrenceCount
	}
	if p.EffectiveCount() > maxCount {
		return ErrInvalidCount
	}
	return nil
}

// Validate checks a goal at creation time. TargetAmount must be positive
// here so that progress computation can never divide by zero later.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrZeroTarget
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsValidation reports whether err belongs to the validation taxonomy:
// errors raised before any side effect, recovered locally by the caller.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrInvalidDate, ErrInvalidAmount, ErrInvalidType,
		ErrEmptyCategory, ErrUnknownCategory, ErrEmptyName,
		ErrInvalidCount, ErrZeroTarget,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

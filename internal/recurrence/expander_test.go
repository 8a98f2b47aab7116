package recurrence

import (
	"errors"
	"testing"

	"finanzo/internal/core"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		months int
		want   string
	}{
		{"same day", "2024-03-15", 1, "2024-04-15"},
		{"jan 31 clamps to leap feb", "2024-01-31", 1, "2024-02-29"},
		{"jan 31 clamps to plain feb", "2023-01-31", 1, "2023-02-28"},
		{"feb to march keeps day", "2024-02-29", 1, "2024-03-29"},
		{"31st over 30-day month", "2024-03-31", 1, "2024-04-30"},
		{"year rollover", "2024-11-15", 2, "2025-01-15"},
		{"clamped across year", "2024-12-31", 2, "2025-02-28"},
		{"zero months", "2024-01-31", 0, "2024-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := core.ParseDate(tt.start)
			if err != nil {
				t.Fatalf("parse start: %v", err)
			}
			got := AddMonths(start, tt.months)
			if got.String() != tt.want {
				t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.start, tt.months, got, tt.want)
			}
		})
	}
}

func TestExpandRecurring(t *testing.T) {
	start, _ := core.ParseDate("2024-01-31")
	tx := core.Transaction{
		Date:       start,
		Amount:     core.Money{Cents: 10000},
		CategoryID: "investments",
		Type:       core.Income,
	}

	drafts, err := Expand(tx, core.RecurrencePlan{Enabled: true, Count: 3})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("got %d drafts, want 3", len(drafts))
	}

	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	wantDescs := []string{
		"Investimentos (1/3)",
		"Investimentos (2/3)",
		"Investimentos (3/3)",
	}
	for i, d := range drafts {
		if d.Date.String() != wantDates[i] {
			t.Errorf("draft %d date = %s, want %s", i, d.Date, wantDates[i])
		}
		if d.Description != wantDescs[i] {
			t.Errorf("draft %d description = %q, want %q", i, d.Description, wantDescs[i])
		}
		if d.Amount.Cents != 10000 {
			t.Errorf("draft %d amount = %d, want 10000", i, d.Amount.Cents)
		}
		if d.CategoryID != "investments" || d.Type != core.Income {
			t.Errorf("draft %d changed category or type", i)
		}
	}
}

func TestExpandSingle(t *testing.T) {
	start, _ := core.ParseDate("2024-05-10")
	tx := core.Transaction{
		Date:        start,
		Description: "Mercado",
		Amount:      core.Money{Cents: 4500},
		CategoryID:  "food",
		Type:        core.Expense,
	}

	drafts, err := Expand(tx, core.RecurrencePlan{})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("got %d drafts, want 1", len(drafts))
	}
	if drafts[0].Description != "Mercado" {
		t.Errorf("single draft should have no suffix, got %q", drafts[0].Description)
	}
	if drafts[0].Date.String() != "2024-05-10" {
		t.Errorf("single draft date = %s, want 2024-05-10", drafts[0].Date)
	}
}

func TestExpandDefaultCount(t *testing.T) {
	start, _ := core.ParseDate("2024-01-15")
	tx := core.Transaction{
		Date:        start,
		Description: "Aluguel",
		Amount:      core.Money{Cents: 150000},
		CategoryID:  "home",
		Type:        core.Expense,
	}

	drafts, err := Expand(tx, core.RecurrencePlan{Enabled: true})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(drafts) != core.DefaultRecurrenceCount {
		t.Fatalf("got %d drafts, want %d", len(drafts), core.DefaultRecurrenceCount)
	}
	if drafts[11].Date.String() != "2024-12-15" {
		t.Errorf("last draft date = %s, want 2024-12-15", drafts[11].Date)
	}
}

func TestExpandRejects(t *testing.T) {
	start, _ := core.ParseDate("2024-01-01")
	valid := core.Transaction{
		Date:       start,
		Amount:     core.Money{Cents: 100},
		CategoryID: "food",
		Type:       core.Expense,
	}

	tests := []struct {
		name    string
		mutate  func(*core.Transaction)
		plan    core.RecurrencePlan
		wantErr error
	}{
		{"invalid amount", func(tx *core.Transaction) { tx.Amount.Cents = 0 }, core.RecurrencePlan{Enabled: true, Count: 3}, core.ErrInvalidAmount},
		{"unknown category", func(tx *core.Transaction) { tx.CategoryID = "nope" }, core.RecurrencePlan{}, core.ErrUnknownCategory},
		{"count over cap", func(*core.Transaction) {}, core.RecurrencePlan{Enabled: true, Count: core.MaxRecurrenceCount + 1}, core.ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			drafts, err := Expand(tx, tt.plan)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if drafts != nil {
				t.Errorf("rejected expansion must yield no drafts, got %d", len(drafts))
			}
		})
	}
}

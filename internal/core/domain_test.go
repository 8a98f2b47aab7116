package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 31 {
		t.Errorf("got %s, want 2024-01-31", d)
	}

	if _, err := ParseDate("31/01/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 2, 29)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-02-29"` {
		t.Errorf("marshal = %s, want \"2024-02-29\"", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip mismatch: %s != %s", back, d)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:       NewDate(2024, 3, 15),
		Amount:     Money{Cents: 1000},
		CategoryID: "food",
		Type:       Expense,
	}

	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"zero amount", func(tx *Transaction) { tx.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -100 }, ErrInvalidAmount},
		{"blank category", func(tx *Transaction) { tx.CategoryID = "  " }, ErrEmptyCategory},
		{"bad type", func(tx *Transaction) { tx.Type = "loan" }, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("description too long", func(t *testing.T) {
		tx := valid
		tx.Description = strings.Repeat("x", 201)
		if err := tx.Validate(); err == nil {
			t.Error("expected error for long description")
		}
	})
}

func TestRecurrencePlanEffectiveCount(t *testing.T) {
	tests := []struct {
		name string
		plan RecurrencePlan
		want int
	}{
		{"disabled", RecurrencePlan{Enabled: false, Count: 5}, 1},
		{"disabled zero", RecurrencePlan{}, 1},
		{"enabled explicit", RecurrencePlan{Enabled: true, Count: 3}, 3},
		{"enabled default", RecurrencePlan{Enabled: true}, DefaultRecurrenceCount},
		{"enabled negative", RecurrencePlan{Enabled: true, Count: -2}, DefaultRecurrenceCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.EffectiveCount(); got != tt.want {
				t.Errorf("EffectiveCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecurrencePlanValidate(t *testing.T) {
	if err := (RecurrencePlan{Enabled: true, Count: 60}).Validate(60); err != nil {
		t.Errorf("count at cap should pass: %v", err)
	}
	if err := (RecurrencePlan{Enabled: true, Count: 61}).Validate(60); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("count over cap: got %v, want ErrInvalidCount", err)
	}
	// A non-positive cap falls back to the hard limit.
	if err := (RecurrencePlan{Enabled: true, Count: MaxRecurrenceCount + 1}).Validate(0); !errors.Is(err, ErrInvalidCount) {
		t.Errorf("default cap: got %v, want ErrInvalidCount", err)
	}
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		goal    Goal
		wantErr error
	}{
		{"valid", Goal{Name: "Viagem", TargetAmount: Money{Cents: 500000}}, nil},
		{"empty name", Goal{TargetAmount: Money{Cents: 100}}, ErrEmptyName},
		{"zero target", Goal{Name: "X"}, ErrZeroTarget},
		{"negative current", Goal{Name: "X", TargetAmount: Money{Cents: 100}, CurrentAmount: Money{Cents: -1}}, ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ErrInvalidAmount) {
		t.Error("ErrInvalidAmount should be a validation error")
	}
	if IsValidation(ErrNotFound) {
		t.Error("ErrNotFound is not a validation error")
	}
	if IsValidation(ErrNotAuthenticated) {
		t.Error("ErrNotAuthenticated is not a validation error")
	}
}

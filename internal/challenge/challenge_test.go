package challenge

import (
	"math/rand"
	"testing"
	"time"

	"finanzo/internal/core"
)

func day(s string) time.Time {
	t, _ := time.Parse(core.DateLayout, s)
	return t
}

func TestStatusDerivation(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Status
	}{
		{"generic amount", State{AmountCents: GenericAmountCents}, StatusGeneric},
		{"other amount", State{AmountCents: 2300}, StatusPersonalized},
		{"completed wins", State{AmountCents: GenericAmountCents, Completed: true}, StatusCompleted},
		{"completed personalized", State{AmountCents: 4200, Completed: true}, StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Status(); got != tt.want {
				t.Errorf("Status() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLoadOrCreate(t *testing.T) {
	today := day("2024-06-10")

	t.Run("nil stored creates generic", func(t *testing.T) {
		s := LoadOrCreate(today, nil)
		if s.Status() != StatusGeneric {
			t.Errorf("status = %s, want generic", s.Status())
		}
		if s.Date != "2024-06-10" {
			t.Errorf("date = %s", s.Date)
		}
		if s.AmountCents != GenericAmountCents {
			t.Errorf("amount = %d, want %d", s.AmountCents, GenericAmountCents)
		}
	})

	t.Run("same day passes through", func(t *testing.T) {
		stored := State{Date: "2024-06-10", Text: "custom", AmountCents: 4200, Completed: true}
		s := LoadOrCreate(today, &stored)
		if s != stored {
			t.Errorf("same-day state must survive, got %+v", s)
		}
	})

	t.Run("stale day resets even when completed", func(t *testing.T) {
		stored := State{Date: "2024-06-09", Text: "custom", AmountCents: 4200, Completed: true}
		s := LoadOrCreate(today, &stored)
		if s.Status() != StatusGeneric || s.Completed {
			t.Errorf("stale state must reset, got %+v", s)
		}
		if s.Date != "2024-06-10" {
			t.Errorf("date = %s, want 2024-06-10", s.Date)
		}
	})
}

func TestCandidates(t *testing.T) {
	records := []core.Record{
		{Transaction: core.Transaction{CategoryID: "food", Amount: core.Money{Cents: 3000}}},
		{Transaction: core.Transaction{CategoryID: "leisure", Amount: core.Money{Cents: 2500}}},
		{Transaction: core.Transaction{CategoryID: "extra", Amount: core.Money{Cents: 1200}}},
		{Transaction: core.Transaction{CategoryID: "investments", Amount: core.Money{Cents: 50000}}},
	}
	got := Candidates(records)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	for _, r := range got {
		if r.CategoryID != "leisure" && r.CategoryID != "extra" {
			t.Errorf("unexpected candidate category %s", r.CategoryID)
		}
	}
}

func TestPersonalize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	generic := NewGeneric(day("2024-06-10"))
	candidates := []core.Record{
		{Transaction: core.Transaction{Description: "Cinema", CategoryID: "leisure", Amount: core.Money{Cents: 2350}}},
	}

	s := Personalize(generic, candidates, rng)
	if s.Status() != StatusPersonalized {
		t.Fatalf("status = %s, want personalized", s.Status())
	}
	// 23.50 rounds up to a whole 24 reais.
	if s.AmountCents != 2400 {
		t.Errorf("amount = %d, want 2400", s.AmountCents)
	}
	if s.Date != generic.Date {
		t.Errorf("date changed: %s", s.Date)
	}

	t.Run("no candidates keeps generic", func(t *testing.T) {
		s := Personalize(generic, nil, rng)
		if s != generic {
			t.Errorf("state changed without candidates: %+v", s)
		}
	})

	t.Run("already personalized unchanged", func(t *testing.T) {
		personalized := State{Date: generic.Date, Text: "x", AmountCents: 4200}
		s := Personalize(personalized, candidates, rng)
		if s != personalized {
			t.Errorf("personalized state must not re-roll, got %+v", s)
		}
	})

	t.Run("completed unchanged", func(t *testing.T) {
		done := State{Date: generic.Date, AmountCents: GenericAmountCents, Completed: true}
		s := Personalize(done, candidates, rng)
		if s != done {
			t.Errorf("completed state must not change, got %+v", s)
		}
	})
}

func TestAcceptIdempotent(t *testing.T) {
	s := NewGeneric(day("2024-06-10")).Accept()
	if !s.Completed || s.Status() != StatusCompleted {
		t.Fatalf("accept did not complete: %+v", s)
	}
	again := s.Accept()
	if again != s {
		t.Errorf("second accept changed state: %+v", again)
	}
}

func TestDecodeEncode(t *testing.T) {
	s := State{Date: "2024-06-10", Text: "oi", AmountCents: 2400, Completed: false}
	raw, err := s.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back := Decode(raw)
	if back == nil || *back != s {
		t.Errorf("round trip mismatch: %+v", back)
	}

	if Decode("") != nil {
		t.Error("empty value must decode to nil")
	}
	if Decode("{not json") != nil {
		t.Error("corrupt value must decode to nil")
	}
}

// Package challenge implements the daily-challenge state machine as pure
// functions over a serializable State, independent of any storage. The
// service layer owns loading, persisting and applying the contribution.
package challenge

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"finanzo/internal/catalog"
	"finanzo/internal/core"
)

// StorageKey is the fixed key-value store key for the serialized state.
const StorageKey = "dailyChallenge"

// GenericAmountCents is the suggested contribution of the generic
// challenge shown before any personalization (R$ 15).
const GenericAmountCents int64 = 1500

const genericText = "Se trocar o café da rua por um em casa hoje, você aporta R$ 15 a mais no seu projeto. Partiu?"

type Status string

const (
	StatusGeneric      Status = "generic"
	StatusPersonalized Status = "personalized"
	StatusCompleted    Status = "completed"
)

// State is the stored challenge record. It is serialized as
// {date, text, amount, completed} under StorageKey.
type State struct {
	Date        string `json:"date"` // YYYY-MM-DD
	Text        string `json:"text"`
	AmountCents int64  `json:"amount"`
	Completed   bool   `json:"completed"`
}

// Status derives the machine state. There is no stored status field: a
// completed record is Completed, a record still carrying the generic
// amount is Generic, anything else has been personalized.
func (s State) Status() Status {
	switch {
	case s.Completed:
		return StatusCompleted
	case s.AmountCents == GenericAmountCents:
		return StatusGeneric
	default:
		return StatusPersonalized
	}
}

// NewGeneric returns the fresh generic challenge for a day.
func NewGeneric(today time.Time) State {
	return State{
		Date:        today.Format(core.DateLayout),
		Text:        genericText,
		AmountCents: GenericAmountCents,
	}
}

// LoadOrCreate applies the automatic reset rule: a stored challenge from
// a prior date is discarded and replaced with a fresh generic one. A nil
// stored value also yields a fresh generic challenge.
func LoadOrCreate(today time.Time, stored *State) State {
	if stored != nil && stored.Date == today.Format(core.DateLayout) {
		return *stored
	}
	return NewGeneric(today)
}

// Candidates filters the transaction list down to discretionary entries
// (categories labeled Extra or Lazer) eligible for personalization.
func Candidates(records []core.Record) []core.Record {
	var out []core.Record
	for _, r := range records {
		if catalog.IsDiscretionary(r.CategoryID) {
			out = append(out, r)
		}
	}
	return out
}

// Personalize upgrades a Generic challenge using one uniformly random
// discretionary transaction: the suggested amount is the transaction
// amount rounded up to whole reais. Any other state, or an empty
// candidate list, is returned unchanged.
func Personalize(s State, candidates []core.Record, rng *rand.Rand) State {
	if s.Status() != StatusGeneric || len(candidates) == 0 {
		return s
	}
	pick := candidates[rng.Intn(len(candidates))]
	amount := pick.Amount.CeilToWholeReais()
	s.Text = fmt.Sprintf("Que tal economizar '%s' hoje? Dá pra guardar R$ %d pro seu sonho!",
		pick.Description, amount.Cents/100)
	s.AmountCents = amount.Cents
	return s
}

// Accept marks the challenge completed. Idempotent: no further
// transitions happen for the rest of the day.
func (s State) Accept() State {
	s.Completed = true
	return s
}

// Decode parses a stored JSON record. A corrupt value returns nil so the
// caller regenerates instead of failing the whole read path.
func Decode(raw string) *State {
	if raw == "" {
		return nil
	}
	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	return &s
}

// Encode serializes the state for the key-value store.
func (s State) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package services

import (
	"context"
	"fmt"
	"sync"

	"finanzo/internal/amqp"
	"finanzo/internal/core"
)

// In-memory doubles for the storage and publisher ports. They mirror the
// SQLite repository's contract: store-assigned ids, ErrNotFound on
// misses, atomic goal increments.

type fakeTxStore struct {
	mu        sync.Mutex
	records   []core.Record
	nextID    int
	createErr func(core.Transaction) error
	listErr   error
}

func (f *fakeTxStore) CreateTransaction(_ context.Context, userID string, tx core.Transaction) (core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		if err := f.createErr(tx); err != nil {
			return core.Record{}, err
		}
	}
	f.nextID++
	rec := core.Record{ID: fmt.Sprintf("t%d", f.nextID), UserID: userID, Transaction: tx}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeTxStore) ListTransactions(_ context.Context, userID string) ([]core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []core.Record
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeTxStore) GetTransaction(_ context.Context, userID, id string) (core.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.UserID == userID && r.ID == id {
			return r, nil
		}
	}
	return core.Record{}, core.ErrNotFound
}

func (f *fakeTxStore) DeleteTransaction(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.UserID == userID && r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

type fakeGoalStore struct {
	mu     sync.Mutex
	goals  []core.Goal
	nextID int
	addErr error
}

func (f *fakeGoalStore) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	g.ID = fmt.Sprintf("g%d", f.nextID)
	f.goals = append(f.goals, g)
	return g, nil
}

func (f *fakeGoalStore) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) GetGoal(_ context.Context, userID, id string) (core.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.goals {
		if g.UserID == userID && g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (f *fakeGoalStore) FirstGoal(_ context.Context, userID string) (core.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.goals {
		if g.UserID == userID {
			return g, nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (f *fakeGoalStore) UpdateGoal(_ context.Context, userID, id string, upd core.GoalPatch) (core.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.goals {
		if g.UserID != userID || g.ID != id {
			continue
		}
		if upd.Name != nil {
			g.Name = *upd.Name
		}
		if upd.TargetCents != nil {
			g.TargetAmount.Cents = *upd.TargetCents
		}
		if upd.CurrentCents != nil {
			g.CurrentAmount.Cents = *upd.CurrentCents
		}
		if upd.Icon != nil {
			g.Icon = *upd.Icon
		}
		f.goals[i] = g
		return g, nil
	}
	return core.Goal{}, core.ErrNotFound
}

func (f *fakeGoalStore) AddToGoal(_ context.Context, userID, id string, deltaCents int64) (core.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return core.Goal{}, f.addErr
	}
	for i, g := range f.goals {
		if g.UserID == userID && g.ID == id {
			f.goals[i].CurrentAmount.Cents += deltaCents
			return f.goals[i], nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (f *fakeGoalStore) DeleteGoal(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.goals {
		if g.UserID == userID && g.ID == id {
			f.goals = append(f.goals[:i], f.goals[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

type fakeKV struct {
	mu     sync.Mutex
	values map[string]string
	putErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) GetValue(_ context.Context, userID, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[userID+"/"+key], nil
}

func (f *fakeKV) PutValue(_ context.Context, userID, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.values[userID+"/"+key] = value
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []amqp.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev amqp.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) kinds() []amqp.EventKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]amqp.EventKind, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Kind)
	}
	return out
}

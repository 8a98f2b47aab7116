package services

import (
	"context"
	"errors"
	"log/slog"

	"finanzo/internal/amqp"
	"finanzo/internal/core"
)

// GoalService orchestrates savings-goal operations.
type GoalService struct {
	store  GoalStore
	pub    Publisher
	logger *slog.Logger
}

func NewGoalService(store GoalStore, pub Publisher, logger *slog.Logger) *GoalService {
	return &GoalService{store: store, pub: pub, logger: logger}
}

// Create validates and persists a new goal. The current amount starts at
// whatever the caller supplied, normally zero.
func (s *GoalService) Create(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.Icon == "" {
		g.Icon = "🎯"
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return s.store.CreateGoal(ctx, g)
}

func (s *GoalService) List(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *GoalService) Get(ctx context.Context, userID, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, userID, id)
}

// Update applies a partial update. A patched target must stay positive,
// same as at creation.
func (s *GoalService) Update(ctx context.Context, userID, id string, upd core.GoalPatch) (core.Goal, error) {
	if upd.Name != nil && *upd.Name == "" {
		return core.Goal{}, core.ErrEmptyName
	}
	if upd.TargetCents != nil && *upd.TargetCents <= 0 {
		return core.Goal{}, core.ErrZeroTarget
	}
	if upd.CurrentCents != nil && *upd.CurrentCents < 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}
	return s.store.UpdateGoal(ctx, userID, id, upd)
}

func (s *GoalService) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeleteGoal(ctx, userID, id)
}

// Contribute credits deltaCents to the given goal, or to the user's first
// goal when id is empty. Contributing with no goals is a no-op: the
// returned bool reports whether a goal was actually credited.
func (s *GoalService) Contribute(ctx context.Context, userID, id string, deltaCents int64) (core.Goal, bool, error) {
	if deltaCents <= 0 {
		return core.Goal{}, false, core.ErrInvalidAmount
	}

	if id == "" {
		first, err := s.store.FirstGoal(ctx, userID)
		if errors.Is(err, core.ErrNotFound) {
			return core.Goal{}, false, nil
		}
		if err != nil {
			return core.Goal{}, false, err
		}
		id = first.ID
	}

	updated, err := s.store.AddToGoal(ctx, userID, id, deltaCents)
	if err != nil {
		return core.Goal{}, false, err
	}

	ev := amqp.NewEvent(amqp.GoalContributed, userID)
	ev.GoalID = updated.ID
	ev.AmountCents = deltaCents
	if s.pub != nil {
		if err := s.pub.Publish(ctx, ev); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish contribution event",
				"goal_id", updated.ID, "user_id", userID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "Goal credited",
		"goal_id", updated.ID, "user_id", userID, "amount_cents", deltaCents)
	return updated, true, nil
}

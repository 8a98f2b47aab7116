package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"finanzo/internal/amqp"
	"finanzo/internal/catalog"
	"finanzo/internal/core"
	"finanzo/internal/recurrence"
)

// persistWorkers bounds how many inserts of one batch run at once.
const persistWorkers = 4

// ItemResult is the outcome of persisting one expanded record. A batch
// settles every item; a failed sibling never discards the others.
type ItemResult struct {
	Record core.Record
	Err    error
}

// TransactionService expands submissions into records, persists them and
// publishes the resulting events.
type TransactionService struct {
	store    TransactionStore
	goals    GoalStore
	pub      Publisher
	maxCount int
	logger   *slog.Logger
}

func NewTransactionService(store TransactionStore, goals GoalStore, pub Publisher, maxCount int, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:    store,
		goals:    goals,
		pub:      pub,
		maxCount: maxCount,
		logger:   logger,
	}
}

// CreateBatch validates the template, expands it per the recurrence plan
// and persists every expanded record. Each item settles independently;
// the error return is reserved for validation, where nothing is persisted.
//
// When every item succeeds and the category is the investments category,
// the total amount is credited to the user's first goal as well.
func (s *TransactionService) CreateBatch(ctx context.Context, userID string, tx core.Transaction, plan core.RecurrencePlan) ([]ItemResult, error) {
	if err := plan.Validate(s.maxCount); err != nil {
		return nil, err
	}
	expanded, err := recurrence.Expand(tx, plan)
	if err != nil {
		return nil, err
	}

	results := make([]ItemResult, len(expanded))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(persistWorkers)
	for i, item := range expanded {
		g.Go(func() error {
			rec, err := s.store.CreateTransaction(gctx, userID, item)
			results[i] = ItemResult{Record: rec, Err: err}
			return nil
		})
	}
	g.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		s.publishRecordEvent(ctx, amqp.TransactionCreated, res.Record)
	}
	if failed > 0 {
		s.logger.WarnContext(ctx, "Batch persisted partially",
			"user_id", userID, "count", len(results), "failed", failed)
		return results, nil
	}

	if tx.CategoryID == catalog.InvestmentsID {
		total := tx.Amount.Cents * int64(len(expanded))
		if err := s.creditFirstGoal(ctx, userID, total); err != nil {
			s.logger.ErrorContext(ctx, "Investment contribution failed",
				"user_id", userID, "amount_cents", total, "error", err)
		}
	}
	return results, nil
}

// creditFirstGoal applies an investment contribution to the user's first
// goal. Having no goals is a no-op, not an error.
func (s *TransactionService) creditFirstGoal(ctx context.Context, userID string, deltaCents int64) error {
	first, err := s.goals.FirstGoal(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve first goal: %w", err)
	}

	updated, err := s.goals.AddToGoal(ctx, userID, first.ID, deltaCents)
	if err != nil {
		return fmt.Errorf("credit goal %s: %w", first.ID, err)
	}

	ev := amqp.NewEvent(amqp.GoalContributed, userID)
	ev.GoalID = updated.ID
	ev.AmountCents = deltaCents
	s.publish(ctx, ev)
	return nil
}

func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Record, error) {
	return s.store.ListTransactions(ctx, userID)
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Record, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	rec, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.publishRecordEvent(ctx, amqp.TransactionDeleted, rec)
	return nil
}

func (s *TransactionService) publishRecordEvent(ctx context.Context, kind amqp.EventKind, rec core.Record) {
	ev := amqp.NewEvent(kind, rec.UserID)
	ev.TransactionID = rec.ID
	ev.CategoryID = rec.CategoryID
	ev.AmountCents = rec.Amount.Cents
	s.publish(ctx, ev)
}

// publish is best-effort: the record is already saved locally, so a
// broker outage only delays downstream processing.
func (s *TransactionService) publish(ctx context.Context, ev amqp.Event) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event",
			"kind", string(ev.Kind), "user_id", ev.UserID, "error", err)
	}
}

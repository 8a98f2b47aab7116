// Package worker consumes domain events off the queue and applies the
// downstream effects: achievement unlocks and the sheets ledger mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rabbitmq/amqp091-go"

	"finanzo/internal/amqp"
	"finanzo/internal/core"
	"finanzo/internal/services"
	"finanzo/internal/storage"
)

// LedgerMirror is the optional sheets sink. Nil disables mirroring.
type LedgerMirror interface {
	AppendRecord(ctx context.Context, rec core.Record) error
	RemoveRecord(ctx context.Context, recordID string) error
}

type EventWorker struct {
	storage *storage.SQLiteRepository
	mirror  LedgerMirror
	logger  *slog.Logger
}

func NewEventWorker(storage *storage.SQLiteRepository, mirror LedgerMirror, logger *slog.Logger) *EventWorker {
	return &EventWorker{storage: storage, mirror: mirror, logger: logger}
}

// Run drains the delivery channel until it closes or ctx is cancelled.
// Handled messages are acked; failures are nacked without requeue so a
// poison message cannot wedge the queue.
func (w *EventWorker) Run(ctx context.Context, deliveries <-chan amqp091.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			if err := w.handle(ctx, d.Body); err != nil {
				w.logger.ErrorContext(ctx, "Failed to process event", "error", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func (w *EventWorker) handle(ctx context.Context, body []byte) error {
	ev, err := amqp.EventFromJSON(body)
	if err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	w.logger.InfoContext(ctx, "Processing event",
		"kind", string(ev.Kind), "user_id", ev.UserID)

	if err := w.unlockBadges(ctx, ev); err != nil {
		return err
	}
	return w.mirrorLedger(ctx, ev)
}

func (w *EventWorker) unlockBadges(ctx context.Context, ev amqp.Event) error {
	for _, badge := range services.BadgesFor(ev) {
		unlocked, err := w.storage.UnlockAchievement(ctx, ev.UserID, badge)
		if err != nil {
			return fmt.Errorf("unlock %s: %w", badge, err)
		}
		if unlocked {
			w.logger.InfoContext(ctx, "Achievement unlocked",
				"user_id", ev.UserID, "badge", badge)
		}
	}
	return nil
}

func (w *EventWorker) mirrorLedger(ctx context.Context, ev amqp.Event) error {
	if w.mirror == nil {
		return nil
	}

	switch ev.Kind {
	case amqp.TransactionCreated:
		rec, err := w.storage.GetTransaction(ctx, ev.UserID, ev.TransactionID)
		if errors.Is(err, core.ErrNotFound) {
			// Deleted before the worker got to it; nothing to mirror.
			return nil
		}
		if err != nil {
			return fmt.Errorf("load record %s: %w", ev.TransactionID, err)
		}
		if err := w.mirror.AppendRecord(ctx, rec); err != nil {
			return fmt.Errorf("mirror record %s: %w", rec.ID, err)
		}
	case amqp.TransactionDeleted:
		if err := w.mirror.RemoveRecord(ctx, ev.TransactionID); err != nil {
			return fmt.Errorf("unmirror record %s: %w", ev.TransactionID, err)
		}
	}
	return nil
}

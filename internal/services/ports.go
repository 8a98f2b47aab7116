// Package services orchestrates domain operations across storage and AMQP.
// Services own business workflows; handlers stay thin and storage stays dumb.
package services

import (
	"context"

	"finanzo/internal/amqp"
	"finanzo/internal/core"
)

// TransactionStore is the persistence surface the transaction service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Record, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Record, error)
	GetTransaction(ctx context.Context, userID, id string) (core.Record, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
}

// GoalStore is the persistence surface for savings goals. AddToGoal must
// apply the delta atomically.
type GoalStore interface {
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	GetGoal(ctx context.Context, userID, id string) (core.Goal, error)
	FirstGoal(ctx context.Context, userID string) (core.Goal, error)
	UpdateGoal(ctx context.Context, userID, id string, upd core.GoalPatch) (core.Goal, error)
	AddToGoal(ctx context.Context, userID, id string, deltaCents int64) (core.Goal, error)
	DeleteGoal(ctx context.Context, userID, id string) error
}

// KeyValueStore holds small per-user JSON blobs, keyed by name. A missing
// key reads back as the empty string, not an error.
type KeyValueStore interface {
	GetValue(ctx context.Context, userID, key string) (string, error)
	PutValue(ctx context.Context, userID, key, value string) error
}

// Publisher emits domain events. Implementations may be nil-checked by
// services; publishing failures never fail the originating request.
type Publisher interface {
	Publish(ctx context.Context, ev amqp.Event) error
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"finanzo/internal/challenge"
)

// ChallengeService loads, personalizes and settles the daily challenge.
// The state machine itself lives in the challenge package; this service
// owns persistence and the contribution side effect.
type ChallengeService struct {
	kv     KeyValueStore
	txs    TransactionStore
	goals  *GoalService
	rng    *rand.Rand
	logger *slog.Logger
}

// NewChallengeService wires the challenge workflow. rng may be nil, in
// which case a time-seeded source is used; tests inject a fixed seed.
func NewChallengeService(kv KeyValueStore, txs TransactionStore, goals *GoalService, rng *rand.Rand, logger *slog.Logger) *ChallengeService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ChallengeService{kv: kv, txs: txs, goals: goals, rng: rng, logger: logger}
}

// Current returns today's challenge, creating or resetting it as needed.
// A fresh generic challenge is personalized right away when the user has
// discretionary spending to draw from.
func (s *ChallengeService) Current(ctx context.Context, userID string, now time.Time) (challenge.State, error) {
	raw, err := s.kv.GetValue(ctx, userID, challenge.StorageKey)
	if err != nil {
		return challenge.State{}, fmt.Errorf("load challenge state: %w", err)
	}

	stored := challenge.Decode(raw)
	state := challenge.LoadOrCreate(now, stored)

	if state.Status() == challenge.StatusGeneric {
		records, err := s.txs.ListTransactions(ctx, userID)
		if err != nil {
			return challenge.State{}, fmt.Errorf("list records for personalization: %w", err)
		}
		state = challenge.Personalize(state, challenge.Candidates(records), s.rng)
	}

	if err := s.save(ctx, userID, state); err != nil {
		return challenge.State{}, err
	}
	return state, nil
}

// Accept settles today's challenge: the suggested amount is credited to
// the user's first goal, then the completed flag is persisted. A failed
// contribution leaves the challenge open so the user can retry.
func (s *ChallengeService) Accept(ctx context.Context, userID string, now time.Time) (challenge.State, error) {
	state, err := s.Current(ctx, userID, now)
	if err != nil {
		return challenge.State{}, err
	}
	if state.Completed {
		return state, nil
	}

	goal, credited, err := s.goals.Contribute(ctx, userID, "", state.AmountCents)
	if err != nil {
		return challenge.State{}, fmt.Errorf("apply challenge contribution: %w", err)
	}

	state = state.Accept()
	if err := s.save(ctx, userID, state); err != nil {
		return challenge.State{}, err
	}

	if credited {
		s.logger.InfoContext(ctx, "Challenge accepted",
			"user_id", userID, "goal_id", goal.ID, "amount_cents", state.AmountCents)
	} else {
		s.logger.InfoContext(ctx, "Challenge accepted without goals",
			"user_id", userID, "amount_cents", state.AmountCents)
	}
	return state, nil
}

func (s *ChallengeService) save(ctx context.Context, userID string, state challenge.State) error {
	encoded, err := state.Encode()
	if err != nil {
		return fmt.Errorf("encode challenge state: %w", err)
	}
	if err := s.kv.PutValue(ctx, userID, challenge.StorageKey, encoded); err != nil {
		return fmt.Errorf("persist challenge state: %w", err)
	}
	return nil
}

// Package ledger implements the in-memory goal ledger: applying
// contribution deltas to a goal list and computing progress.
package ledger

import (
	"errors"
	"math"

	"finanzo/internal/core"
)

var ErrIndexOutOfRange = errors.New("goal index out of range")

// Contribute adds deltaCents to the goal at targetIndex and returns the
// updated list. An empty list is a deliberate no-op, not an error: with
// no goals there is nothing to credit and the operation reports nothing.
// The delta's sign is not validated; callers may pass corrections.
func Contribute(goals []core.Goal, targetIndex int, deltaCents int64) ([]core.Goal, error) {
	if len(goals) == 0 {
		return goals, nil
	}
	if targetIndex < 0 || targetIndex >= len(goals) {
		return goals, ErrIndexOutOfRange
	}
	out := make([]core.Goal, len(goals))
	copy(out, goals)
	out[targetIndex].CurrentAmount.Cents += deltaCents
	return out, nil
}

// ProgressPercent returns round(current/target*100). The value is not
// clamped at 100: over-funded goals report above it. A zero target is
// prevented at goal creation; if one shows up anyway this returns
// ErrZeroTarget.
func ProgressPercent(g core.Goal) (int, error) {
	if g.TargetAmount.Cents <= 0 {
		return 0, core.ErrZeroTarget
	}
	ratio := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents)
	return int(math.Round(ratio * 100)), nil
}

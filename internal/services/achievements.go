package services

import (
	"finanzo/internal/amqp"
	"finanzo/internal/catalog"
)

// Badge identifiers, stored verbatim in the achievements table.
const (
	BadgeFirstEntry        = "FIRST_ENTRY"
	BadgeFirstSaver        = "SAVER_LEVEL_1"
	BadgeFirstContribution = "GOAL_CONTRIBUTOR"
)

// BadgesFor maps an event to the badges it can unlock. Unlocking is
// idempotent at the storage layer, so re-delivered events are harmless.
func BadgesFor(ev amqp.Event) []string {
	switch ev.Kind {
	case amqp.TransactionCreated:
		badges := []string{BadgeFirstEntry}
		if ev.CategoryID == catalog.InvestmentsID {
			badges = append(badges, BadgeFirstSaver)
		}
		return badges
	case amqp.GoalContributed:
		return []string{BadgeFirstContribution}
	default:
		return nil
	}
}

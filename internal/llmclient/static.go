// File: internal/llmclient/static.go
package llmclient

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// StaticAdvisor serves canned advisory responses keyed off markers in the
// prompt. It backs dry runs and offline development, so the full workflow can
// execute without a hosted model.
type StaticAdvisor struct {
	log *zap.Logger
}

func NewStaticAdvisor(logger *zap.Logger) *StaticAdvisor {
	return &StaticAdvisor{log: logger.Named("llmclient.static")}
}

// Advise inspects the prompt and returns a plausible canned answer. Routing
// prompts resolve by complaint category; specialist prompts get a generic
// assessment containing an actionable keyword.
func (s *StaticAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "routed to a specialist"):
		switch {
		case strings.Contains(lower, "category: technical"):
			return "This looks like a hardware fault. Assign a Technician to diagnose the scooter.", nil
		case strings.Contains(lower, "category: billing"):
			return "This is a payment dispute. A Finance Officer should review the charges.", nil
		case strings.Contains(lower, "category: service"):
			return "This concerns station availability. The Station Manager should take it.", nil
		default:
			return "The case spans multiple teams; route it to Management for coordination.", nil
		}
	case strings.Contains(lower, "diagnose this scooter issue"):
		return "The symptoms point to a drained battery pack. Repair on site and verify the charging circuit.", nil
	case strings.Contains(lower, "billing complaint"):
		return "The charge appears to duplicate an earlier transaction. Refund the second charge.", nil
	case strings.Contains(lower, "station operations complaint"):
		return "The station is oversubscribed at peak hours. Rebalance scooters from nearby docks.", nil
	case strings.Contains(lower, "resolution strategy"):
		return "Apologize to the customer, compensate the affected ride, brief the regional team, and add the station to the weekly maintenance route.", nil
	default:
		s.log.Debug("No canned response matched, answering generically")
		return "Review the complaint details and follow the standard operating procedure.", nil
	}
}

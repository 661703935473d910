// File: internal/crew/stages.go
// Description: Shared stage contract and the constants every stage agrees on.
// The five concrete stages live in their own files.

package crew

import (
	"context"
	"fmt"

	"github.com/voltride/crew-cli/api/schemas"
)

// Stage names as they appear in trace steps.
const (
	StageSubmission         = "submission"
	StageTriage             = "triage"
	StageTechnical          = "technical"
	StageFinancial          = "financial"
	StageStationOperations  = "station_operations"
	StageManagement         = "management"
	StageErrorHandler       = "error_handler"
	StageResolutionComplete = "resolution complete"
)

// Per-stage confidence constants. These are deliberately fixed rather than
// computed; the advisory response carries no usable confidence signal.
const (
	triageConfidence     = 0.90
	technicalConfidence  = 0.85
	financialConfidence  = 0.90
	stationConfidence    = 0.80
	managementConfidence = 0.95
	notFoundConfidence   = 0.10
)

// recommendedAgentKey is the Outcome.Data key carrying triage's routing token.
const recommendedAgentKey = "recommendedAgent"

const toolAdvisory = "advisory"

// Stage is the single capability every complaint handler implements.
type Stage interface {
	Name() string
	Handle(ctx context.Context, c *schemas.Complaint) (*schemas.Outcome, error)
}

// notFoundOutcome is the fail-safe result a specialist returns when the store
// has no record of the complaint. It short-circuits the stage: no advisory
// call, no notification.
func notFoundOutcome(id string) *schemas.Outcome {
	return &schemas.Outcome{
		Result:     fmt.Sprintf("Complaint %s not found in the store", id),
		Reasoning:  "The persisted complaint record could not be located, so no specialist assessment was made.",
		Confidence: notFoundConfidence,
		NextAction: "Escalate to Management for manual review",
		ToolUsed:   "store",
	}
}

// deriveNextAction scans the advisory text for the first matching marker and
// returns its action. The rules are ordered; the first hit wins. When nothing
// matches, fallback is returned.
func deriveNextAction(text string, rules []actionRule, fallback string) string {
	for _, r := range rules {
		if containsFold(text, r.marker) {
			return r.action
		}
	}
	return fallback
}

type actionRule struct {
	marker string
	action string
}

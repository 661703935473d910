// File: internal/crew/synthesizer.go
// Description: Renders the customer-facing resolution summary from a finished
// trace. Pure function: same trace and complaint in, same text out.

package crew

import (
	"fmt"
	"strings"

	"github.com/voltride/crew-cli/api/schemas"
)

const highConfidenceFloor = 0.7

// placeholderAssessment stands in when no completed step carried an outcome.
func placeholderAssessment() *schemas.Outcome {
	return &schemas.Outcome{
		Result:     "No assessment recorded",
		Confidence: 0,
		NextAction: "Escalate to the operations team",
	}
}

// Synthesize renders the resolution text block for one complaint run. The
// workflow path lists every completed step as "stage (action)" joined by
// " -> "; the final assessment is the outcome of the last completed step that
// produced one.
func Synthesize(c *schemas.Complaint, steps []*schemas.Step) string {
	var (
		path    []string
		final   *schemas.Outcome
		totalMs int64
	)
	for _, step := range steps {
		totalMs += step.DurationMs
		if step.Status != schemas.StepCompleted {
			continue
		}
		path = append(path, fmt.Sprintf("%s (%s)", step.StageName, step.Action))
		if step.Outcome != nil {
			final = step.Outcome
		}
	}
	if final == nil {
		final = placeholderAssessment()
	}

	status := "Requires Further Review"
	if final.Confidence > highConfidenceFloor {
		status = "Resolved (High Confidence)"
	}

	var b strings.Builder
	b.WriteString("Complaint Resolution Summary\n")
	b.WriteString("============================\n")
	fmt.Fprintf(&b, "Complaint ID: %s\n", c.ID)
	fmt.Fprintf(&b, "Title: %s\n", c.Title)
	fmt.Fprintf(&b, "Description: %s\n", c.Description)
	fmt.Fprintf(&b, "Category: %s | Priority: %s\n\n", c.Category, c.Priority)
	b.WriteString("Workflow Path:\n")
	fmt.Fprintf(&b, "%s\n\n", strings.Join(path, " -> "))
	b.WriteString("Final Assessment:\n")
	fmt.Fprintf(&b, "Result: %s\n", final.Result)
	fmt.Fprintf(&b, "Confidence: %.2f\n", final.Confidence)
	fmt.Fprintf(&b, "Next Action: %s\n\n", final.NextAction)
	fmt.Fprintf(&b, "Overall Status: %s\n", status)
	fmt.Fprintf(&b, "Total Processing Time: %dms\n", totalMs)
	return b.String()
}

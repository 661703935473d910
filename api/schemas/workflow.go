// File: api/schemas/workflow.go
package schemas

import "time"

// StepStatus tracks the lifecycle of a single workflow step.
// "processing" is the only non-terminal state; a step moves to "completed" or
// "failed" exactly once and is never mutated again.
type StepStatus string

const (
	StepProcessing StepStatus = "processing"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// Outcome is the structured result a stage produces for a complaint.
type Outcome struct {
	Result          string         `json:"result"`
	Reasoning       string         `json:"reasoning"`
	Confidence      float64        `json:"confidence"`
	NextAction      string         `json:"next_action"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
	ToolUsed        string         `json:"tool_used,omitempty"`
}

// ClampConfidence forces Confidence into [0, 1]. Every outcome that enters
// the trace has passed through this.
func (o *Outcome) ClampConfidence() {
	if o.Confidence < 0 {
		o.Confidence = 0
	}
	if o.Confidence > 1 {
		o.Confidence = 1
	}
}

// Step is one auditable entry in a workflow trace.
type Step struct {
	ID         string     `json:"id"`
	StageName  string     `json:"stage_name"`
	Action     string     `json:"action"`
	StartedAt  time.Time  `json:"started_at"`
	Status     StepStatus `json:"status"`
	Outcome    *Outcome   `json:"outcome,omitempty"`
	DurationMs int64      `json:"duration_ms"`
	ToolUsed   string     `json:"tool_used,omitempty"`
}

// Terminal reports whether the step has reached a final state.
func (s *Step) Terminal() bool {
	return s.Status == StepCompleted || s.Status == StepFailed
}

// Resolution is the full result of one complaint run: the ordered trace, the
// outcome that stood last, and the rendered customer-facing summary.
type Resolution struct {
	Trace          []*Step  `json:"trace"`
	FinalOutcome   *Outcome `json:"final_outcome"`
	ResolutionText string   `json:"resolution_text"`
}

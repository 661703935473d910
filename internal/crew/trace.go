// File: internal/crew/trace.go
// Description: The append-only workflow trace. One trace belongs to exactly
// one ProcessComplaint invocation and is never shared across runs, so it
// needs no locking.

package crew

import (
	"time"

	"github.com/google/uuid"

	"github.com/voltride/crew-cli/api/schemas"
)

// Trace is the ordered log of steps for a single complaint run. Steps are
// appended in execution order and are never removed or reordered.
type Trace struct {
	steps []*schemas.Step
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Begin appends a new step in the processing state and returns it so the
// caller can finalize it once the stage call settles.
func (t *Trace) Begin(stage, action string) *schemas.Step {
	step := &schemas.Step{
		ID:        uuid.NewString(),
		StageName: stage,
		Action:    action,
		StartedAt: time.Now().UTC(),
		Status:    schemas.StepProcessing,
	}
	t.steps = append(t.steps, step)
	return step
}

// Complete transitions a step to completed and attaches the outcome.
// A step that already reached a terminal state is left untouched.
func (t *Trace) Complete(step *schemas.Step, out *schemas.Outcome) {
	if step.Terminal() {
		return
	}
	step.Status = schemas.StepCompleted
	step.Outcome = out
	step.DurationMs = time.Since(step.StartedAt).Milliseconds()
	if out != nil {
		step.ToolUsed = out.ToolUsed
	}
}

// Fail transitions a step to failed. Terminal steps are left untouched.
func (t *Trace) Fail(step *schemas.Step) {
	if step.Terminal() {
		return
	}
	step.Status = schemas.StepFailed
	step.DurationMs = time.Since(step.StartedAt).Milliseconds()
}

// Mark appends a synthetic, already-completed marker step with zero duration.
// The submission and resolution-complete entries use this.
func (t *Trace) Mark(stage, action string) {
	t.steps = append(t.steps, &schemas.Step{
		ID:        uuid.NewString(),
		StageName: stage,
		Action:    action,
		StartedAt: time.Now().UTC(),
		Status:    schemas.StepCompleted,
		DurationMs: 0,
	})
}

// Steps returns the recorded steps in execution order. The caller must treat
// the returned slice as read-only.
func (t *Trace) Steps() []*schemas.Step {
	return t.steps
}

// internal/crew/trace_test.go
package crew

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltride/crew-cli/api/schemas"
)

func TestTraceStepLifecycle(t *testing.T) {
	tr := NewTrace()
	step := tr.Begin(StageTriage, "Handling complaint CMP-1")

	require.NotEmpty(t, step.ID)
	assert.Equal(t, schemas.StepProcessing, step.Status)
	assert.False(t, step.StartedAt.IsZero())
	assert.Nil(t, step.Outcome)

	out := &schemas.Outcome{Result: "done", Confidence: 0.9, ToolUsed: "advisory"}
	tr.Complete(step, out)
	assert.Equal(t, schemas.StepCompleted, step.Status)
	assert.Same(t, out, step.Outcome)
	assert.Equal(t, "advisory", step.ToolUsed)
	assert.GreaterOrEqual(t, step.DurationMs, int64(0))
}

func TestTraceTerminalStepsNeverRegress(t *testing.T) {
	tr := NewTrace()

	completed := tr.Begin(StageTriage, "a")
	tr.Complete(completed, &schemas.Outcome{Result: "first"})
	tr.Fail(completed)
	assert.Equal(t, schemas.StepCompleted, completed.Status, "completed step must not move to failed")

	failed := tr.Begin(StageTechnical, "b")
	tr.Fail(failed)
	tr.Complete(failed, &schemas.Outcome{Result: "late"})
	assert.Equal(t, schemas.StepFailed, failed.Status, "failed step must not move to completed")
	assert.Nil(t, failed.Outcome)
}

func TestTraceMarkIsCompletedWithZeroDuration(t *testing.T) {
	tr := NewTrace()
	tr.Mark(StageSubmission, "Complaint submitted for resolution")

	steps := tr.Steps()
	require.Len(t, steps, 1)
	assert.Equal(t, StageSubmission, steps[0].StageName)
	assert.Equal(t, schemas.StepCompleted, steps[0].Status)
	assert.Zero(t, steps[0].DurationMs)
	assert.NotEmpty(t, steps[0].ID)
}

func TestTracePreservesAppendOrder(t *testing.T) {
	tr := NewTrace()
	tr.Mark(StageSubmission, "in")
	s1 := tr.Begin(StageTriage, "one")
	tr.Complete(s1, &schemas.Outcome{})
	s2 := tr.Begin(StageTechnical, "two")
	tr.Fail(s2)
	tr.Mark(StageResolutionComplete, "out")

	var names []string
	for _, s := range tr.Steps() {
		names = append(names, s.StageName)
	}
	assert.Equal(t, []string{StageSubmission, StageTriage, StageTechnical, StageResolutionComplete}, names)
}

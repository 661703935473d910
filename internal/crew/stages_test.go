// internal/crew/stages_test.go
package crew

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltride/crew-cli/api/schemas"
)

func TestTriageRoutesAndNotifies(t *testing.T) {
	c := testComplaint()
	st := newFakeStore(c)
	advisor := &fakeAdvisor{response: "A Technician should inspect the scooter."}
	notifier := &fakeNotifier{}
	analyzer := &fakeAnalyzer{analysis: schemas.Analysis{Sentiment: "negative", Keywords: []string{"scooter", "dead"}}}

	stage := NewTriageStage(st, analyzer, advisor, notifier, testLogger())
	out, err := stage.Handle(context.Background(), c)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, out.Confidence, 1e-9)
	assert.Equal(t, string(RoleTechnician), out.Data[recommendedAgentKey])
	assert.Equal(t, "advisory", out.ToolUsed)
	assert.Equal(t, []schemas.Status{schemas.StatusInProgress}, st.statuses())

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "agent", sent[0].kind)
	assert.Equal(t, string(RoleTechnician), sent[0].target)

	// The analysis results feed the advisory prompt.
	require.Equal(t, 1, advisor.calls())
	assert.Contains(t, advisor.prompts[0], "negative")
	assert.Contains(t, advisor.prompts[0], "scooter, dead")
}

func TestTriageCarriesAnalysisIntoOutcomeData(t *testing.T) {
	c := testComplaint()
	analyzer := &fakeAnalyzer{analysis: schemas.Analysis{Sentiment: "negative", Keywords: []string{"battery", "late"}}}
	stage := NewTriageStage(newFakeStore(c), analyzer, &fakeAdvisor{response: "Technician"}, &fakeNotifier{}, testLogger())

	out, err := stage.Handle(context.Background(), c)
	require.NoError(t, err)

	want := map[string]any{
		recommendedAgentKey: string(RoleTechnician),
		"sentiment":         "negative",
		"keywords":          []string{"battery", "late"},
	}
	if diff := cmp.Diff(want, out.Data); diff != "" {
		t.Errorf("outcome data mismatch (-want +got):\n%s", diff)
	}
}

func TestTriageAnalyzerFailurePropagates(t *testing.T) {
	c := testComplaint()
	analyzer := &fakeAnalyzer{err: errors.New("nlp backend down")}
	advisor := &fakeAdvisor{response: "Technician"}
	stage := NewTriageStage(newFakeStore(c), analyzer, advisor, &fakeNotifier{}, testLogger())

	_, err := stage.Handle(context.Background(), c)
	require.Error(t, err)
	assert.Zero(t, advisor.calls(), "advisory must not run after analysis fails")
}

func TestSpecialistNotFoundShortCircuits(t *testing.T) {
	empty := newFakeStore()
	advisor := &fakeAdvisor{response: "should never be used"}
	notifier := &fakeNotifier{}

	stages := []Stage{
		NewTechnicalStage(empty, advisor, notifier, testLogger()),
		NewFinancialStage(empty, advisor, notifier, testLogger()),
		NewStationStage(empty, advisor, notifier, testLogger()),
		NewManagementStage(empty, advisor, notifier, testLogger()),
	}
	for _, stage := range stages {
		t.Run(stage.Name(), func(t *testing.T) {
			out, err := stage.Handle(context.Background(), testComplaint())
			require.NoError(t, err)
			assert.InDelta(t, 0.1, out.Confidence, 1e-9)
			assert.Contains(t, out.NextAction, "Escalate to Management")
		})
	}
	assert.Zero(t, advisor.calls(), "no advisory calls for missing complaints")
	assert.Empty(t, notifier.notifications(), "no notifications for missing complaints")
}

func TestSpecialistStoreFailureIsNotTreatedAsNotFound(t *testing.T) {
	st := newFakeStore()
	st.getErr = errors.New("connection refused")
	stage := NewTechnicalStage(st, &fakeAdvisor{response: "x"}, &fakeNotifier{}, testLogger())

	_, err := stage.Handle(context.Background(), testComplaint())
	require.Error(t, err)
}

func TestTechnicalStage(t *testing.T) {
	c := testComplaint()
	st := newFakeStore(c)
	advisor := &fakeAdvisor{response: "The controller is faulty; repair it on site."}
	notifier := &fakeNotifier{}
	stage := NewTechnicalStage(st, advisor, notifier, testLogger())

	out, err := stage.Handle(context.Background(), c)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, out.Confidence, 1e-9)
	assert.Equal(t, "Dispatch a field technician for on-site repair", out.NextAction)
	assert.Equal(t, []schemas.Status{schemas.StatusInProgress}, st.statuses())

	sent := notifier.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, "email", sent[0].kind)
	assert.Equal(t, c.CustomerEmail, sent[0].target)
}

func TestTechnicalNextActionDerivation(t *testing.T) {
	tests := []struct {
		name      string
		diagnosis string
		want      string
	}{
		{"replace wins over repair", "Replace the battery, or repair the wiring.", "Schedule scooter replacement and recover the unit"},
		{"repair", "A quick repair of the brake lever will do.", "Dispatch a field technician for on-site repair"},
		{"firmware", "Firmware v2.3 has a known throttle bug.", "Push a remote firmware reset to the scooter"},
		{"inspect", "Inspect the frame for cracks.", "Queue the scooter for depot inspection"},
		{"fallback", "Nothing conclusive from telemetry.", "Monitor the scooter and follow up with the customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveNextAction(tt.diagnosis, technicalActionRules, technicalActionFallback))
		})
	}
}

func TestFinancialStage(t *testing.T) {
	c := testComplaint(func(c *schemas.Complaint) {
		c.Category = schemas.CategoryBilling
		c.Title = "Charged twice for one ride"
	})
	st := newFakeStore(c)
	advisor := &fakeAdvisor{response: "Duplicate transaction confirmed. Refund the second charge."}
	notifier := &fakeNotifier{}
	stage := NewFinancialStage(st, advisor, notifier, testLogger())

	out, err := stage.Handle(context.Background(), c)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, out.Confidence, 1e-9)
	assert.Equal(t, "Issue a refund to the original payment method", out.NextAction)
	assert.Equal(t, []schemas.Status{schemas.StatusInProgress}, st.statuses())
}

func TestFinancialNextActionDerivation(t *testing.T) {
	tests := []struct {
		name       string
		assessment string
		want       string
	}{
		{"fraud wins over refund", "Possible fraud; do not refund before review.", "Freeze the account pending fraud review"},
		{"refund", "Refund the disputed amount.", "Issue a refund to the original payment method"},
		{"credit", "Offer ride credit as a goodwill gesture.", "Apply ride credit to the customer wallet"},
		{"waive", "Waive the unlock fee this time.", "Waive the disputed fee"},
		{"fallback", "The charge matches the ride log.", "Review the billing history together with the customer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveNextAction(tt.assessment, financialActionRules, financialActionFallback))
		})
	}
}

func TestStationStage(t *testing.T) {
	c := testComplaint(func(c *schemas.Complaint) {
		c.Category = schemas.CategoryService
		c.StationID = "ST-22"
	})
	st := newFakeStore(c)
	advisor := &fakeAdvisor{response: "Dock sensors are misreporting occupancy."}
	notifier := &fakeNotifier{}
	stage := NewStationStage(st, advisor, notifier, testLogger())

	out, err := stage.Handle(context.Background(), c)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, out.Confidence, 1e-9)
	assert.Equal(t, "Send a crew to service the docking points", out.NextAction)
	assert.Equal(t, "ST-22", out.Data["stationId"])
	require.Equal(t, 1, advisor.calls())
	assert.Contains(t, advisor.prompts[0], "Station: ST-22")
}

func TestManagementStageResolvesComplaint(t *testing.T) {
	c := testComplaint()
	st := newFakeStore(c)
	advisor := &fakeAdvisor{response: "Compensate the ride and brief the regional team."}
	notifier := &fakeNotifier{}
	stage := NewManagementStage(st, advisor, notifier, testLogger())

	out, err := stage.Handle(context.Background(), c)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, out.Confidence, 1e-9)

	// Escalated first, resolved second; both transitions are recorded.
	assert.Equal(t, []schemas.Status{schemas.StatusEscalated, schemas.StatusResolved}, st.statuses())
	require.Equal(t, 1, advisor.calls())
	assert.Equal(t, "Compensate the ride and brief the regional team.", st.resolutions[c.ID])

	sent := notifier.notifications()
	require.Len(t, sent, 4, "three agents plus the customer")
	var agents, emails int
	for _, s := range sent {
		switch s.kind {
		case "agent":
			agents++
		case "email":
			emails++
		}
	}
	assert.Equal(t, 3, agents)
	assert.Equal(t, 1, emails)
}

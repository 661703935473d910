// File: internal/crew/orchestrator.go
// Description: Sequences one complaint through triage, the routed specialist,
// conditional management escalation, and resolution synthesis. It is injected
// with the collaborator interfaces, making it decoupled and testable.

package crew

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

// Orchestrator drives the complaint resolution workflow. One ProcessComplaint
// invocation owns its trace exclusively; independent complaints can be
// processed concurrently by calling ProcessComplaint from separate
// goroutines.
type Orchestrator struct {
	log         *zap.Logger
	triage      Stage
	specialists map[AgentRole]Stage
	management  Stage
}

// New wires the five stages from the shared collaborators.
func New(
	store schemas.ComplaintStore,
	analyzer schemas.Analyzer,
	advisor schemas.AdvisoryClient,
	notifier schemas.Notifier,
	logger *zap.Logger,
) (*Orchestrator, error) {
	if store == nil || analyzer == nil || advisor == nil || notifier == nil || logger == nil {
		return nil, fmt.Errorf("cannot initialize orchestrator with nil dependencies")
	}
	management := NewManagementStage(store, advisor, notifier, logger)
	return &Orchestrator{
		log:    logger.Named("crew.orchestrator"),
		triage: NewTriageStage(store, analyzer, advisor, notifier, logger),
		specialists: map[AgentRole]Stage{
			RoleTechnician:     NewTechnicalStage(store, advisor, notifier, logger),
			RoleFinanceOfficer: NewFinancialStage(store, advisor, notifier, logger),
			RoleStationManager: NewStationStage(store, advisor, notifier, logger),
			RoleManagement:     management,
		},
		management: management,
	}, nil
}

// ProcessComplaint runs the full workflow for one complaint. It never returns
// an error: any unexpected stage failure is absorbed at this boundary,
// recorded as a failed error_handler step, and expressed as a
// manual-intervention resolution. The partial trace is always preserved.
func (o *Orchestrator) ProcessComplaint(ctx context.Context, c *schemas.Complaint) *schemas.Resolution {
	o.log.Info("Processing complaint",
		zap.String("complaint_id", c.ID),
		zap.String("category", string(c.Category)),
		zap.String("priority", string(c.Priority)),
	)

	trace := NewTrace()
	trace.Mark(StageSubmission, "Complaint submitted for resolution")

	triageOut, err := o.runStage(ctx, trace, o.triage, c)
	if err != nil {
		return o.abort(trace, c, err)
	}

	role := recommendedRole(triageOut)
	specialistOut, err := o.runStage(ctx, trace, o.specialists[role], c)
	if err != nil {
		return o.abort(trace, c, err)
	}

	final := specialistOut
	if ShouldEscalate(c.Priority, specialistOut) {
		o.log.Info("Escalating to management",
			zap.String("complaint_id", c.ID),
			zap.Float64("specialist_confidence", specialistOut.Confidence),
		)
		managementOut, err := o.runStage(ctx, trace, o.management, c)
		if err != nil {
			return o.abort(trace, c, err)
		}
		final = managementOut
	}

	trace.Mark(StageResolutionComplete, "Workflow finished")

	return &schemas.Resolution{
		Trace:          trace.Steps(),
		FinalOutcome:   final,
		ResolutionText: Synthesize(c, trace.Steps()),
	}
}

// runStage executes one stage as a tracked step: the step enters the trace in
// the processing state before the handler runs and is finalized exactly once
// when the call settles.
func (o *Orchestrator) runStage(ctx context.Context, trace *Trace, stage Stage, c *schemas.Complaint) (*schemas.Outcome, error) {
	step := trace.Begin(stage.Name(), fmt.Sprintf("Handling complaint %s", c.ID))
	out, err := o.invoke(ctx, stage, c)
	if err != nil {
		trace.Fail(step)
		return nil, fmt.Errorf("%s stage: %w", stage.Name(), err)
	}
	out.ClampConfidence()
	trace.Complete(step, out)
	return out, nil
}

// invoke calls the stage handler, converting a panic into an ordinary error
// so the single recovery boundary in ProcessComplaint sees every failure the
// same way.
func (o *Orchestrator) invoke(ctx context.Context, stage Stage, c *schemas.Complaint) (out *schemas.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("Stage panicked",
				zap.String("stage", stage.Name()),
				zap.Any("panic", r),
			)
			out = nil
			err = fmt.Errorf("stage panicked: %v", r)
		}
	}()
	out, err = stage.Handle(ctx, c)
	if err == nil && out == nil {
		err = fmt.Errorf("stage returned no outcome")
	}
	return out, err
}

// abort records the failure and terminates the run with the fixed
// manual-intervention result. No further stages execute.
func (o *Orchestrator) abort(trace *Trace, c *schemas.Complaint, cause error) *schemas.Resolution {
	o.log.Error("Complaint workflow aborted",
		zap.String("complaint_id", c.ID),
		zap.Error(cause),
	)
	step := trace.Begin(StageErrorHandler, fmt.Sprintf("Workflow failed: %v", cause))
	trace.Fail(step)

	return &schemas.Resolution{
		Trace: trace.Steps(),
		FinalOutcome: &schemas.Outcome{
			Result:     "Automated resolution failed",
			Reasoning:  cause.Error(),
			Confidence: 0,
			NextAction: "Queue for manual review by the operations team",
		},
		ResolutionText: fmt.Sprintf(
			"Complaint %s could not be resolved automatically and requires manual review by the operations team.",
			c.ID,
		),
	}
}

// recommendedRole extracts triage's routing token from the outcome data. A
// missing or malformed token routes to management, mirroring the routing
// policy default.
func recommendedRole(out *schemas.Outcome) AgentRole {
	if out.Data != nil {
		if v, ok := out.Data[recommendedAgentKey].(string); ok {
			switch role := AgentRole(v); role {
			case RoleTechnician, RoleFinanceOfficer, RoleStationManager, RoleManagement:
				return role
			}
		}
	}
	return RoleManagement
}

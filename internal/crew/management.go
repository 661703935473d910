// File: internal/crew/management.go
package crew

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

// ManagementStage is the escalation stage for complex or high-stakes cases.
// It resolves the complaint end to end: cross-functional strategy, status
// transitions, resolution record, and notifications to every agent plus the
// customer.
type ManagementStage struct {
	store    schemas.ComplaintStore
	advisor  schemas.AdvisoryClient
	notifier schemas.Notifier
	log      *zap.Logger
}

func NewManagementStage(store schemas.ComplaintStore, advisor schemas.AdvisoryClient, notifier schemas.Notifier, logger *zap.Logger) *ManagementStage {
	return &ManagementStage{store: store, advisor: advisor, notifier: notifier, log: logger.Named("crew.management")}
}

func (s *ManagementStage) Name() string { return StageManagement }

func (s *ManagementStage) Handle(ctx context.Context, c *schemas.Complaint) (*schemas.Outcome, error) {
	stored, err := s.store.Get(ctx, c.ID)
	if err != nil {
		if errors.Is(err, schemas.ErrComplaintNotFound) {
			s.log.Warn("Complaint missing from store", zap.String("complaint_id", c.ID))
			return notFoundOutcome(c.ID), nil
		}
		return nil, fmt.Errorf("store lookup failed: %w", err)
	}

	prompt := fmt.Sprintf(
		"Produce a cross-functional resolution strategy for this escalated complaint.\n"+
			"Title: %s\nCategory: %s\nPriority: %s\nDescription: %s\n"+
			"Cover customer communication, operational follow-up, and prevention.",
		stored.Title, stored.Category, stored.Priority, stored.Description,
	)
	strategy, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("advisory strategy request failed: %w", err)
	}

	// The escalated state is recorded even though the stage resolves the
	// complaint in the same run; the audit trail keeps both transitions.
	if err := s.store.SetStatus(ctx, c.ID, schemas.StatusEscalated); err != nil {
		return nil, fmt.Errorf("failed to mark complaint escalated: %w", err)
	}
	if err := s.store.SetStatus(ctx, c.ID, schemas.StatusResolved); err != nil {
		return nil, fmt.Errorf("failed to mark complaint resolved: %w", err)
	}
	if err := s.store.AppendResolutionSummary(ctx, c.ID, strategy); err != nil {
		return nil, fmt.Errorf("failed to record resolution summary: %w", err)
	}

	msg := fmt.Sprintf("Complaint %s was resolved by management review: %s", c.ID, stored.Title)
	for _, role := range []AgentRole{RoleTechnician, RoleFinanceOfficer, RoleStationManager} {
		if err := s.notifier.NotifyAgent(ctx, string(role), msg); err != nil {
			return nil, fmt.Errorf("failed to notify %s: %w", role, err)
		}
	}
	subject := fmt.Sprintf("Resolution of your VoltRide complaint %s", c.ID)
	body := fmt.Sprintf("Hello,\n\nYour complaint %q has been reviewed by our management team and resolved:\n\n%s\n\nVoltRide Support", stored.Title, strategy)
	if err := s.notifier.EmailCustomer(ctx, stored.CustomerEmail, subject, body); err != nil {
		return nil, fmt.Errorf("failed to email customer: %w", err)
	}

	s.log.Info("Complaint resolved by management", zap.String("complaint_id", c.ID))

	return &schemas.Outcome{
		Result:     "Cross-functional resolution plan prepared and applied",
		Reasoning:  strategy,
		Confidence: managementConfidence,
		NextAction: "Close the complaint after customer confirmation",
		Recommendations: []string{
			"Follow up with the customer within 48 hours",
			"Review the case in the weekly operations meeting",
		},
		ToolUsed: toolAdvisory,
	}, nil
}

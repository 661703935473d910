// File: internal/crew/financial.go
package crew

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

var financialActionRules = []actionRule{
	{marker: "fraud", action: "Freeze the account pending fraud review"},
	{marker: "refund", action: "Issue a refund to the original payment method"},
	{marker: "credit", action: "Apply ride credit to the customer wallet"},
	{marker: "waive", action: "Waive the disputed fee"},
}

const financialActionFallback = "Review the billing history together with the customer"

// FinancialStage handles billing disputes, refunds, and fee complaints.
type FinancialStage struct {
	store    schemas.ComplaintStore
	advisor  schemas.AdvisoryClient
	notifier schemas.Notifier
	log      *zap.Logger
}

func NewFinancialStage(store schemas.ComplaintStore, advisor schemas.AdvisoryClient, notifier schemas.Notifier, logger *zap.Logger) *FinancialStage {
	return &FinancialStage{store: store, advisor: advisor, notifier: notifier, log: logger.Named("crew.financial")}
}

func (s *FinancialStage) Name() string { return StageFinancial }

func (s *FinancialStage) Handle(ctx context.Context, c *schemas.Complaint) (*schemas.Outcome, error) {
	stored, err := s.store.Get(ctx, c.ID)
	if err != nil {
		if errors.Is(err, schemas.ErrComplaintNotFound) {
			s.log.Warn("Complaint missing from store, escalating", zap.String("complaint_id", c.ID))
			return notFoundOutcome(c.ID), nil
		}
		return nil, fmt.Errorf("store lookup failed: %w", err)
	}

	prompt := fmt.Sprintf(
		"Assess this billing complaint and recommend how to settle it.\n"+
			"Customer: %s\nTitle: %s\nPriority: %s\nDescription: %s",
		stored.CustomerID, stored.Title, stored.Priority, stored.Description,
	)
	assessment, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("advisory assessment request failed: %w", err)
	}
	nextAction := deriveNextAction(assessment, financialActionRules, financialActionFallback)

	if err := s.store.SetStatus(ctx, c.ID, schemas.StatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to mark complaint in progress: %w", err)
	}
	subject := fmt.Sprintf("Update on your VoltRide complaint %s", c.ID)
	body := fmt.Sprintf("Hello,\n\nOur billing team has reviewed your complaint %q:\n\n%s\n\nPlanned action: %s\n\nVoltRide Support", stored.Title, assessment, nextAction)
	if err := s.notifier.EmailCustomer(ctx, stored.CustomerEmail, subject, body); err != nil {
		return nil, fmt.Errorf("failed to email customer: %w", err)
	}

	return &schemas.Outcome{
		Result:     "Financial assessment completed",
		Reasoning:  assessment,
		Confidence: financialConfidence,
		NextAction: nextAction,
		ToolUsed:   toolAdvisory,
	}, nil
}

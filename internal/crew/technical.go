// File: internal/crew/technical.go
package crew

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

// technicalActionRules derives the coarse next action from the advisory
// diagnosis. Ordered; first match wins.
var technicalActionRules = []actionRule{
	{marker: "replace", action: "Schedule scooter replacement and recover the unit"},
	{marker: "repair", action: "Dispatch a field technician for on-site repair"},
	{marker: "firmware", action: "Push a remote firmware reset to the scooter"},
	{marker: "inspect", action: "Queue the scooter for depot inspection"},
}

const technicalActionFallback = "Monitor the scooter and follow up with the customer"

// TechnicalStage handles scooter hardware and software complaints.
type TechnicalStage struct {
	store    schemas.ComplaintStore
	advisor  schemas.AdvisoryClient
	notifier schemas.Notifier
	log      *zap.Logger
}

func NewTechnicalStage(store schemas.ComplaintStore, advisor schemas.AdvisoryClient, notifier schemas.Notifier, logger *zap.Logger) *TechnicalStage {
	return &TechnicalStage{store: store, advisor: advisor, notifier: notifier, log: logger.Named("crew.technical")}
}

func (s *TechnicalStage) Name() string { return StageTechnical }

func (s *TechnicalStage) Handle(ctx context.Context, c *schemas.Complaint) (*schemas.Outcome, error) {
	stored, err := s.store.Get(ctx, c.ID)
	if err != nil {
		if errors.Is(err, schemas.ErrComplaintNotFound) {
			s.log.Warn("Complaint missing from store, escalating", zap.String("complaint_id", c.ID))
			return notFoundOutcome(c.ID), nil
		}
		return nil, fmt.Errorf("store lookup failed: %w", err)
	}

	scooter := stored.ScooterID
	if scooter == "" {
		scooter = "unspecified"
	}
	prompt := fmt.Sprintf(
		"Diagnose this scooter issue and propose an action plan.\n"+
			"Scooter: %s\nTitle: %s\nPriority: %s\nDescription: %s",
		scooter, stored.Title, stored.Priority, stored.Description,
	)
	diagnosis, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("advisory diagnosis request failed: %w", err)
	}
	nextAction := deriveNextAction(diagnosis, technicalActionRules, technicalActionFallback)

	if err := s.store.SetStatus(ctx, c.ID, schemas.StatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to mark complaint in progress: %w", err)
	}
	subject := fmt.Sprintf("Update on your VoltRide complaint %s", c.ID)
	body := fmt.Sprintf("Hello,\n\nOur technical crew has assessed your complaint %q:\n\n%s\n\nPlanned action: %s\n\nVoltRide Support", stored.Title, diagnosis, nextAction)
	if err := s.notifier.EmailCustomer(ctx, stored.CustomerEmail, subject, body); err != nil {
		return nil, fmt.Errorf("failed to email customer: %w", err)
	}

	return &schemas.Outcome{
		Result:     "Technical assessment completed",
		Reasoning:  diagnosis,
		Confidence: technicalConfidence,
		NextAction: nextAction,
		Data:       map[string]any{"scooterId": stored.ScooterID},
		ToolUsed:   toolAdvisory,
	}, nil
}

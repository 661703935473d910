// File: internal/crew/station.go
package crew

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

var stationActionRules = []actionRule{
	{marker: "rebalance", action: "Schedule a rebalancing run for the station"},
	{marker: "dock", action: "Send a crew to service the docking points"},
	{marker: "relocate", action: "Relocate idle scooters to cover the station"},
}

const stationActionFallback = "Flag the station for the next patrol sweep"

// StationStage handles complaints about station availability and condition.
type StationStage struct {
	store    schemas.ComplaintStore
	advisor  schemas.AdvisoryClient
	notifier schemas.Notifier
	log      *zap.Logger
}

func NewStationStage(store schemas.ComplaintStore, advisor schemas.AdvisoryClient, notifier schemas.Notifier, logger *zap.Logger) *StationStage {
	return &StationStage{store: store, advisor: advisor, notifier: notifier, log: logger.Named("crew.station")}
}

func (s *StationStage) Name() string { return StageStationOperations }

func (s *StationStage) Handle(ctx context.Context, c *schemas.Complaint) (*schemas.Outcome, error) {
	stored, err := s.store.Get(ctx, c.ID)
	if err != nil {
		if errors.Is(err, schemas.ErrComplaintNotFound) {
			s.log.Warn("Complaint missing from store, escalating", zap.String("complaint_id", c.ID))
			return notFoundOutcome(c.ID), nil
		}
		return nil, fmt.Errorf("store lookup failed: %w", err)
	}

	station := stored.StationID
	if station == "" {
		station = "unspecified"
	}
	prompt := fmt.Sprintf(
		"Assess this station operations complaint and propose corrective work.\n"+
			"Station: %s\nTitle: %s\nPriority: %s\nDescription: %s",
		station, stored.Title, stored.Priority, stored.Description,
	)
	assessment, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("advisory assessment request failed: %w", err)
	}
	nextAction := deriveNextAction(assessment, stationActionRules, stationActionFallback)

	if err := s.store.SetStatus(ctx, c.ID, schemas.StatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to mark complaint in progress: %w", err)
	}
	subject := fmt.Sprintf("Update on your VoltRide complaint %s", c.ID)
	body := fmt.Sprintf("Hello,\n\nOur station operations crew has assessed your complaint %q:\n\n%s\n\nPlanned action: %s\n\nVoltRide Support", stored.Title, assessment, nextAction)
	if err := s.notifier.EmailCustomer(ctx, stored.CustomerEmail, subject, body); err != nil {
		return nil, fmt.Errorf("failed to email customer: %w", err)
	}

	return &schemas.Outcome{
		Result:     "Station operations assessment completed",
		Reasoning:  assessment,
		Confidence: stationConfidence,
		NextAction: nextAction,
		Data:       map[string]any{"stationId": stored.StationID},
		ToolUsed:   toolAdvisory,
	}, nil
}

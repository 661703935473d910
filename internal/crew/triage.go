// File: internal/crew/triage.go
package crew

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

// TriageStage is the entry stage of every run. It analyzes the complaint
// text, asks the advisory service for a routing recommendation, resolves the
// recommendation to a specialist, and hands the complaint off.
type TriageStage struct {
	store    schemas.ComplaintStore
	analyzer schemas.Analyzer
	advisor  schemas.AdvisoryClient
	notifier schemas.Notifier
	log      *zap.Logger
}

func NewTriageStage(store schemas.ComplaintStore, analyzer schemas.Analyzer, advisor schemas.AdvisoryClient, notifier schemas.Notifier, logger *zap.Logger) *TriageStage {
	return &TriageStage{
		store:    store,
		analyzer: analyzer,
		advisor:  advisor,
		notifier: notifier,
		log:      logger.Named("crew.triage"),
	}
}

func (s *TriageStage) Name() string { return StageTriage }

func (s *TriageStage) Handle(ctx context.Context, c *schemas.Complaint) (*schemas.Outcome, error) {
	analysis, err := s.analyzer.Analyze(ctx, c.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze complaint text: %w", err)
	}
	s.log.Debug("Complaint text analyzed",
		zap.String("complaint_id", c.ID),
		zap.String("sentiment", analysis.Sentiment),
		zap.Strings("keywords", analysis.Keywords),
	)

	prompt := fmt.Sprintf(
		"A customer complaint needs to be routed to a specialist.\n"+
			"Category: %s\nPriority: %s\nSentiment: %s\nKeywords: %s\n\n"+
			"Recommend exactly one owner: Technician, Finance Officer, or Station Manager. "+
			"Recommend Management only if the case clearly spans multiple teams.",
		c.Category, c.Priority, analysis.Sentiment, strings.Join(analysis.Keywords, ", "),
	)
	recommendation, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("advisory routing request failed: %w", err)
	}

	role := RouteRecommendation(recommendation)

	if err := s.store.SetStatus(ctx, c.ID, schemas.StatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to mark complaint in progress: %w", err)
	}
	msg := fmt.Sprintf("Complaint %s (%s/%s) has been assigned to you: %s", c.ID, c.Category, c.Priority, c.Title)
	if err := s.notifier.NotifyAgent(ctx, string(role), msg); err != nil {
		return nil, fmt.Errorf("failed to notify %s: %w", role, err)
	}

	s.log.Info("Complaint triaged", zap.String("complaint_id", c.ID), zap.String("routed_to", string(role)))

	return &schemas.Outcome{
		Result:     fmt.Sprintf("Complaint triaged and routed to %s", role),
		Reasoning:  recommendation,
		Confidence: triageConfidence,
		NextAction: fmt.Sprintf("Hand off to %s", role),
		Data: map[string]any{
			recommendedAgentKey: string(role),
			"sentiment":         analysis.Sentiment,
			"keywords":          analysis.Keywords,
		},
		ToolUsed: toolAdvisory,
	}, nil
}

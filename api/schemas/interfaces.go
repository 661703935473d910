// File: api/schemas/interfaces.go
// Description: Canonical collaborator contracts consumed by the crew core.
// The workflow only ever depends on these interfaces; concrete adapters
// (Postgres, Kafka/SMTP, Gemini) live under internal/ and are injected.

package schemas

import (
	"context"
	"errors"
)

// ErrComplaintNotFound is returned by ComplaintStore implementations when the
// requested complaint does not exist. Stages treat it as a recoverable
// condition, not a failure.
var ErrComplaintNotFound = errors.New("complaint not found")

// ComplaintStore is the persistent system of record for complaints. Status
// transitions always go through it; the workflow never mutates a complaint
// in place.
type ComplaintStore interface {
	// Get returns the stored complaint, or an error satisfying
	// errors.Is(err, ErrComplaintNotFound) when absent.
	Get(ctx context.Context, id string) (*Complaint, error)
	SetStatus(ctx context.Context, id string, status Status) error
	AppendResolutionSummary(ctx context.Context, id, summary string) error
}

// Notifier dispatches outbound notifications to crew agents and customers.
type Notifier interface {
	NotifyAgent(ctx context.Context, agent, message string) error
	EmailCustomer(ctx context.Context, address, subject, body string) error
}

// Analysis is the result of running text analysis over a complaint
// description.
type Analysis struct {
	Sentiment string   `json:"sentiment"`
	Keywords  []string `json:"keywords"`
}

// Analyzer extracts a sentiment label and keywords from free text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

// AdvisoryClient is the language-model-backed advisory capability. Given a
// textual description of the situation it returns free-form guidance. The
// contract promises nothing about latency, determinism, or output structure.
type AdvisoryClient interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

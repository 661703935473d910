// File: api/schemas/complaint.go
// Description: Canonical complaint domain types shared across the whole
// application. Collaborator interfaces live in interfaces.go; keeping both at
// the API level avoids import cycles between the crew core and its adapters.

package schemas

import (
	"fmt"
	"time"
)

// Category classifies what a complaint is about.
type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryBilling   Category = "billing"
	CategoryService   Category = "service"
	CategoryGeneral   Category = "general"
)

// Priority expresses the urgency assigned to a complaint.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status is the lifecycle state of a complaint. It is mutated only through
// the ComplaintStore, never directly by the workflow.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusEscalated  Status = "escalated"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Complaint is the unit of work flowing through the crew.
type Complaint struct {
	ID                string    `json:"id"`
	CustomerID        string    `json:"customer_id"`
	CustomerEmail     string    `json:"customer_email"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          Category  `json:"category"`
	Priority          Priority  `json:"priority"`
	Status            Status    `json:"status"`
	ScooterID         string    `json:"scooter_id,omitempty"`
	StationID         string    `json:"station_id,omitempty"`
	ResolutionSummary string    `json:"resolution_summary,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Validate rejects complaints carrying values outside the fixed enumerations.
// Unknown categories or priorities are a contract violation at the boundary,
// not a runtime state the workflow has to tolerate.
func (c *Complaint) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("complaint is missing an id")
	}
	switch c.Category {
	case CategoryTechnical, CategoryBilling, CategoryService, CategoryGeneral:
	default:
		return fmt.Errorf("unknown complaint category %q", c.Category)
	}
	switch c.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
	default:
		return fmt.Errorf("unknown complaint priority %q", c.Priority)
	}
	return nil
}

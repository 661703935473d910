// File: internal/crew/routing.go
// Description: The two business rules that shape a run: which specialist the
// triage recommendation maps to, and whether management must also review.

package crew

import (
	"strings"

	"github.com/voltride/crew-cli/api/schemas"
)

// AgentRole identifies a crew specialist. The values double as the routing
// tokens triage scans for in the advisory recommendation.
type AgentRole string

const (
	RoleTechnician     AgentRole = "Technician"
	RoleFinanceOfficer AgentRole = "Finance Officer"
	RoleStationManager AgentRole = "Station Manager"
	RoleManagement     AgentRole = "Management"
)

// routingOrder fixes the scan priority. First match wins, so a recommendation
// mentioning both a technician and a finance officer routes to the technician.
var routingOrder = []AgentRole{RoleTechnician, RoleFinanceOfficer, RoleStationManager}

// RouteRecommendation maps a free-text routing recommendation to a concrete
// specialist. It is total: text matching none of the tokens routes to
// management rather than failing.
func RouteRecommendation(text string) AgentRole {
	for _, role := range routingOrder {
		if containsFold(text, string(role)) {
			return role
		}
	}
	return RoleManagement
}

// escalationConfidenceFloor is the specialist confidence below which
// management review is forced.
const escalationConfidenceFloor = 0.7

// ShouldEscalate decides whether the management stage must additionally run
// after the specialist. It triggers on high-stakes priorities or on a
// low-confidence specialist outcome, so neither ever reaches the customer
// without cross-functional review.
func ShouldEscalate(priority schemas.Priority, specialist *schemas.Outcome) bool {
	if priority == schemas.PriorityHigh || priority == schemas.PriorityCritical {
		return true
	}
	return specialist.Confidence < escalationConfidenceFloor
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

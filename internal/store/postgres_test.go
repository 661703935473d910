// internal/store/postgres_test.go
package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

// flexibleSQLMatcher builds a regex insensitive to whitespace so the mock
// expectations survive query reformatting.
func flexibleSQLMatcher(sql string) string {
	trimmed := strings.TrimSpace(sql)
	return regexp.MustCompile(`\s+`).ReplaceAllString(regexp.QuoteMeta(trimmed), `\s+`)
}

func strPtr(s string) *string { return &s }

var complaintColumns = []string{
	"id", "customer_id", "customer_email", "title", "description",
	"category", "priority", "status",
	"scooter_id", "station_id", "resolution_summary",
	"created_at", "updated_at",
}

func newTestStore(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	mockPool.ExpectPing()
	s, err := New(context.Background(), mockPool, zap.NewNop())
	require.NoError(t, err)
	return s, mockPool
}

func TestNewStorePingFailure(t *testing.T) {
	mockPool, err := pgxmock.NewPool(pgxmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockPool.Close()

	pingErr := errors.New("database unavailable")
	mockPool.ExpectPing().WillReturnError(pingErr)

	_, err = New(context.Background(), mockPool, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, pingErr)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetComplaint(t *testing.T) {
	s, mockPool := newTestStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(complaintColumns).AddRow(
		"CMP-1", "CUST-9", "rider@example.com", "Dead scooter", "It will not start.",
		"technical", "high", "open",
		strPtr("SC-001"), (*string)(nil), (*string)(nil),
		now, now,
	)
	mockPool.ExpectQuery(flexibleSQLMatcher(getComplaintSQL)).WithArgs("CMP-1").WillReturnRows(rows)

	c, err := s.Get(context.Background(), "CMP-1")
	require.NoError(t, err)
	assert.Equal(t, "CMP-1", c.ID)
	assert.Equal(t, schemas.CategoryTechnical, c.Category)
	assert.Equal(t, schemas.PriorityHigh, c.Priority)
	assert.Equal(t, schemas.StatusOpen, c.Status)
	assert.Equal(t, "SC-001", c.ScooterID)
	assert.Empty(t, c.StationID, "NULL station_id maps to the empty string")
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetComplaintNotFound(t *testing.T) {
	s, mockPool := newTestStore(t)
	mockPool.ExpectQuery(flexibleSQLMatcher(getComplaintSQL)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(complaintColumns))

	_, err := s.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, schemas.ErrComplaintNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSetStatus(t *testing.T) {
	s, mockPool := newTestStore(t)
	mockPool.ExpectExec("UPDATE complaints SET status").
		WithArgs("CMP-1", "in_progress").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.SetStatus(context.Background(), "CMP-1", schemas.StatusInProgress))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSetStatusNotFound(t *testing.T) {
	s, mockPool := newTestStore(t)
	mockPool.ExpectExec("UPDATE complaints SET status").
		WithArgs("missing", "resolved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.SetStatus(context.Background(), "missing", schemas.StatusResolved)
	assert.ErrorIs(t, err, schemas.ErrComplaintNotFound)
}

func TestAppendResolutionSummary(t *testing.T) {
	s, mockPool := newTestStore(t)
	mockPool.ExpectExec("UPDATE complaints SET resolution_summary").
		WithArgs("CMP-1", "refund issued").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.AppendResolutionSummary(context.Background(), "CMP-1", "refund issued"))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

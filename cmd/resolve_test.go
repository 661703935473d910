// -- cmd/resolve_test.go --
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltride/crew-cli/api/schemas"
	"github.com/voltride/crew-cli/internal/store"
)

func writeComplaintJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadComplaintFile(t *testing.T) {
	dir := t.TempDir()
	path := writeComplaintJSON(t, dir, "complaint.json", `{
		"id": "CMP-2001",
		"customer_id": "CU-9",
		"customer_email": "rider@example.com",
		"title": "Scooter will not unlock",
		"description": "The app spins forever on scooter SC-77.",
		"category": "technical",
		"priority": "high",
		"scooter_id": "SC-77"
	}`)

	c, err := readComplaintFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CMP-2001", c.ID)
	assert.Equal(t, schemas.CategoryTechnical, c.Category)
	assert.Equal(t, schemas.PriorityHigh, c.Priority)
	assert.Equal(t, schemas.StatusOpen, c.Status, "status defaults to open when omitted")
}

func TestReadComplaintFileRejectsUnknownCategory(t *testing.T) {
	dir := t.TempDir()
	path := writeComplaintJSON(t, dir, "bad.json", `{
		"id": "CMP-2002",
		"category": "weather",
		"priority": "low"
	}`)

	_, err := readComplaintFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown complaint category")
}

func TestReadComplaintFileRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeComplaintJSON(t, dir, "broken.json", `{"id": "CMP-`)

	_, err := readComplaintFile(path)
	require.Error(t, err)
}

func TestLoadComplaintsFromDirectorySortsByID(t *testing.T) {
	dir := t.TempDir()
	writeComplaintJSON(t, dir, "b.json", `{"id": "CMP-2", "category": "billing", "priority": "low"}`)
	writeComplaintJSON(t, dir, "a.json", `{"id": "CMP-3", "category": "service", "priority": "medium"}`)
	writeComplaintJSON(t, dir, "c.json", `{"id": "CMP-1", "category": "technical", "priority": "high"}`)
	writeComplaintJSON(t, dir, "notes.txt", "not a complaint")

	resetResolveFlags(t)
	resolveDir = dir

	complaints, err := loadComplaints(context.Background(), store.NewMemory())
	require.NoError(t, err)
	require.Len(t, complaints, 3)
	assert.Equal(t, "CMP-1", complaints[0].ID)
	assert.Equal(t, "CMP-2", complaints[1].ID)
	assert.Equal(t, "CMP-3", complaints[2].ID)
}

func TestLoadComplaintsFromEmptyDirectory(t *testing.T) {
	resetResolveFlags(t)
	resolveDir = t.TempDir()

	_, err := loadComplaints(context.Background(), store.NewMemory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no *.json complaints")
}

func TestLoadComplaintsByID(t *testing.T) {
	mem := store.NewMemory()
	mem.Put(&schemas.Complaint{
		ID:       "CMP-55",
		Category: schemas.CategoryBilling,
		Priority: schemas.PriorityLow,
		Status:   schemas.StatusOpen,
	})

	resetResolveFlags(t)
	resolveID = "CMP-55"

	complaints, err := loadComplaints(context.Background(), mem)
	require.NoError(t, err)
	require.Len(t, complaints, 1)
	assert.Equal(t, "CMP-55", complaints[0].ID)
}

func TestLoadComplaintsByIDNotFound(t *testing.T) {
	resetResolveFlags(t)
	resolveID = "CMP-404"

	_, err := loadComplaints(context.Background(), store.NewMemory())
	require.ErrorIs(t, err, schemas.ErrComplaintNotFound)
}

// resetResolveFlags clears the flag-backed package vars and restores the
// previous values when the test finishes.
func resetResolveFlags(t *testing.T) {
	t.Helper()
	prevFile, prevID, prevDir := resolveFile, resolveID, resolveDir
	resolveFile, resolveID, resolveDir = "", "", ""
	t.Cleanup(func() {
		resolveFile, resolveID, resolveDir = prevFile, prevID, prevDir
	})
}

// File: internal/store/memory.go
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voltride/crew-cli/api/schemas"
)

// Memory is an in-process schemas.ComplaintStore. It backs dry runs, where
// complaints come from local files rather than the fleet database, and keeps
// tests free of infrastructure. Safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	complaints map[string]*schemas.Complaint
}

func NewMemory() *Memory {
	return &Memory{complaints: make(map[string]*schemas.Complaint)}
}

// Put stores a copy of the complaint, keyed by id.
func (m *Memory) Put(c *schemas.Complaint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.complaints[c.ID] = &cp
}

func (m *Memory) Get(ctx context.Context, id string) (*schemas.Complaint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.complaints[id]
	if !ok {
		return nil, fmt.Errorf("complaint %s: %w", id, schemas.ErrComplaintNotFound)
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) SetStatus(ctx context.Context, id string, status schemas.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return fmt.Errorf("complaint %s: %w", id, schemas.ErrComplaintNotFound)
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) AppendResolutionSummary(ctx context.Context, id, summary string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return fmt.Errorf("complaint %s: %w", id, schemas.ErrComplaintNotFound)
	}
	c.ResolutionSummary = summary
	c.UpdatedAt = time.Now().UTC()
	return nil
}

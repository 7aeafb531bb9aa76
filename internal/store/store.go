// Package store persists leads behind a driver-agnostic interface.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intake/internal/model"
)

// ErrNotFound is returned when a lead id does not exist.
var ErrNotFound = eris.New("lead not found")

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Stage  model.Stage `json:"stage,omitempty"`
	Limit  int         `json:"limit,omitempty"`
	Offset int         `json:"offset,omitempty"`
}

// Store defines the persistence interface for the intake pipeline.
// CreateLead assigns the id and fails if it already exists; UpdateLead
// fails with ErrNotFound if it does not.
type Store interface {
	CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	UpdateLead(ctx context.Context, id string, lead model.Lead) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

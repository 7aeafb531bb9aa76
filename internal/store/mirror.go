package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sells-group/lead-intake/internal/model"
)

// MirrorStore decorates a Store, writing a JSON snapshot of every lead
// to <dir>/<id>.json after each successful create or update. Mirror
// failures are logged and never propagated; the database row is the
// source of truth.
type MirrorStore struct {
	Store
	dir string
}

// NewMirror wraps inner with a file mirror rooted at dir. The
// directory is created if it does not exist.
func NewMirror(inner Store, dir string) (*MirrorStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &MirrorStore{Store: inner, dir: dir}, nil
}

func (m *MirrorStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	created, err := m.Store.CreateLead(ctx, lead)
	if err != nil {
		return nil, err
	}
	m.write(created)
	return created, nil
}

func (m *MirrorStore) UpdateLead(ctx context.Context, id string, lead model.Lead) error {
	if err := m.Store.UpdateLead(ctx, id, lead); err != nil {
		return err
	}
	lead.ID = id
	m.write(&lead)
	return nil
}

func (m *MirrorStore) write(lead *model.Lead) {
	path := filepath.Join(m.dir, lead.ID+".json")

	data, err := json.MarshalIndent(lead, "", "  ")
	if err != nil {
		zap.L().Warn("mirror marshal failed",
			zap.String("lead_id", lead.ID),
			zap.Error(err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		zap.L().Warn("mirror write failed",
			zap.String("lead_id", lead.ID),
			zap.String("path", path),
			zap.Error(err))
	}
}

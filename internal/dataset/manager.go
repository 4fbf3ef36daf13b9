// Package dataset owns the relational representation of datasets. Every
// operation is scoped by the owning user: a dataset belonging to someone else
// is indistinguishable from one that does not exist.
package dataset

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/ingest"
)

// ErrNotFound is returned when the dataset is absent or owned by another
// user. The two cases are deliberately not distinguished.
var ErrNotFound = errors.New("dataset not found")

// Patch carries a partial update. Only non-nil fields are applied.
type Patch struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	SchemaInfo  map[string]interface{} `json:"schema_info"`
	Metadata    map[string]interface{} `json:"metadata"`
	Status      *entity.DatasetStatus  `json:"status"`
}

type Manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// Create persists a dataset row from an ingestion result. Status is always
// uploaded regardless of input.
func (m *Manager) Create(ctx context.Context, ownerID uuid.UUID, name, description string, res *ingest.Result) (*entity.Dataset, error) {
	ds := entity.Dataset{
		UserID:      ownerID,
		Name:        name,
		Description: description,
		FilePath:    res.StorageKey,
		FileSize:    res.ByteCount,
		FileType:    res.Category,
		Metadata:    datatypes.JSONMap(res.Metadata),
		Status:      entity.DatasetStatusUploaded,
	}
	if err := m.db.WithContext(ctx).Create(&ds).Error; err != nil {
		return nil, err
	}
	return &ds, nil
}

// List returns the owner's datasets, newest first.
func (m *Manager) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Dataset, error) {
	datasets := []entity.Dataset{}
	err := m.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&datasets).Error
	if err != nil {
		return nil, err
	}
	return datasets, nil
}

func (m *Manager) Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Dataset, error) {
	var ds entity.Dataset
	err := m.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

// Update applies a patch field by field; fields absent from the patch are
// left untouched. updated_at is refreshed by gorm on save.
func (m *Manager) Update(ctx context.Context, ownerID, id uuid.UUID, patch Patch) (*entity.Dataset, error) {
	ds, err := m.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		ds.Name = *patch.Name
	}
	if patch.Description != nil {
		ds.Description = *patch.Description
	}
	if patch.SchemaInfo != nil {
		ds.SchemaInfo = datatypes.JSONMap(patch.SchemaInfo)
	}
	if patch.Metadata != nil {
		ds.Metadata = datatypes.JSONMap(patch.Metadata)
	}
	if patch.Status != nil {
		ds.Status = *patch.Status
	}

	if err := m.db.WithContext(ctx).Save(ds).Error; err != nil {
		return nil, err
	}
	return ds, nil
}

// Delete removes the row; analyses cascade at the relational level. The
// backing stored object is intentionally left in place for now, see the
// lifecycle notes in DESIGN.md.
func (m *Manager) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	ds, err := m.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	return m.db.WithContext(ctx).Delete(ds).Error
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PipelineStatus string

const (
	PipelineStatusDraft    PipelineStatus = "draft"
	PipelineStatusActive   PipelineStatus = "active"
	PipelineStatusArchived PipelineStatus = "archived"
)

func (s PipelineStatus) Valid() bool {
	switch s {
	case PipelineStatusDraft, PipelineStatusActive, PipelineStatusArchived:
		return true
	}
	return false
}

// TransformationPipeline stores a declared transformation over source
// datasets. Steps and source_datasets are JSON documents so the shape can
// evolve without migrations; nothing executes them yet.
type TransformationPipeline struct {
	ID             uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Name           string            `json:"name" gorm:"type:varchar(255);not null"`
	Description    string            `json:"description" gorm:"type:text"`
	Steps          datatypes.JSON    `json:"steps" gorm:"type:jsonb"`
	SourceDatasets datatypes.JSON    `json:"source_datasets" gorm:"type:jsonb"`
	TargetSchema   datatypes.JSONMap `json:"target_schema" gorm:"type:jsonb"`
	Status         PipelineStatus    `json:"status" gorm:"type:varchar(50);not null;default:'draft'"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (TransformationPipeline) TableName() string { return "transformation_pipelines" }

func (p *TransformationPipeline) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PipelineStatusDraft
	}
	if p.Steps == nil {
		p.Steps = datatypes.JSON([]byte("[]"))
	}
	if p.SourceDatasets == nil {
		p.SourceDatasets = datatypes.JSON([]byte("[]"))
	}
	if p.TargetSchema == nil {
		p.TargetSchema = datatypes.JSONMap{}
	}
	return nil
}

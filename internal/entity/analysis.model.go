package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnalysisStatus string

const (
	AnalysisStatusPending   AnalysisStatus = "pending"
	AnalysisStatusRunning   AnalysisStatus = "running"
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusError     AnalysisStatus = "error"
)

func (s AnalysisStatus) Valid() bool {
	switch s {
	case AnalysisStatusPending, AnalysisStatusRunning, AnalysisStatusCompleted, AnalysisStatusError:
		return true
	}
	return false
}

// AnalysisHistory is a metadata-only record of a query run against a dataset.
// No execution engine populates results yet.
type AnalysisHistory struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	DatasetID     uuid.UUID         `json:"dataset_id" gorm:"type:uuid;not null;index"`
	QueryText     string            `json:"query_text" gorm:"type:text"`
	QueryIntent   datatypes.JSONMap `json:"query_intent" gorm:"type:jsonb"`
	ExecutionPlan datatypes.JSONMap `json:"execution_plan" gorm:"type:jsonb"`
	Results       datatypes.JSONMap `json:"results" gorm:"type:jsonb"`
	ExecutionTime int64             `json:"execution_time"`
	Status        AnalysisStatus    `json:"status" gorm:"type:varchar(50);not null;default:'pending'"`
	ErrorMessage  string            `json:"error_message" gorm:"type:text"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (AnalysisHistory) TableName() string { return "analysis_history" }

func (a *AnalysisHistory) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AnalysisStatusPending
	}
	if a.QueryIntent == nil {
		a.QueryIntent = datatypes.JSONMap{}
	}
	if a.ExecutionPlan == nil {
		a.ExecutionPlan = datatypes.JSONMap{}
	}
	if a.Results == nil {
		a.Results = datatypes.JSONMap{}
	}
	return nil
}

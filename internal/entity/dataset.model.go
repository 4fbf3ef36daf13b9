package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DatasetStatus string

const (
	DatasetStatusUploaded   DatasetStatus = "uploaded"
	DatasetStatusProcessing DatasetStatus = "processing"
	DatasetStatusReady      DatasetStatus = "ready"
	DatasetStatusError      DatasetStatus = "error"
)

// Valid reports whether the value is one of the known dataset statuses.
func (s DatasetStatus) Valid() bool {
	switch s {
	case DatasetStatusUploaded, DatasetStatusProcessing, DatasetStatusReady, DatasetStatusError:
		return true
	}
	return false
}

type Dataset struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Name        string            `json:"name" gorm:"type:varchar(255);not null"`
	Description string            `json:"description" gorm:"type:text"`
	FilePath    string            `json:"file_path" gorm:"type:varchar(500)"`
	FileSize    int64             `json:"file_size"`
	FileType    string            `json:"file_type" gorm:"type:varchar(50)"`
	SchemaInfo  datatypes.JSONMap `json:"schema_info" gorm:"type:jsonb"`
	Metadata    datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	Status      DatasetStatus     `json:"status" gorm:"type:varchar(50);not null;default:'uploaded'"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Analyses []AnalysisHistory `json:"-" gorm:"foreignKey:DatasetID;constraint:OnDelete:CASCADE"`
}

func (Dataset) TableName() string { return "datasets" }

func (d *Dataset) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = DatasetStatusUploaded
	}
	if d.SchemaInfo == nil {
		d.SchemaInfo = datatypes.JSONMap{}
	}
	if d.Metadata == nil {
		d.Metadata = datatypes.JSONMap{}
	}
	return nil
}

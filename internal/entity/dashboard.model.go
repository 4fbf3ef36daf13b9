package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Dashboard struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Name        string            `json:"name" gorm:"type:varchar(255);not null"`
	Description string            `json:"description" gorm:"type:text"`
	Config      datatypes.JSONMap `json:"config" gorm:"type:jsonb"`
	Layout      datatypes.JSONMap `json:"layout" gorm:"type:jsonb"`
	IsPublic    bool              `json:"is_public" gorm:"default:false"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Dashboard) TableName() string { return "dashboards" }

func (d *Dashboard) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Config == nil {
		d.Config = datatypes.JSONMap{}
	}
	if d.Layout == nil {
		d.Layout = datatypes.JSONMap{}
	}
	return nil
}

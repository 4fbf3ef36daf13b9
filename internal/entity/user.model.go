package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelExpert       SkillLevel = "expert"
)

// Valid reports whether the value is one of the known skill levels.
func (s SkillLevel) Valid() bool {
	switch s {
	case SkillLevelBeginner, SkillLevelIntermediate, SkillLevelExpert:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string            `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string            `json:"-" gorm:"type:varchar(255);not null"`
	SkillLevel   SkillLevel        `json:"skill_level" gorm:"type:varchar(50);not null;default:'beginner'"`
	Preferences  datatypes.JSONMap `json:"preferences" gorm:"type:jsonb"`
	IsActive     bool              `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Datasets   []Dataset                `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Analyses   []AnalysisHistory        `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Pipelines  []TransformationPipeline `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Dashboards []Dashboard              `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate generates the primary key in-process so the same model works
// on both postgres and the sqlite test driver.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.SkillLevel == "" {
		u.SkillLevel = SkillLevelBeginner
	}
	if u.Preferences == nil {
		u.Preferences = datatypes.JSONMap{}
	}
	return nil
}

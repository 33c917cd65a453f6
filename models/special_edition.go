package models

import (
	"time"

	"github.com/motopaint/paintshop-app/workflow"
)

// SpecialEdition is a preset: a named set of parts with default
// colors/finishes that gets cloned onto a new order's items.
type SpecialEdition struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	Name      string               `gorm:"type:varchar(150);not null" json:"name"`
	ModelID   uint                 `gorm:"not null" json:"model_id"`
	ModelName string               `gorm:"type:varchar(150);not null" json:"model_name"`
	Items     []SpecialEditionItem `gorm:"foreignKey:SpecialEditionID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type SpecialEditionItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	SpecialEditionID  uint            `gorm:"not null;index" json:"special_edition_id"`
	PartID            uint            `gorm:"not null" json:"part_id"`
	PartName          string          `gorm:"type:varchar(150);not null" json:"part_name"`
	DefaultColorID    *uint           `json:"default_color_id,omitempty"`
	DefaultColorName  string          `gorm:"type:varchar(100)" json:"default_color_name,omitempty"`
	DefaultColorCode  string          `gorm:"type:varchar(20)" json:"default_color_code,omitempty"`
	HasDecals         bool            `json:"has_decals"`
	AccessoriesDetail string          `gorm:"type:varchar(255)" json:"accessories_detail,omitempty"`
	DefaultFinish     workflow.Finish `gorm:"type:varchar(20)" json:"default_finish,omitempty"`
}

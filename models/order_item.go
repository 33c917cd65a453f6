package models

import (
	"time"

	"github.com/motopaint/paintshop-app/workflow"
)

// OrderItem is one physical piece on one order, with its own stage,
// area, assignment and history. FinishType is fixed at creation and
// never changes; it alone decides whether the piece visits PULIDO.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order from JSON to avoid recursive nesting
	Order *Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	InternalCode string `gorm:"type:varchar(20);unique;not null" json:"internal_code"` // {MM}{YY}-{seq}

	PartID            uint            `gorm:"not null" json:"part_id"`
	PartName          string          `gorm:"type:varchar(150);not null" json:"part_name"`
	ColorID           uint            `json:"color_id"`
	ColorName         string          `gorm:"type:varchar(100)" json:"color_name"`
	ColorCode         string          `gorm:"type:varchar(20)" json:"color_code"`
	HasDecals         bool            `json:"has_decals"`
	AccessoriesDetail string          `gorm:"type:varchar(255)" json:"accessories_detail,omitempty"`
	FinishType        workflow.Finish `gorm:"type:varchar(20);not null" json:"finish_type"`

	CurrentStatus workflow.Stage `gorm:"type:varchar(30);not null;index" json:"current_status"`
	// LastStatus holds the stage the piece was working when it entered
	// EN_REVISION; approval resumes forward movement from it.
	LastStatus  *workflow.Stage `gorm:"type:varchar(30)" json:"last_status,omitempty"`
	CurrentArea workflow.Area   `gorm:"type:varchar(30);not null;index" json:"current_area"`

	AssignedEmployeeID *uint     `gorm:"index" json:"assigned_employee_id,omitempty"`
	AssignedEmployee   *Employee `gorm:"foreignKey:AssignedEmployeeID" json:"assigned_employee,omitempty"`

	ReworkCount int `gorm:"not null;default:0" json:"rework_count"`

	History []ItemHistoryEntry `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"history"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Active reports whether the piece counts against an operator's
// personal queue: assigned, not in review, not finished.
func (i *OrderItem) Active() bool {
	return i.AssignedEmployeeID != nil &&
		i.CurrentStatus != workflow.StageEnRevision &&
		i.CurrentStatus != workflow.StageFinalizada
}

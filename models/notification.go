package models

import "time"

type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"not null;index" json:"employee_id"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

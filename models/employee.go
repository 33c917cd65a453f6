package models

import (
	"time"

	"github.com/motopaint/paintshop-app/workflow"
)

// Employee roles. LIDER assigns and approves inside an area, OPERARIO
// executes assigned work, MENSAJERO is the delivery-area operator,
// RECEPCION runs order intake.
const (
	RoleAdmin     = "ADMIN"
	RoleLider     = "LIDER"
	RoleOperario  = "OPERARIO"
	RoleRecepcion = "RECEPCION"
	RoleMensajero = "MENSAJERO"
)

type Employee struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Username string `gorm:"type:varchar(100);unique;not null" json:"username"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Email    string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Role     string `gorm:"type:varchar(20);not null" json:"role"`
	// Area is the home station; required for LIDER, optional otherwise.
	Area      *workflow.Area `gorm:"type:varchar(30)" json:"area,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

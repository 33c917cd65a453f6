package services

import (
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/board"
	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/utils"
)

// Notify persists a message for an employee and mirrors it to any open
// websocket. Fire-and-forget: a failed notification is logged and
// never fails the command that triggered it.
func Notify(db *gorm.DB, employeeID uint, message string) {
	n := models.Notification{
		EmployeeID: employeeID,
		Message:    message,
	}
	if err := db.Create(&n).Error; err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Failed to store notification for employee %d: %v", employeeID, err)
		}
		return
	}
	board.BroadcastNotification(n)
}

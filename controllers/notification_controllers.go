package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetMyNotifications -> newest first for the logged-in employee
func (nc *NotificationController) GetMyNotifications(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var notifications []models.Notification
	if err := nc.DB.Where("employee_id = ?", userID).
		Order("created_at desc").Find(&notifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifications)
}

// MarkRead -> PATCH /notifications/:notification_id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var notification models.Notification
	if err := nc.DB.Where("id = ? AND employee_id = ?", c.Param("notification_id"), userID).
		First(&notification).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	notification.Read = true
	if err := nc.DB.Save(&notification).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notification)
}

// MarkAllRead -> PATCH /notifications/read-all
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	if err := nc.DB.Model(&models.Notification{}).
		Where("employee_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}

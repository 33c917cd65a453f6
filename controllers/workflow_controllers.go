package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/services"
	"github.com/motopaint/paintshop-app/utils"
	"github.com/motopaint/paintshop-app/workflow"
)

// WorkflowController exposes the six workflow commands. It only parses
// and maps errors; the rules live in services.WorkflowService.
type WorkflowController struct {
	DB      *gorm.DB
	Service *services.WorkflowService
}

func NewWorkflowController(db *gorm.DB) *WorkflowController {
	return &WorkflowController{DB: db, Service: services.NewWorkflowService(db)}
}

// actorFromContext rebuilds the acting employee from the JWT claims so
// history rows carry both the stable id and the display name.
func (wc *WorkflowController) actorFromContext(c *gin.Context) (services.Actor, *models.Employee, error) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		return services.Actor{}, nil, errors.New("user id not found in context")
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		return services.Actor{}, nil, errors.New("invalid user id type")
	}

	var employee models.Employee
	if err := wc.DB.First(&employee, userID).Error; err != nil {
		return services.Actor{}, nil, errors.New("employee not found")
	}

	actor := services.Actor{ID: &employee.ID, Name: employee.Name}
	if employee.Area != nil {
		actor.Area = *employee.Area
	}
	return actor, &employee, nil
}

func respondWorkflowError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var nfErr *services.NotFoundError
	switch {
	case errors.As(err, &vErr):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &nfErr):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, workflow.ErrNoTransition):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func itemIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid item id")
	}
	return uint(id), nil
}

// AssignItems -> POST /items/assign (LIDER, ADMIN)
func (wc *WorkflowController) AssignItems(c *gin.Context) {
	actor, _, err := wc.actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		ItemIDs    []uint `json:"item_ids" binding:"required"`
		EmployeeID uint   `json:"employee_id" binding:"required"`
		Area       string `json:"area" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, err := wc.Service.AssignItems(req.ItemIDs, req.EmployeeID, workflow.Area(req.Area), actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Items assigned", items)
}

// FinishTask -> POST /items/:item_id/finish (OPERARIO, MENSAJERO)
func (wc *WorkflowController) FinishTask(c *gin.Context) {
	actor, employee, err := wc.actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	itemID, err := itemIDParam(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// body optional; only shipped deliveries need it
	var req struct {
		Shipping *services.ShippingInfo `json:"shipping"`
	}
	_ = c.ShouldBindJSON(&req)

	item, err := wc.Service.FinishTask(itemID, employee.ID, req.Shipping, actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task sent to review", item)
}

// ApproveQuality -> POST /items/approve (LIDER, ADMIN)
func (wc *WorkflowController) ApproveQuality(c *gin.Context) {
	actor, _, err := wc.actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		ItemIDs []uint `json:"item_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, err := wc.Service.ApproveQuality(req.ItemIDs, actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Items approved", items)
}

// Reprocess -> POST /items/reprocess (LIDER, ADMIN)
func (wc *WorkflowController) Reprocess(c *gin.Context) {
	actor, _, err := wc.actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	var req struct {
		ItemIDs     []uint `json:"item_ids" binding:"required"`
		TargetStage string `json:"target_stage" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, err := wc.Service.Reprocess(req.ItemIDs, workflow.Stage(req.TargetStage), req.Reason, actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Items sent to rework", items)
}

// ReportDamage -> POST /items/:item_id/damage (any shop role)
func (wc *WorkflowController) ReportDamage(c *gin.Context) {
	actor, _, err := wc.actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	itemID, err := itemIDParam(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := wc.Service.ReportDamage(itemID, req.Reason, actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Damage reported", item)
}

// ReturnTask -> POST /items/:item_id/return (OPERARIO, MENSAJERO)
func (wc *WorkflowController) ReturnTask(c *gin.Context) {
	actor, employee, err := wc.actorFromContext(c)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	itemID, err := itemIDParam(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := wc.Service.ReturnTask(itemID, employee.ID, req.Reason, actor)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task returned", item)
}

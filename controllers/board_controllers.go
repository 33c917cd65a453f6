package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/services"
	"github.com/motopaint/paintshop-app/utils"
	"github.com/motopaint/paintshop-app/workflow"
)

type BoardController struct {
	Service *services.BoardService
}

func NewBoardController(db *gorm.DB) *BoardController {
	return &BoardController{Service: services.NewBoardService(db)}
}

// AreaBoard -> GET /boards/:area?search=&urgent=true
func (bc *BoardController) AreaBoard(c *gin.Context) {
	area := workflow.Area(c.Param("area"))
	search := c.Query("search")
	urgentOnly := c.Query("urgent") == "true"

	view, err := bc.Service.AreaBoardView(area, search, urgentOnly, time.Now())
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Area board", view)
}

// MyTasks -> GET /boards/my-tasks, the operator's personal queue
func (bc *BoardController) MyTasks(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	groups, err := bc.Service.MyTasks(userID, time.Now())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My tasks", groups)
}

// AttentionCounts -> GET /boards/attention, leader badges per area
func (bc *BoardController) AttentionCounts(c *gin.Context) {
	counts, err := bc.Service.LeaderAttentionCounts()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Attention counts", counts)
}

// MyCounts -> GET /boards/my-counts, operator badges per area
func (bc *BoardController) MyCounts(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	counts, err := bc.Service.UserPendingCounts(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My pending counts", counts)
}

// Stats -> GET /dashboard/stats
func (bc *BoardController) Stats(c *gin.Context) {
	stats, err := bc.Service.Stats(time.Now())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

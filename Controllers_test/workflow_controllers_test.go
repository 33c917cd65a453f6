package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/controllers"
	"github.com/motopaint/paintshop-app/middlewares"
	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/utils"
	"github.com/motopaint/paintshop-app/workflow"
)

func setupTestDBForWorkflow(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
		&models.ItemHistoryEntry{},
		&models.Notification{},
	)
	if err != nil {
		panic(err)
	}

	area := workflow.AreaPrealistamiento
	db.Create(&models.Employee{Name: "Laura Lider", Username: "llider", Password: "x", Role: models.RoleLider, Area: &area})
	db.Create(&models.Employee{Name: "Oscar Operario", Username: "ooperario", Password: "x", Role: models.RoleOperario, Area: &area})

	order := models.Order{Code: "ORDEN0325-001", ClientID: 1, ClientName: "Carlos Rojas", ModelID: 1, ModelName: "Yamaha MT-07"}
	db.Create(&order)
	db.Create(&models.OrderItem{
		OrderID:       order.ID,
		InternalCode:  "0325-0001",
		PartID:        1,
		PartName:      "Tanque",
		FinishType:    workflow.FinishBrillante,
		CurrentStatus: workflow.StagePrealistamiento,
		CurrentArea:   workflow.AreaPrealistamiento,
	})
	return db
}

// Routes wired exactly like the real router: JWT auth + role gates.
func setupWorkflowRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	workflowCtrl := controllers.NewWorkflowController(db)

	api := router.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	api.POST("/items/assign", middlewares.RequireRoles(models.RoleLider), workflowCtrl.AssignItems)
	api.POST("/items/approve", middlewares.RequireRoles(models.RoleLider), workflowCtrl.ApproveQuality)
	api.POST("/items/reprocess", middlewares.RequireRoles(models.RoleLider), workflowCtrl.Reprocess)
	api.POST("/items/:item_id/finish", middlewares.RequireRoles(models.RoleOperario, models.RoleMensajero, models.RoleLider), workflowCtrl.FinishTask)
	api.POST("/items/:item_id/return", middlewares.RequireRoles(models.RoleOperario, models.RoleMensajero), workflowCtrl.ReturnTask)
	api.POST("/items/:item_id/damage", workflowCtrl.ReportDamage)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		buf = bytes.NewBuffer(payload)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, url, buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWorkflowCommandsOverHTTP(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForWorkflow(t)
	router := setupWorkflowRouter(db)

	leaderToken, err := utils.GenerateToken(1, models.RoleLider)
	assert.NoError(t, err)
	workerToken, err := utils.GenerateToken(2, models.RoleOperario)
	assert.NoError(t, err)

	// Operator cannot assign
	w := doJSON(t, router, "POST", "/api/items/assign", workerToken, map[string]interface{}{
		"item_ids": []uint{1}, "employee_id": 2, "area": "PREALISTAMIENTO",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Leader assigns to the operator
	w = doJSON(t, router, "POST", "/api/items/assign", leaderToken, map[string]interface{}{
		"item_ids": []uint{1}, "employee_id": 2, "area": "PREALISTAMIENTO",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Operator finishes, piece parks in review
	w = doJSON(t, router, "POST", "/api/items/1/finish", workerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.OrderItem
	assert.NoError(t, db.First(&item, 1).Error)
	assert.Equal(t, workflow.StageEnRevision, item.CurrentStatus)

	// Leader approves, piece moves to the next station
	w = doJSON(t, router, "POST", "/api/items/approve", leaderToken, map[string]interface{}{
		"item_ids": []uint{1},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&item, 1).Error)
	assert.Equal(t, workflow.StageAlistamiento1, item.CurrentStatus)
	assert.Equal(t, workflow.AreaAlistamiento, item.CurrentArea)
	assert.Nil(t, item.AssignedEmployeeID)
}

func TestWorkflowErrorMapping(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForWorkflow(t)
	router := setupWorkflowRouter(db)

	leaderToken, err := utils.GenerateToken(1, models.RoleLider)
	assert.NoError(t, err)

	// Unknown item -> 404
	w := doJSON(t, router, "POST", "/api/items/assign", leaderToken, map[string]interface{}{
		"item_ids": []uint{999}, "employee_id": 2, "area": "PREALISTAMIENTO",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Item not workable in the requested area -> 400
	w = doJSON(t, router, "POST", "/api/items/assign", leaderToken, map[string]interface{}{
		"item_ids": []uint{1}, "employee_id": 2, "area": "PINTURA",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Approving a piece parked in review on a terminal stage -> 409
	assert.NoError(t, db.Model(&models.OrderItem{}).Where("id = ?", 1).
		Updates(map[string]interface{}{
			"current_status": string(workflow.StageEnRevision),
			"last_status":    string(workflow.StageFinalizada),
		}).Error)
	w = doJSON(t, router, "POST", "/api/items/approve", leaderToken, map[string]interface{}{
		"item_ids": []uint{1},
	})
	assert.Equal(t, http.StatusConflict, w.Code, fmt.Sprintf("body: %s", w.Body.String()))

	// Missing token -> 401
	req, err := http.NewRequest("POST", "/api/items/approve", bytes.NewBufferString(`{"item_ids":[1]}`))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportDamageOverHTTP(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForWorkflow(t)
	router := setupWorkflowRouter(db)

	workerToken, err := utils.GenerateToken(2, models.RoleOperario)
	assert.NoError(t, err)

	assert.NoError(t, db.Model(&models.OrderItem{}).Where("id = ?", 1).
		Updates(map[string]interface{}{
			"current_status": string(workflow.StagePulido),
			"current_area":   string(workflow.AreaPulido),
		}).Error)

	w := doJSON(t, router, "POST", "/api/items/1/damage", workerToken, map[string]interface{}{
		"reason": "Golpe en transporte interno",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.OrderItem
	assert.NoError(t, db.Preload("History").First(&item, 1).Error)
	assert.Equal(t, workflow.StagePrealistamiento, item.CurrentStatus)
	assert.Equal(t, 1, item.ReworkCount)
	assert.Equal(t, models.DamageNotePrefix+"Golpe en transporte interno", item.History[0].Notes)
}

package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/workflow"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
		&models.ItemHistoryEntry{},
		&models.Notification{},
		&models.MonthlyCounter{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedEmployee(t *testing.T, db *gorm.DB, name, role string, area workflow.Area) models.Employee {
	t.Helper()
	e := models.Employee{
		Name:     name,
		Username: name,
		Password: "secret",
		Role:     role,
	}
	if area != "" {
		e.Area = &area
	}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}
	return e
}

func seedOrderWithItem(t *testing.T, db *gorm.DB, delivery models.DeliveryType, finish workflow.Finish) (models.Order, models.OrderItem) {
	t.Helper()
	order := models.Order{
		Code:               "ORDEN0325-001",
		ClientID:           1,
		ClientName:         "Carlos Rojas",
		ClientDeliveryType: delivery,
		ModelID:            1,
		ModelName:          "Yamaha MT-07",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	item := models.OrderItem{
		OrderID:       order.ID,
		InternalCode:  "0325-0001",
		PartID:        1,
		PartName:      "Tanque",
		FinishType:    finish,
		CurrentStatus: workflow.StagePrealistamiento,
		CurrentArea:   workflow.AreaPrealistamiento,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return order, item
}

func reloadItem(t *testing.T, db *gorm.DB, id uint) models.OrderItem {
	t.Helper()
	var item models.OrderItem
	if err := db.Preload("History").First(&item, id).Error; err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	return item
}

func leaderActor(e models.Employee) Actor {
	a := Actor{ID: &e.ID, Name: e.Name}
	if e.Area != nil {
		a.Area = *e.Area
	}
	return a
}

func TestAssignFinishApproveLifecycle(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaPrealistamiento)
	worker := seedEmployee(t, db, "operario1", models.RoleOperario, workflow.AreaPrealistamiento)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	// Assign
	_, err := svc.AssignItems([]uint{item.ID}, worker.ID, workflow.AreaPrealistamiento, leaderActor(leader))
	assert.NoError(t, err)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StagePrealistamiento, got.CurrentStatus)
	assert.NotNil(t, got.AssignedEmployeeID)
	assert.Equal(t, worker.ID, *got.AssignedEmployeeID)

	// Finish -> parked in review, assignee kept for the reviewer
	_, err = svc.FinishTask(item.ID, worker.ID, nil, leaderActor(worker))
	assert.NoError(t, err)

	got = reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StageEnRevision, got.CurrentStatus)
	assert.NotNil(t, got.LastStatus)
	assert.Equal(t, workflow.StagePrealistamiento, *got.LastStatus)
	assert.NotNil(t, got.AssignedEmployeeID)

	// Approve -> forward hop, assignee cleared
	_, err = svc.ApproveQuality([]uint{item.ID}, leaderActor(leader))
	assert.NoError(t, err)

	got = reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StageAlistamiento1, got.CurrentStatus)
	assert.Equal(t, workflow.AreaAlistamiento, got.CurrentArea)
	assert.Nil(t, got.AssignedEmployeeID)
	assert.Equal(t, 0, got.ReworkCount)

	actions := []string{}
	for _, h := range got.History {
		actions = append(actions, h.Action)
		assert.Equal(t, 0, h.AttemptNumber)
	}
	assert.Equal(t, []string{models.ActionAsignado, models.ActionEnRevision, models.ActionAprobado}, actions)

	// Audit rows carry the actor id and a name snapshot
	assert.Equal(t, leader.ID, *got.History[0].ActorID)
	assert.Equal(t, leader.Name, got.History[0].ActorName)

	// Assignment notification reached the worker
	var notifications []models.Notification
	assert.NoError(t, db.Where("employee_id = ?", worker.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestAssignValidations(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaPrealistamiento)
	worker := seedEmployee(t, db, "operario1", models.RoleOperario, workflow.AreaPrealistamiento)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	var vErr *ValidationError
	var nfErr *NotFoundError

	_, err := svc.AssignItems([]uint{}, worker.ID, workflow.AreaPrealistamiento, leaderActor(leader))
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.AssignItems([]uint{item.ID}, 999, workflow.AreaPrealistamiento, leaderActor(leader))
	assert.ErrorAs(t, err, &nfErr)

	_, err = svc.AssignItems([]uint{999}, worker.ID, workflow.AreaPrealistamiento, leaderActor(leader))
	assert.ErrorAs(t, err, &nfErr)

	// The item is sitting in PREALISTAMIENTO, not workable in PINTURA
	_, err = svc.AssignItems([]uint{item.ID}, worker.ID, workflow.AreaPintura, leaderActor(leader))
	assert.ErrorAs(t, err, &vErr)

	// Double assignment is rejected
	_, err = svc.AssignItems([]uint{item.ID}, worker.ID, workflow.AreaPrealistamiento, leaderActor(leader))
	assert.NoError(t, err)
	_, err = svc.AssignItems([]uint{item.ID}, worker.ID, workflow.AreaPrealistamiento, leaderActor(leader))
	assert.ErrorAs(t, err, &vErr)
}

func TestFinishRequiresAssignee(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	worker := seedEmployee(t, db, "operario1", models.RoleOperario, workflow.AreaPrealistamiento)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	var vErr *ValidationError
	_, err := svc.FinishTask(item.ID, worker.ID, nil, leaderActor(worker))
	assert.ErrorAs(t, err, &vErr)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StagePrealistamiento, got.CurrentStatus)
	assert.Empty(t, got.History)
}

func TestFinishDeliveryDemandsTrackingForShippedOrders(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	courier := seedEmployee(t, db, "mensajero1", models.RoleMensajero, workflow.AreaEntregas)
	order, item := seedOrderWithItem(t, db, models.DeliveryEnvioNacional, workflow.FinishBrillante)

	item.CurrentStatus = workflow.StageEntregas
	item.CurrentArea = workflow.AreaEntregas
	item.AssignedEmployeeID = &courier.ID
	assert.NoError(t, db.Save(&item).Error)

	// No shipping data -> rejected, nothing changed
	var vErr *ValidationError
	_, err := svc.FinishTask(item.ID, courier.ID, nil, leaderActor(courier))
	assert.ErrorAs(t, err, &vErr)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StageEntregas, got.CurrentStatus)
	assert.Empty(t, got.History)

	// With carrier + tracking the order gets stamped
	_, err = svc.FinishTask(item.ID, courier.ID, &ShippingInfo{Carrier: "Servientrega", TrackingCode: "SV-123"}, leaderActor(courier))
	assert.NoError(t, err)

	var gotOrder models.Order
	assert.NoError(t, db.First(&gotOrder, order.ID).Error)
	assert.Equal(t, "Servientrega", gotOrder.ShippingCarrier)
	assert.Equal(t, "SV-123", gotOrder.ShippingTrackingCode)

	got = reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StageEnRevision, got.CurrentStatus)
	assert.Equal(t, "Entregado por mensajero", got.History[0].Notes)
}

func TestApproveMatteSkipsPolishing(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaPintura)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishMate)

	last := workflow.StagePinturaColor
	item.CurrentStatus = workflow.StageEnRevision
	item.LastStatus = &last
	item.CurrentArea = workflow.AreaPintura
	assert.NoError(t, db.Save(&item).Error)

	_, err := svc.ApproveQuality([]uint{item.ID}, leaderActor(leader))
	assert.NoError(t, err)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StageDespachos, got.CurrentStatus)
	assert.Equal(t, workflow.AreaDespachos, got.CurrentArea)
}

func TestApproveDeliveryFinalizesKeepingArea(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaEntregas)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	last := workflow.StageEntregas
	item.CurrentStatus = workflow.StageEnRevision
	item.LastStatus = &last
	item.CurrentArea = workflow.AreaEntregas
	assert.NoError(t, db.Save(&item).Error)

	_, err := svc.ApproveQuality([]uint{item.ID}, leaderActor(leader))
	assert.NoError(t, err)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StageFinalizada, got.CurrentStatus)
	assert.Equal(t, workflow.AreaEntregas, got.CurrentArea)
}

func TestApproveRejectsItemsNotInReview(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaPrealistamiento)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	var vErr *ValidationError
	_, err := svc.ApproveQuality([]uint{item.ID}, leaderActor(leader))
	assert.ErrorAs(t, err, &vErr)
}

func TestApproveUnmappedStageSurfacesError(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaEntregas)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	last := workflow.StageFinalizada
	item.CurrentStatus = workflow.StageEnRevision
	item.LastStatus = &last
	assert.NoError(t, db.Save(&item).Error)

	_, err := svc.ApproveQuality([]uint{item.ID}, leaderActor(leader))
	assert.ErrorIs(t, err, workflow.ErrNoTransition)

	// Transaction rolled back, nothing written
	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StageEnRevision, got.CurrentStatus)
	assert.Empty(t, got.History)
}

func TestReprocessCountsReworkCycle(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaPintura)
	worker := seedEmployee(t, db, "operario1", models.RoleOperario, workflow.AreaPintura)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	item.CurrentStatus = workflow.StagePinturaColor
	item.CurrentArea = workflow.AreaPintura
	item.AssignedEmployeeID = &worker.ID
	assert.NoError(t, db.Save(&item).Error)

	_, err := svc.Reprocess([]uint{item.ID}, workflow.StagePinturaBase, "Gota en la base", leaderActor(leader))
	assert.NoError(t, err)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StagePinturaBase, got.CurrentStatus)
	assert.Equal(t, workflow.AreaPintura, got.CurrentArea)
	assert.Nil(t, got.AssignedEmployeeID)
	assert.Equal(t, 1, got.ReworkCount)
	assert.Equal(t, models.ActionReproceso, got.History[0].Action)
	assert.Equal(t, "Gota en la base", got.History[0].Notes)
	assert.Equal(t, 1, got.History[0].AttemptNumber)
}

func TestReprocessRejectsNonWorkingTarget(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaPintura)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	var vErr *ValidationError
	for _, target := range []workflow.Stage{workflow.StageEnRevision, workflow.StageFinalizada, workflow.Stage("NOPE")} {
		_, err := svc.Reprocess([]uint{item.ID}, target, "motivo", leaderActor(leader))
		assert.ErrorAs(t, err, &vErr, "target %s", target)
	}

	_, err := svc.Reprocess([]uint{item.ID}, workflow.StagePinturaBase, "", leaderActor(leader))
	assert.ErrorAs(t, err, &vErr)
}

func TestReportDamageSendsBackToStart(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	worker := seedEmployee(t, db, "operario1", models.RoleOperario, workflow.AreaPulido)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	item.CurrentStatus = workflow.StagePulido
	item.CurrentArea = workflow.AreaPulido
	item.AssignedEmployeeID = &worker.ID
	assert.NoError(t, db.Save(&item).Error)

	_, err := svc.ReportDamage(item.ID, "Rayón profundo en el tanque", leaderActor(worker))
	assert.NoError(t, err)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StagePrealistamiento, got.CurrentStatus)
	assert.Equal(t, workflow.AreaPrealistamiento, got.CurrentArea)
	assert.Nil(t, got.AssignedEmployeeID)
	assert.Equal(t, 1, got.ReworkCount)
	assert.Equal(t, models.DamageNotePrefix+"Rayón profundo en el tanque", got.History[0].Notes)
	assert.Equal(t, string(workflow.AreaPulido), got.History[0].AreaOrigin)
}

func TestReturnTaskStepsBackward(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	worker := seedEmployee(t, db, "operario1", models.RoleOperario, workflow.AreaAlistamiento)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	item.CurrentStatus = workflow.StageAlistamiento1
	item.CurrentArea = workflow.AreaAlistamiento
	item.AssignedEmployeeID = &worker.ID
	assert.NoError(t, db.Save(&item).Error)

	_, err := svc.ReturnTask(item.ID, worker.ID, "Falta masilla", leaderActor(worker))
	assert.NoError(t, err)

	got := reloadItem(t, db, item.ID)
	assert.Equal(t, workflow.StagePrealistamiento, got.CurrentStatus)
	assert.Equal(t, workflow.AreaPrealistamiento, got.CurrentArea)
	assert.Nil(t, got.AssignedEmployeeID)
	assert.Equal(t, 1, got.ReworkCount)
	assert.Equal(t, models.ActionDevueltoOperario, got.History[0].Action)
	assert.Equal(t, "Devuelto por Operario: Falta masilla", got.History[0].Notes)
}

// reworkCount must always equal the number of REPROCESO plus
// DEVUELTO_OPERARIO rows in the audit trail.
func TestReworkCountMatchesHistory(t *testing.T) {
	db := setupServiceDB(t)
	svc := NewWorkflowService(db)

	leader := seedEmployee(t, db, "lider1", models.RoleLider, workflow.AreaPintura)
	worker := seedEmployee(t, db, "operario1", models.RoleOperario, workflow.AreaPintura)
	_, item := seedOrderWithItem(t, db, models.DeliveryRecogidaLocal, workflow.FinishBrillante)

	_, err := svc.Reprocess([]uint{item.ID}, workflow.StagePinturaBase, "primera", leaderActor(leader))
	assert.NoError(t, err)
	_, err = svc.ReportDamage(item.ID, "golpe", leaderActor(worker))
	assert.NoError(t, err)

	item2 := reloadItem(t, db, item.ID)
	item2.AssignedEmployeeID = &worker.ID
	item2.CurrentStatus = workflow.StageAlistamiento1
	item2.CurrentArea = workflow.AreaAlistamiento
	assert.NoError(t, db.Save(&item2).Error)
	_, err = svc.ReturnTask(item.ID, worker.ID, "sin material", leaderActor(worker))
	assert.NoError(t, err)

	got := reloadItem(t, db, item.ID)
	rework := 0
	for _, h := range got.History {
		if h.Action == models.ActionReproceso || h.Action == models.ActionDevueltoOperario {
			rework++
		}
	}
	assert.Equal(t, rework, got.ReworkCount)
	assert.Equal(t, 3, got.ReworkCount)
}

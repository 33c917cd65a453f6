package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/board"
	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/utils"
	"github.com/motopaint/paintshop-app/workflow"
)

// WorkflowService owns every mutation of item state. Each command runs
// in its own transaction touching only the targeted order/items, so
// two actors working different pieces never overwrite each other.
type WorkflowService struct {
	DB *gorm.DB
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{DB: db}
}

// Actor identifies who performed a command. ID is the stable audit
// reference, Name the display snapshot written into history rows.
type Actor struct {
	ID   *uint
	Name string
	Area workflow.Area
}

// ShippingInfo is required to finish a delivery for shipped orders.
type ShippingInfo struct {
	Carrier      string `json:"carrier"`
	TrackingCode string `json:"tracking_code"`
}

// AssignItems hands a batch of unassigned pieces in one area to an
// employee and notifies them. Assignment is scoped to the current
// stage visit; every stage change clears it again.
func (s *WorkflowService) AssignItems(itemIDs []uint, employeeID uint, area workflow.Area, actor Actor) ([]models.OrderItem, error) {
	if employeeID == 0 {
		return nil, NewValidationError("an employee must be selected")
	}
	if len(itemIDs) == 0 {
		return nil, NewValidationError("no items selected")
	}
	if !workflow.ValidArea(area) {
		return nil, NewValidationError("unknown area %q", area)
	}

	var employee models.Employee
	if err := s.DB.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("employee", employeeID)
		}
		return nil, err
	}

	var updated []models.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		items, err := loadItems(tx, itemIDs)
		if err != nil {
			return err
		}
		for i := range items {
			item := &items[i]
			if item.AssignedEmployeeID != nil {
				return NewValidationError("item %s is already assigned", item.InternalCode)
			}
			if !workflow.ManagesStage(area, item.CurrentStatus) {
				return NewValidationError("item %s is not workable in %s", item.InternalCode, area)
			}
			item.AssignedEmployeeID = &employeeID
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			if err := appendHistory(tx, item, models.ItemHistoryEntry{
				Action:        models.ActionAsignado,
				ActorID:       actor.ID,
				ActorName:     actor.Name,
				AreaOrigin:    string(area),
				AttemptNumber: item.ReworkCount,
			}); err != nil {
				return err
			}
		}
		updated = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	Notify(s.DB, employeeID, fmt.Sprintf("Te han asignado %d nuevas tareas en %s.", len(updated), area))
	s.afterMutation(updated)
	return updated, nil
}

// FinishTask is the operator's "done": the piece parks in EN_REVISION
// keeping its assignee so the reviewing leader can see who worked it.
// In the delivery area, shipped orders demand carrier + tracking code
// up front; the data is stamped on the parent order.
func (s *WorkflowService) FinishTask(itemID uint, employeeID uint, shipping *ShippingInfo, actor Actor) (*models.OrderItem, error) {
	var updated models.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		item, err := loadItem(tx, itemID)
		if err != nil {
			return err
		}
		if item.AssignedEmployeeID == nil || *item.AssignedEmployeeID != employeeID {
			return NewValidationError("item %s is not assigned to this employee", item.InternalCode)
		}

		var order models.Order
		if err := tx.First(&order, item.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("order", item.OrderID)
			}
			return err
		}

		notes := "Tarea finalizada por operario."
		if item.CurrentArea == workflow.AreaEntregas {
			notes = "Entregado por mensajero"
			if order.ClientDeliveryType.RequiresTracking() {
				if shipping == nil || shipping.Carrier == "" || shipping.TrackingCode == "" {
					return NewValidationError("carrier and tracking code are required for shipped orders")
				}
				order.ShippingCarrier = shipping.Carrier
				order.ShippingTrackingCode = shipping.TrackingCode
				if err := tx.Save(&order).Error; err != nil {
					return err
				}
			}
		}

		last := item.CurrentStatus
		item.LastStatus = &last
		item.CurrentStatus = workflow.StageEnRevision
		// assignee intentionally kept: the reviewer needs it
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		if err := appendHistory(tx, item, models.ItemHistoryEntry{
			Action:        models.ActionEnRevision,
			ActorID:       actor.ID,
			ActorName:     actor.Name,
			AreaOrigin:    string(item.CurrentArea),
			Notes:         notes,
			AttemptNumber: item.ReworkCount,
		}); err != nil {
			return err
		}
		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation([]models.OrderItem{updated})
	return &updated, nil
}

// ApproveQuality moves reviewed pieces forward from the stage they
// were working before review (lastStatus). ENTREGAS approval finishes
// the piece; the area is left untouched for the terminal state.
func (s *WorkflowService) ApproveQuality(itemIDs []uint, actor Actor) ([]models.OrderItem, error) {
	if len(itemIDs) == 0 {
		return nil, NewValidationError("no items selected")
	}

	var updated []models.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		items, err := loadItems(tx, itemIDs)
		if err != nil {
			return err
		}
		for i := range items {
			item := &items[i]
			if item.CurrentStatus != workflow.StageEnRevision {
				return NewValidationError("item %s is not awaiting review", item.InternalCode)
			}

			stage := item.CurrentStatus
			if item.LastStatus != nil {
				stage = *item.LastStatus
			}
			next, err := workflow.Forward(stage, item.FinishType)
			if err != nil {
				return fmt.Errorf("item %s at stage %s: %w", item.InternalCode, stage, err)
			}

			item.CurrentStatus = next.Stage
			if next.Area != "" {
				item.CurrentArea = next.Area
			}
			item.AssignedEmployeeID = nil
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			if err := appendHistory(tx, item, models.ItemHistoryEntry{
				Action:        models.ActionAprobado,
				ActorID:       actor.ID,
				ActorName:     actor.Name,
				AreaOrigin:    string(actor.Area),
				AreaDest:      string(item.CurrentArea),
				Notes:         "Aprobado",
				AttemptNumber: item.ReworkCount,
			}); err != nil {
				return err
			}
		}
		updated = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(updated)
	return updated, nil
}

// Reprocess is the leader's rework dispatch: the target may be any
// working stage, not just an adjacent one. Counts as a rework cycle.
func (s *WorkflowService) Reprocess(itemIDs []uint, targetStage workflow.Stage, reason string, actor Actor) ([]models.OrderItem, error) {
	if len(itemIDs) == 0 {
		return nil, NewValidationError("no items selected")
	}
	if targetStage == "" {
		return nil, NewValidationError("a target stage is required")
	}
	if reason == "" {
		return nil, NewValidationError("a rework reason is required")
	}
	targetArea, ok := workflow.ResolveAreaForStage(targetStage)
	if !ok {
		return nil, NewValidationError("stage %q is not a valid rework target", targetStage)
	}

	var updated []models.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		items, err := loadItems(tx, itemIDs)
		if err != nil {
			return err
		}
		for i := range items {
			item := &items[i]
			item.CurrentStatus = targetStage
			item.CurrentArea = targetArea
			item.AssignedEmployeeID = nil
			item.ReworkCount++
			if err := tx.Save(item).Error; err != nil {
				return err
			}
			if err := appendHistory(tx, item, models.ItemHistoryEntry{
				Action:        models.ActionReproceso,
				ActorID:       actor.ID,
				ActorName:     actor.Name,
				AreaOrigin:    string(actor.Area),
				AreaDest:      string(targetArea),
				Notes:         reason,
				AttemptNumber: item.ReworkCount,
			}); err != nil {
				return err
			}
		}
		updated = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(updated)
	return updated, nil
}

// ReportDamage sends a piece back to square one regardless of where it
// is. Available to leaders and operators with identical semantics.
func (s *WorkflowService) ReportDamage(itemID uint, reason string, actor Actor) (*models.OrderItem, error) {
	if reason == "" {
		return nil, NewValidationError("a damage description is required")
	}

	var updated models.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		item, err := loadItem(tx, itemID)
		if err != nil {
			return err
		}
		origin := item.CurrentArea
		item.CurrentStatus = workflow.StagePrealistamiento
		item.CurrentArea = workflow.AreaPrealistamiento
		item.AssignedEmployeeID = nil
		item.ReworkCount++
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		if err := appendHistory(tx, item, models.ItemHistoryEntry{
			Action:        models.ActionReproceso,
			ActorID:       actor.ID,
			ActorName:     actor.Name,
			AreaOrigin:    string(origin),
			AreaDest:      string(workflow.AreaPrealistamiento),
			Notes:         models.DamageNotePrefix + reason,
			AttemptNumber: item.ReworkCount,
		}); err != nil {
			return err
		}
		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation([]models.OrderItem{updated})
	return &updated, nil
}

// ReturnTask is the operator handing back a piece they cannot work:
// one step backward along the workflow, counted as a rework cycle.
func (s *WorkflowService) ReturnTask(itemID uint, employeeID uint, reason string, actor Actor) (*models.OrderItem, error) {
	if reason == "" {
		return nil, NewValidationError("a return reason is required")
	}

	var updated models.OrderItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		item, err := loadItem(tx, itemID)
		if err != nil {
			return err
		}
		if item.AssignedEmployeeID == nil || *item.AssignedEmployeeID != employeeID {
			return NewValidationError("item %s is not assigned to this employee", item.InternalCode)
		}

		origin := item.CurrentArea
		prev := workflow.Backward(item.CurrentStatus, item.FinishType, item.CurrentArea)
		item.CurrentStatus = prev.Stage
		item.CurrentArea = prev.Area
		item.AssignedEmployeeID = nil
		item.ReworkCount++
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		if err := appendHistory(tx, item, models.ItemHistoryEntry{
			Action:        models.ActionDevueltoOperario,
			ActorID:       actor.ID,
			ActorName:     actor.Name,
			AreaOrigin:    string(origin),
			AreaDest:      string(prev.Area),
			Notes:         "Devuelto por Operario: " + reason,
			AttemptNumber: item.ReworkCount,
		}); err != nil {
			return err
		}
		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation([]models.OrderItem{updated})
	return &updated, nil
}

func loadItem(tx *gorm.DB, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := tx.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("item", itemID)
		}
		return nil, err
	}
	return &item, nil
}

func loadItems(tx *gorm.DB, itemIDs []uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := tx.Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) != len(itemIDs) {
		found := make(map[uint]bool, len(items))
		for _, it := range items {
			found[it.ID] = true
		}
		for _, id := range itemIDs {
			if !found[id] {
				return nil, NewNotFoundError("item", id)
			}
		}
	}
	return items, nil
}

func appendHistory(tx *gorm.DB, item *models.OrderItem, entry models.ItemHistoryEntry) error {
	entry.OrderItemID = item.ID
	return tx.Create(&entry).Error
}

// afterMutation pushes the change signal. Broadcast problems must
// never bubble into the command result.
func (s *WorkflowService) afterMutation(items []models.OrderItem) {
	for _, item := range items {
		board.BroadcastItemUpdate(item)
	}
	board.BroadcastDataChanged()
	board.BroadcastDashboardStale()
	if utils.InfoLogger != nil {
		utils.InfoLogger.Printf("Workflow mutation applied to %d item(s)", len(items))
	}
}

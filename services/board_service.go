package services

import (
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/workflow"
)

// BoardService derives the read views: per-area leader buckets, the
// operator's personal queue and the dashboard counters. Everything is
// recomputed by a full scan on demand; the data volumes of a single
// shop never justified an incremental index.
type BoardService struct {
	DB *gorm.DB
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{DB: db}
}

// BoardItem is a piece flattened with its order snapshot, shaped for
// the area boards.
type BoardItem struct {
	ItemID                uint                      `json:"item_id"`
	OrderID               uint                      `json:"order_id"`
	OrderCode             string                    `json:"order_code"`
	InternalCode          string                    `json:"internal_code"`
	PartName              string                    `json:"part_name"`
	ModelName             string                    `json:"model_name"`
	ClientName            string                    `json:"client_name"`
	ClientAddress         string                    `json:"client_address,omitempty"`
	ClientCity            string                    `json:"client_city,omitempty"`
	DeliveryType          models.DeliveryType       `json:"delivery_type,omitempty"`
	ColorCode             string                    `json:"color_code"`
	VisualColorHex        string                    `json:"visual_color_hex"`
	Status                workflow.Stage            `json:"status"`
	LastStatus            *workflow.Stage           `json:"last_status,omitempty"`
	FinishType            workflow.Finish           `json:"finish_type"`
	HasDecals             bool                      `json:"has_decals"`
	AccessoriesDetail     string                    `json:"accessories_detail,omitempty"`
	AssignedEmployeeID    *uint                     `json:"assigned_employee_id,omitempty"`
	ReworkCount           int                       `json:"rework_count"`
	Urgent                bool                      `json:"urgent"`
	EstimatedDeliveryDate *time.Time                `json:"estimated_delivery_date,omitempty"`
	ShippingCarrier       string                    `json:"shipping_carrier,omitempty"`
	ShippingTrackingCode  string                    `json:"shipping_tracking_code,omitempty"`
	History               []models.ItemHistoryEntry `json:"history"`
}

// AreaBoard is what an area leader sees: three buckets, already
// filtered and sorted.
type AreaBoard struct {
	Unassigned []BoardItem `json:"unassigned"`
	Assigned   []BoardItem `json:"assigned"`
	InReview   []BoardItem `json:"in_review"`
}

// AreaBoardView buckets the area's pieces. Search matches client,
// model, order code, part name and internal code, case-insensitive.
// With urgentOnly set, orders without a delivery date or outside the
// 48h window are dropped entirely.
func (s *BoardService) AreaBoardView(area workflow.Area, search string, urgentOnly bool, now time.Time) (*AreaBoard, error) {
	if !workflow.ValidArea(area) {
		return nil, NewValidationError("unknown area %q", area)
	}

	var orders []models.Order
	if err := s.DB.Preload("Items.History").Find(&orders).Error; err != nil {
		return nil, err
	}

	managed := workflow.ManagedStages(area)
	term := strings.ToLower(strings.TrimSpace(search))
	view := &AreaBoard{
		Unassigned: []BoardItem{},
		Assigned:   []BoardItem{},
		InReview:   []BoardItem{},
	}

	for oi := range orders {
		order := &orders[oi]
		urgent := workflow.IsUrgent(order.EstimatedDeliveryDate, now)
		if urgentOnly && !urgent {
			continue
		}
		for ii := range order.Items {
			item := &order.Items[ii]
			if item.CurrentArea != area {
				continue
			}
			if !matchesSearch(order, item, term) {
				continue
			}

			bi := flattenItem(order, item, urgent)
			switch {
			case item.CurrentStatus == workflow.StageEnRevision:
				view.InReview = append(view.InReview, bi)
			case stageIndex(managed, item.CurrentStatus) >= 0:
				if item.AssignedEmployeeID != nil {
					view.Assigned = append(view.Assigned, bi)
				} else {
					view.Unassigned = append(view.Unassigned, bi)
				}
			}
		}
	}

	sortBucket(view.Unassigned, managed)
	sortBucket(view.Assigned, managed)
	sortBucket(view.InReview, managed)
	return view, nil
}

// TaskGroup is one operator's active work inside one area.
type TaskGroup struct {
	Area  workflow.Area `json:"area"`
	Items []BoardItem   `json:"items"`
}

// MyTasks returns the employee's active pieces (assigned, not in
// review, not finished) grouped by area in plant order.
func (s *BoardService) MyTasks(employeeID uint, now time.Time) ([]TaskGroup, error) {
	var orders []models.Order
	if err := s.DB.Preload("Items.History").Find(&orders).Error; err != nil {
		return nil, err
	}

	byArea := make(map[workflow.Area][]BoardItem)
	for oi := range orders {
		order := &orders[oi]
		urgent := workflow.IsUrgent(order.EstimatedDeliveryDate, now)
		for ii := range order.Items {
			item := &order.Items[ii]
			if item.AssignedEmployeeID == nil || *item.AssignedEmployeeID != employeeID {
				continue
			}
			if !item.Active() {
				continue
			}
			byArea[item.CurrentArea] = append(byArea[item.CurrentArea], flattenItem(order, item, urgent))
		}
	}

	groups := []TaskGroup{}
	for _, area := range workflow.AllAreas {
		items, ok := byArea[area]
		if !ok {
			continue
		}
		sortBucket(items, workflow.ManagedStages(area))
		groups = append(groups, TaskGroup{Area: area, Items: items})
	}
	return groups, nil
}

// AttentionCounts are the leader badges: pieces waiting for review
// and unassigned pieces on the area's managed stages.
type AttentionCounts struct {
	InReview          int `json:"in_review"`
	UnassignedPending int `json:"unassigned_pending"`
}

// LeaderAttentionCounts recomputes the per-area badges by full scan.
func (s *BoardService) LeaderAttentionCounts() (map[workflow.Area]AttentionCounts, error) {
	var items []models.OrderItem
	if err := s.DB.Find(&items).Error; err != nil {
		return nil, err
	}

	stats := make(map[workflow.Area]AttentionCounts, len(workflow.AllAreas))
	for _, area := range workflow.AllAreas {
		stats[area] = AttentionCounts{}
	}
	for i := range items {
		item := &items[i]
		entry, ok := stats[item.CurrentArea]
		if !ok {
			continue
		}
		if item.CurrentStatus == workflow.StageEnRevision {
			entry.InReview++
		}
		if item.AssignedEmployeeID == nil && workflow.ManagesStage(item.CurrentArea, item.CurrentStatus) {
			entry.UnassignedPending++
		}
		stats[item.CurrentArea] = entry
	}
	return stats, nil
}

// UserPendingCounts badges an operator's personal task list: active
// assigned pieces per area.
func (s *BoardService) UserPendingCounts(employeeID uint) (map[workflow.Area]int, error) {
	var items []models.OrderItem
	if err := s.DB.Where("assigned_employee_id = ?", employeeID).Find(&items).Error; err != nil {
		return nil, err
	}

	counts := make(map[workflow.Area]int, len(workflow.AllAreas))
	for _, area := range workflow.AllAreas {
		counts[area] = 0
	}
	for i := range items {
		item := &items[i]
		if !item.Active() {
			continue
		}
		if _, ok := counts[item.CurrentArea]; ok {
			counts[item.CurrentArea]++
		}
	}
	return counts, nil
}

// DashboardStats are the admin overview numbers.
type DashboardStats struct {
	TotalOrders    int64 `json:"total_orders"`
	ItemsInProcess int64 `json:"items_in_process"`
	ItemsInReview  int64 `json:"items_in_review"`
	ItemsFinished  int64 `json:"items_finished"`
	UrgentOrders   int64 `json:"urgent_orders"`
}

func (s *BoardService) Stats(now time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.DB.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.OrderItem{}).
		Where("current_status NOT IN ?", []workflow.Stage{workflow.StageFinalizada, workflow.StageEnRevision}).
		Count(&stats.ItemsInProcess).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.OrderItem{}).
		Where("current_status = ?", workflow.StageEnRevision).
		Count(&stats.ItemsInReview).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.OrderItem{}).
		Where("current_status = ?", workflow.StageFinalizada).
		Count(&stats.ItemsFinished).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := s.DB.Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		if workflow.IsUrgent(orders[i].EstimatedDeliveryDate, now) {
			stats.UrgentOrders++
		}
	}
	return &stats, nil
}

func matchesSearch(order *models.Order, item *models.OrderItem, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(order.ClientName), term) ||
		strings.Contains(strings.ToLower(order.ModelName), term) ||
		strings.Contains(strings.ToLower(order.Code), term) ||
		strings.Contains(strings.ToLower(item.PartName), term) ||
		strings.Contains(strings.ToLower(item.InternalCode), term)
}

func flattenItem(order *models.Order, item *models.OrderItem, urgent bool) BoardItem {
	return BoardItem{
		ItemID:                item.ID,
		OrderID:               order.ID,
		OrderCode:             order.Code,
		InternalCode:          item.InternalCode,
		PartName:              item.PartName,
		ModelName:             order.ModelName,
		ClientName:            order.ClientName,
		ClientAddress:         order.ClientAddress,
		ClientCity:            order.ClientCity,
		DeliveryType:          order.ClientDeliveryType,
		ColorCode:             item.ColorCode,
		VisualColorHex:        order.VisualColorHex,
		Status:                item.CurrentStatus,
		LastStatus:            item.LastStatus,
		FinishType:            item.FinishType,
		HasDecals:             item.HasDecals,
		AccessoriesDetail:     item.AccessoriesDetail,
		AssignedEmployeeID:    item.AssignedEmployeeID,
		ReworkCount:           item.ReworkCount,
		Urgent:                urgent,
		EstimatedDeliveryDate: order.EstimatedDeliveryDate,
		ShippingCarrier:       order.ShippingCarrier,
		ShippingTrackingCode:  order.ShippingTrackingCode,
		History:               item.History,
	}
}

func stageIndex(managed []workflow.Stage, stage workflow.Stage) int {
	for i, s := range managed {
		if s == stage {
			return i
		}
	}
	return -1
}

// sortBucket orders by position in the managed-stage sequence (stages
// outside the list last), then by ascending delivery date with dated
// orders first. Stable so equal pieces keep insertion order.
func sortBucket(items []BoardItem, managed []workflow.Stage) {
	sort.SliceStable(items, func(a, b int) bool {
		ia, ib := stageIndex(managed, items[a].Status), stageIndex(managed, items[b].Status)
		if ia != -1 && ib == -1 {
			return true
		}
		if ia == -1 && ib != -1 {
			return false
		}
		if ia != ib {
			return ia < ib
		}
		da, db := items[a].EstimatedDeliveryDate, items[b].EstimatedDeliveryDate
		switch {
		case da != nil && db == nil:
			return true
		case da == nil && db != nil:
			return false
		case da != nil && db != nil && !da.Equal(*db):
			return da.Before(*db)
		}
		return false
	})
}

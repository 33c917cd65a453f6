package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/board"
	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/services"
	"github.com/motopaint/paintshop-app/utils"
	"github.com/motopaint/paintshop-app/workflow"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// GetAllOrders -> list orders with items and history
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("Items.History").Order("entry_date desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> intake: client snapshot + items, either piece by
// piece or cloned from a special-edition template. Every item starts
// at PREALISTAMIENTO with an empty history.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ItemReq struct {
		PartID            uint            `json:"part_id"`
		PartName          string          `json:"part_name"`
		ColorID           uint            `json:"color_id"`
		ColorName         string          `json:"color_name"`
		ColorCode         string          `json:"color_code"`
		HasDecals         bool            `json:"has_decals"`
		AccessoriesDetail string          `json:"accessories_detail"`
		FinishType        workflow.Finish `json:"finish_type"`
	}

	type ReqBody struct {
		ClientID              uint       `json:"client_id" binding:"required"`
		ModelID               uint       `json:"model_id" binding:"required"`
		EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
		VisualColorHex        string     `json:"visual_color_hex"`
		SpecialEditionID      *uint      `json:"special_edition_id"`
		Items                 []ItemReq  `json:"items"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var client models.Client
	if err := oc.DB.First(&client, body.ClientID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("client %d not found", body.ClientID))
		return
	}

	var model models.MotoModel
	if err := oc.DB.First(&model, body.ModelID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("model %d not found", body.ModelID))
		return
	}

	// Special edition template pre-fills the piece list
	var edition *models.SpecialEdition
	if body.SpecialEditionID != nil {
		var se models.SpecialEdition
		if err := oc.DB.Preload("Items").First(&se, *body.SpecialEditionID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, fmt.Errorf("special edition %d not found", *body.SpecialEditionID))
			return
		}
		edition = &se
	}

	if edition == nil && len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("an order needs at least one item or a special edition"))
		return
	}

	now := time.Now()
	var order models.Order

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		code, err := services.NextOrderCode(tx, now)
		if err != nil {
			return err
		}

		order = models.Order{
			Code:                  code,
			ClientID:              client.ID,
			ClientName:            client.Name,
			ClientAddress:         client.Address,
			ClientCity:            client.City,
			ClientDeliveryType:    client.DeliveryType,
			ModelID:               model.ID,
			ModelName:             model.Brand + " " + model.Name,
			EntryDate:             now,
			EstimatedDeliveryDate: body.EstimatedDeliveryDate,
			VisualColorHex:        body.VisualColorHex,
		}
		if edition != nil {
			order.SpecialEditionID = &edition.ID
			order.SpecialEditionName = edition.Name
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		newItem := func(partID uint, partName string, colorID uint, colorName, colorCode string,
			hasDecals bool, accessories string, finish workflow.Finish) (models.OrderItem, error) {
			internal, err := services.NextItemCode(tx, now)
			if err != nil {
				return models.OrderItem{}, err
			}
			if finish == "" {
				finish = workflow.FinishBrillante
			}
			return models.OrderItem{
				OrderID:           order.ID,
				InternalCode:      internal,
				PartID:            partID,
				PartName:          partName,
				ColorID:           colorID,
				ColorName:         colorName,
				ColorCode:         colorCode,
				HasDecals:         hasDecals,
				AccessoriesDetail: accessories,
				FinishType:        finish,
				CurrentStatus:     workflow.StagePrealistamiento,
				CurrentArea:       workflow.AreaPrealistamiento,
				ReworkCount:       0,
			}, nil
		}

		if edition != nil {
			for _, tpl := range edition.Items {
				var colorID uint
				if tpl.DefaultColorID != nil {
					colorID = *tpl.DefaultColorID
				}
				item, err := newItem(tpl.PartID, tpl.PartName, colorID, tpl.DefaultColorName,
					tpl.DefaultColorCode, tpl.HasDecals, tpl.AccessoriesDetail, tpl.DefaultFinish)
				if err != nil {
					return err
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}
		}

		for _, ir := range body.Items {
			item, err := newItem(ir.PartID, ir.PartName, ir.ColorID, ir.ColorName,
				ir.ColorCode, ir.HasDecals, ir.AccessoriesDetail, ir.FinishType)
			if err != nil {
				return err
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := oc.DB.Preload("Items").First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastOrderUpdate(order)
	board.BroadcastDataChanged()

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> one order with its full audit trail
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	if err := oc.DB.Preload("Items.History").First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// DeleteOrder -> whole order only; items and history cascade
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != models.RoleAdmin && roleInterface != models.RoleRecepcion {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := oc.DB.Select("Items").Delete(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	board.BroadcastDataChanged()
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": order.ID, "code": order.Code})
}

// TrackItem -> public tracker: look a piece up by its internal code
// and return the stage, area and timeline. No auth, no client data
// beyond the name.
func (oc *OrderController) TrackItem(c *gin.Context) {
	code := c.Param("internal_code")

	var item models.OrderItem
	if err := oc.DB.Preload("History").Where("internal_code = ?", code).First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("piece %s not found", code))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, item.OrderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tracking info", gin.H{
		"internal_code":  item.InternalCode,
		"part_name":      item.PartName,
		"order_code":     order.Code,
		"client_name":    order.ClientName,
		"model_name":     order.ModelName,
		"current_status": item.CurrentStatus,
		"current_area":   item.CurrentArea,
		"rework_count":   item.ReworkCount,
		"history":        item.History,
	})
}

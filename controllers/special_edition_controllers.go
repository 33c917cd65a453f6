package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/utils"
	"github.com/motopaint/paintshop-app/workflow"
)

type SpecialEditionController struct {
	DB *gorm.DB
}

func NewSpecialEditionController(db *gorm.DB) *SpecialEditionController {
	return &SpecialEditionController{DB: db}
}

func (sc *SpecialEditionController) GetAllSpecialEditions(c *gin.Context) {
	var editions []models.SpecialEdition
	if err := sc.DB.Preload("Items").Order("name asc").Find(&editions).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of special editions", editions)
}

// CreateSpecialEdition -> a named template of parts with defaults that
// order intake can clone
func (sc *SpecialEditionController) CreateSpecialEdition(c *gin.Context) {
	type ItemReq struct {
		PartID            uint            `json:"part_id" binding:"required"`
		PartName          string          `json:"part_name" binding:"required"`
		DefaultColorID    *uint           `json:"default_color_id"`
		DefaultColorName  string          `json:"default_color_name"`
		DefaultColorCode  string          `json:"default_color_code"`
		HasDecals         bool            `json:"has_decals"`
		AccessoriesDetail string          `json:"accessories_detail"`
		DefaultFinish     workflow.Finish `json:"default_finish"`
	}

	var body struct {
		Name    string    `json:"name" binding:"required"`
		ModelID uint      `json:"model_id" binding:"required"`
		Items   []ItemReq `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(body.Items) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("a special edition needs at least one item"))
		return
	}

	var model models.MotoModel
	if err := sc.DB.First(&model, body.ModelID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("model %d not found", body.ModelID))
		return
	}

	edition := models.SpecialEdition{
		Name:      body.Name,
		ModelID:   model.ID,
		ModelName: model.Brand + " " + model.Name,
	}
	for _, ir := range body.Items {
		finish := ir.DefaultFinish
		if finish == "" {
			finish = workflow.FinishBrillante
		}
		edition.Items = append(edition.Items, models.SpecialEditionItem{
			PartID:            ir.PartID,
			PartName:          ir.PartName,
			DefaultColorID:    ir.DefaultColorID,
			DefaultColorName:  ir.DefaultColorName,
			DefaultColorCode:  ir.DefaultColorCode,
			HasDecals:         ir.HasDecals,
			AccessoriesDetail: ir.AccessoriesDetail,
			DefaultFinish:     finish,
		})
	}

	if err := sc.DB.Create(&edition).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Special edition created", edition)
}

func (sc *SpecialEditionController) DeleteSpecialEdition(c *gin.Context) {
	var edition models.SpecialEdition
	if err := sc.DB.First(&edition, c.Param("edition_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if err := sc.DB.Select("Items").Delete(&edition).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Special edition deleted", nil)
}

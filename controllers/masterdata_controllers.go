package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/utils"
)

// MasterDataController covers the reception desk's pick lists: clients,
// moto models, parts and colors. Plain CRUD, no workflow involved.
type MasterDataController struct {
	DB *gorm.DB
}

func NewMasterDataController(db *gorm.DB) *MasterDataController {
	return &MasterDataController{DB: db}
}

// --- Clients ---

func (mc *MasterDataController) GetAllClients(c *gin.Context) {
	var clients []models.Client
	if err := mc.DB.Order("name asc").Find(&clients).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of clients", clients)
}

func (mc *MasterDataController) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mc.DB.Create(&client).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Client created", client)
}

func (mc *MasterDataController) UpdateClient(c *gin.Context) {
	var client models.Client
	if err := mc.DB.First(&client, c.Param("client_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var input models.Client
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	client.Name = input.Name
	client.Phone = input.Phone
	client.MobilePhone = input.MobilePhone
	client.Address = input.Address
	client.City = input.City
	client.DeliveryType = input.DeliveryType
	if err := mc.DB.Save(&client).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client updated", client)
}

func (mc *MasterDataController) DeleteClient(c *gin.Context) {
	if err := mc.DB.Delete(&models.Client{}, c.Param("client_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client deleted", nil)
}

// --- Moto models ---

func (mc *MasterDataController) GetAllMotoModels(c *gin.Context) {
	var motoModels []models.MotoModel
	if err := mc.DB.Order("brand asc, name asc").Find(&motoModels).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of models", motoModels)
}

func (mc *MasterDataController) CreateMotoModel(c *gin.Context) {
	var motoModel models.MotoModel
	if err := c.ShouldBindJSON(&motoModel); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mc.DB.Create(&motoModel).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Model created", motoModel)
}

func (mc *MasterDataController) DeleteMotoModel(c *gin.Context) {
	if err := mc.DB.Delete(&models.MotoModel{}, c.Param("model_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Model deleted", nil)
}

// --- Parts ---

func (mc *MasterDataController) GetAllParts(c *gin.Context) {
	var parts []models.Part
	if err := mc.DB.Order("name asc").Find(&parts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of parts", parts)
}

func (mc *MasterDataController) CreatePart(c *gin.Context) {
	var part models.Part
	if err := c.ShouldBindJSON(&part); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mc.DB.Create(&part).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Part created", part)
}

func (mc *MasterDataController) DeletePart(c *gin.Context) {
	if err := mc.DB.Delete(&models.Part{}, c.Param("part_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Part deleted", nil)
}

// --- Colors ---

func (mc *MasterDataController) GetAllColors(c *gin.Context) {
	var colors []models.ColorDef
	if err := mc.DB.Order("name asc").Find(&colors).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of colors", colors)
}

func (mc *MasterDataController) CreateColor(c *gin.Context) {
	var color models.ColorDef
	if err := c.ShouldBindJSON(&color); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := mc.DB.Create(&color).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Color created", color)
}

func (mc *MasterDataController) DeleteColor(c *gin.Context) {
	if err := mc.DB.Delete(&models.ColorDef{}, c.Param("color_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Color deleted", nil)
}

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/utils"
	"github.com/motopaint/paintshop-app/workflow"
)

type EmployeeController struct {
	DB *gorm.DB
}

func NewEmployeeController(db *gorm.DB) *EmployeeController {
	return &EmployeeController{DB: db}
}

// Register a new employee (ADMIN only)
func (ec *EmployeeController) Register(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type request struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email"`
		Role     string `json:"role" binding:"required"` // ADMIN, LIDER, OPERARIO, RECEPCION, MENSAJERO
		Area     string `json:"area"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// A leader without a home area cannot run a board
	if req.Role == models.RoleLider && req.Area == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("leaders require an area"))
		return
	}

	var area *workflow.Area
	if req.Area != "" {
		a := workflow.Area(req.Area)
		if !workflow.ValidArea(a) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("unknown area"))
			return
		}
		area = &a
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	employee := models.Employee{
		Name:     req.Name,
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		Role:     req.Role,
		Area:     area,
	}

	if err := ec.DB.Create(&employee).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New employee registered: %s (role=%s)", employee.Username, employee.Role)

	utils.RespondJSON(c, http.StatusCreated, "Employee registered", gin.H{
		"employee_id": employee.ID,
	})
}

// Login -> return JWT
func (ec *EmployeeController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var employee models.Employee
	if err := ec.DB.Where("username = ?", input.Username).First(&employee).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(employee.ID, employee.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": strings.ToLower(employee.Role),
		"user_id":   employee.ID,
		"name":      employee.Name,
		"area":      employee.Area,
	})
}

// GetProfile -> the logged-in employee, from the JWT
func (ec *EmployeeController) GetProfile(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return
	}

	var employee models.Employee
	if err := ec.DB.First(&employee, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", employee)
}

// GetAllEmployees -> the directory leaders assign from
func (ec *EmployeeController) GetAllEmployees(c *gin.Context) {
	var employees []models.Employee
	q := ec.DB
	if area := c.Query("area"); area != "" {
		q = q.Where("area = ?", area)
	}
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&employees).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All employees", employees)
}

// ErrNoPermission is shared by every role-gated handler
var ErrNoPermission = &CustomError{"You do not have permission"}

type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

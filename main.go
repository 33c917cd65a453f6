package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/config"
	"github.com/motopaint/paintshop-app/middlewares"
	"github.com/motopaint/paintshop-app/models"
	"github.com/motopaint/paintshop-app/router"
	"github.com/motopaint/paintshop-app/services"
	"github.com/motopaint/paintshop-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	// Safety-net refresh tick for connected boards
	monitor := services.NewRefreshMonitor(db)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Employee{},
		&models.Client{},
		&models.MotoModel{},
		&models.Part{},
		&models.ColorDef{},
		&models.SpecialEdition{},
		&models.SpecialEditionItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ItemHistoryEntry{},
		&models.Notification{},
		&models.MonthlyCounter{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

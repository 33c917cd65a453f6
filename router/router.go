package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/motopaint/paintshop-app/controllers"
	"github.com/motopaint/paintshop-app/middlewares"
	"github.com/motopaint/paintshop-app/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	employeeCtrl := controllers.NewEmployeeController(db)
	masterCtrl := controllers.NewMasterDataController(db)
	editionCtrl := controllers.NewSpecialEditionController(db)
	orderCtrl := controllers.NewOrderController(db)
	workflowCtrl := controllers.NewWorkflowController(db)
	boardCtrl := controllers.NewBoardController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", employeeCtrl.Login)
	}

	// Client-facing tracker, no auth
	r.GET("/track/:internal_code", orderCtrl.TrackItem)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", employeeCtrl.GetProfile)
	api.GET("/employees", employeeCtrl.GetAllEmployees)
	api.POST("/employees", employeeCtrl.Register)

	// MASTER DATA (reception/admin)
	master := api.Group("/")
	master.Use(middlewares.RequireRoles(models.RoleRecepcion, models.RoleLider))
	{
		master.GET("/clients", masterCtrl.GetAllClients)
		master.POST("/clients", masterCtrl.CreateClient)
		master.PATCH("/clients/:client_id", masterCtrl.UpdateClient)
		master.DELETE("/clients/:client_id", masterCtrl.DeleteClient)

		master.GET("/moto-models", masterCtrl.GetAllMotoModels)
		master.POST("/moto-models", masterCtrl.CreateMotoModel)
		master.DELETE("/moto-models/:model_id", masterCtrl.DeleteMotoModel)

		master.GET("/parts", masterCtrl.GetAllParts)
		master.POST("/parts", masterCtrl.CreatePart)
		master.DELETE("/parts/:part_id", masterCtrl.DeletePart)

		master.GET("/colors", masterCtrl.GetAllColors)
		master.POST("/colors", masterCtrl.CreateColor)
		master.DELETE("/colors/:color_id", masterCtrl.DeleteColor)

		master.GET("/special-editions", editionCtrl.GetAllSpecialEditions)
		master.POST("/special-editions", editionCtrl.CreateSpecialEdition)
		master.DELETE("/special-editions/:edition_id", editionCtrl.DeleteSpecialEdition)
	}

	// ORDERS
	api.GET("/orders", orderCtrl.GetAllOrders)
	api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	api.POST("/orders", middlewares.RequireRoles(models.RoleRecepcion), orderCtrl.CreateOrder)
	api.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	// WORKFLOW COMMANDS
	api.POST("/items/assign", middlewares.RequireRoles(models.RoleLider), workflowCtrl.AssignItems)
	api.POST("/items/approve", middlewares.RequireRoles(models.RoleLider), workflowCtrl.ApproveQuality)
	api.POST("/items/reprocess", middlewares.RequireRoles(models.RoleLider), workflowCtrl.Reprocess)
	api.POST("/items/:item_id/finish", middlewares.RequireRoles(models.RoleOperario, models.RoleMensajero, models.RoleLider), workflowCtrl.FinishTask)
	api.POST("/items/:item_id/return", middlewares.RequireRoles(models.RoleOperario, models.RoleMensajero), workflowCtrl.ReturnTask)
	api.POST("/items/:item_id/damage", workflowCtrl.ReportDamage)

	// BOARDS
	api.GET("/boards/my-tasks", boardCtrl.MyTasks)
	api.GET("/boards/my-counts", boardCtrl.MyCounts)
	api.GET("/boards/attention", middlewares.RequireRoles(models.RoleLider), boardCtrl.AttentionCounts)
	api.GET("/boards/:area", middlewares.RequireRoles(models.RoleLider, models.RoleMensajero), boardCtrl.AreaBoard)
	api.GET("/dashboard/stats", boardCtrl.Stats)

	// NOTIFICATIONS
	api.GET("/notifications", notificationCtrl.GetMyNotifications)
	api.PATCH("/notifications/read-all", notificationCtrl.MarkAllRead)
	api.PATCH("/notifications/:notification_id/read", notificationCtrl.MarkRead)

	// WebSocket endpoint with query-token auth
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("", controllers.BoardHandler)
	}

	return r
}

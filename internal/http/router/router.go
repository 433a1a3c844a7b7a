package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Artixsss/MVDProject/internal/config"
	"github.com/Artixsss/MVDProject/internal/http/handlers"
	"github.com/Artixsss/MVDProject/internal/http/middleware"
	"github.com/Artixsss/MVDProject/internal/models"
	"github.com/Artixsss/MVDProject/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	requestHandler *handlers.RequestHandler,
	operatorHandler *handlers.OperatorHandler,
	employeeHandler *handlers.EmployeeHandler,
	catalogHandler *handlers.CatalogHandler,
	attachmentHandler *handlers.AttachmentHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичная витрина для граждан: подача обращения и проверка статуса
	// по трекинг-номеру, без авторизации.
	publicIntake := api.Group("/requests")
	publicIntake.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		publicIntake.POST("", requestHandler.Submit)
		publicIntake.GET("/status/:number", requestHandler.CheckStatus)
		// Гражданин может приложить фото к уже поданному обращению.
		publicIntake.POST("/:id/attachments", attachmentHandler.Upload)
	}

	// Справочники (публичные, только чтение).
	api.GET("/catalog/categories", catalogHandler.ListCategories)
	api.GET("/catalog/statuses", catalogHandler.ListStatuses)
	api.GET("/catalog/types", catalogHandler.ListTypes)
	api.GET("/catalog/districts", catalogHandler.ListDistricts)

	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты (кабинет сотрудника).
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/operator/requests", operatorHandler.Create)
		protected.GET("/operator/requests", operatorHandler.List)
		protected.GET("/operator/requests/:id", operatorHandler.Get)
		protected.GET("/operator/requests/:id/history", operatorHandler.History)
		protected.GET("/operator/citizens/:id/requests", operatorHandler.ListByCitizen)
		protected.PUT("/operator/requests/:id/status", operatorHandler.UpdateStatus)
		protected.PUT("/operator/requests/:id/assign", operatorHandler.Assign)
		protected.PUT("/operator/requests/:id/category", operatorHandler.CorrectCategory)
		protected.POST("/operator/requests/:id/reanalyze", operatorHandler.Reclassify)
		protected.POST("/operator/requests/:id/reply", operatorHandler.GenerateReply)
		protected.DELETE("/operator/requests/:id", middleware.RequireRole(models.RoleAdmin), operatorHandler.Delete)
		protected.GET("/operator/audit", middleware.RequireRole(models.RoleAdmin), operatorHandler.RecentAudit)

		protected.POST("/operator/requests/:id/attachments", attachmentHandler.Upload)
		protected.GET("/operator/requests/:id/attachments", attachmentHandler.List)
		protected.GET("/attachments/:id", attachmentHandler.Download)
		protected.DELETE("/attachments/:id", attachmentHandler.Delete)

		protected.GET("/employees", employeeHandler.List)
		protected.GET("/employees/:id", employeeHandler.Get)
		protected.GET("/employees/:id/stats", employeeHandler.Stats)

		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/admin/stats", employeeHandler.SystemStats)
			admin.GET("/admin/roles", catalogHandler.ListRoles)

			admin.POST("/employees", employeeHandler.Create)
			admin.PUT("/employees/:id", employeeHandler.Update)
			admin.DELETE("/employees/:id", employeeHandler.Delete)

			admin.POST("/catalog/districts", catalogHandler.CreateDistrict)
			admin.PUT("/catalog/districts/:id", catalogHandler.UpdateDistrict)
			admin.DELETE("/catalog/districts/:id", catalogHandler.DeleteDistrict)
		}
	}

	return r
}

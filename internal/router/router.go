package router

import (
	"net/http"

	"inventory-api/internal/config"
	"inventory-api/internal/handler"
	"inventory-api/internal/middleware"
	"inventory-api/internal/notify"
	"inventory-api/internal/repository"
	"inventory-api/internal/service"
	"inventory-api/internal/websocket"
	"inventory-api/pkg/jwt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services bundles the business layer so the API and the CLI share one wiring
type Services struct {
	Users       service.UserService
	Departments service.DepartmentService
	Inventory   service.InventoryService
	Categories  service.CategoryService
	Insights    service.InsightsService
	Audit       service.AuditService
}

// NewServices sets up dependencies (Repository -> Service)
func NewServices(cfg config.Config, db *gorm.DB, tokens *jwt.Manager, publisher notify.Publisher) Services {
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	itemRepo := repository.NewInventoryRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	insightsRepo := repository.NewInsightsRepository(db)

	return Services{
		Users: service.NewUserService(userRepo, auditRepo, txManager, tokens, service.UserOptions{
			AllowedEmailDomains: cfg.Auth.AllowedEmailDomains,
			ExposeResetToken:    !cfg.IsRelease(),
		}),
		Departments: service.NewDepartmentService(deptRepo, requestRepo, itemRepo, movementRepo, auditRepo, txManager, tokens, publisher),
		Inventory:   service.NewInventoryService(itemRepo, categoryRepo, movementRepo, auditRepo, txManager, publisher),
		Categories:  service.NewCategoryService(categoryRepo, itemRepo, auditRepo, txManager),
		Insights:    service.NewInsightsService(insightsRepo, requestRepo),
		Audit:       service.NewAuditService(auditRepo),
	}
}

// New builds the gin engine with every route registered
func New(cfg config.Config, services Services, tokens *jwt.Manager, hub *websocket.Hub) *gin.Engine {
	auth := middleware.NewAuth(tokens, cfg.IsRelease())

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if hub != nil {
		router.GET("/ws", websocket.ServeWs(hub, tokens))
	}

	api := router.Group("/api")
	handler.NewUserHandler(services.Users, auth).RegisterRoutes(api)
	handler.NewDepartmentHandler(services.Departments, auth).RegisterRoutes(api)
	handler.NewInventoryHandler(services.Inventory, auth).RegisterRoutes(api)
	handler.NewCategoryHandler(services.Categories, auth).RegisterRoutes(api)
	handler.NewInsightsHandler(services.Insights, auth).RegisterRoutes(api)
	handler.NewAuditHandler(services.Audit, auth).RegisterRoutes(api)

	return router
}

package router

import (
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/handler"
	"tiendapos/internal/middleware"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"
	"tiendapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	stockMovRepo := repository.NewStockMovementRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)
	backupRepo := repository.NewBackupRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, rdb)
	inventorySvc := service.NewInventoryService(productRepo, stockMovRepo)
	sessionSvc := service.NewSessionService(sessionRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, stockMovRepo, sessionRepo, sessionSvc, settingsRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, supplierRepo, productRepo, stockMovRepo)
	reportSvc := service.NewReportService(reportRepo)
	backupSvc := service.NewBackupService(backupRepo)

	// Worker dispatcher — nil without Redis; backup jobs then run inline
	dispatcher := worker.NewDispatcher(rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	salesH := handler.NewSaleHandler(saleSvc)
	sessionsH := handler.NewSessionHandler(sessionSvc)
	suppliersH := handler.NewSupplierHandler(supplierSvc)
	purchasesH := handler.NewPurchaseHandler(purchaseSvc)
	reportsH := handler.NewReportHandler(reportSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	backupH := handler.NewBackupHandler(backupSvc, dispatcher, cfg.BackupDir)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Price check — no auth required, the scanner screen works pre-login
	r.GET("/v1/price/:barcode", productsH.LookupByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleCashier, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/refresh", anyRole, authH.Refresh)

		v1.POST("/sales", anyRole, salesH.Process)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/:id", anyRole, salesH.Get)
		v1.POST("/sales/:id/reverse", adminOnly, salesH.Reverse)

		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/:id", anyRole, productsH.Get)
		v1.PATCH("/products/:id/stock", adminOnly, inventoryH.AdjustStock)
		v1.GET("/products/:id/availability", anyRole, inventoryH.CheckAvailability)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		inv := v1.Group("/inventory", anyRole)
		{
			inv.GET("/alerts", inventoryH.Alerts)
			inv.GET("/movements", inventoryH.ListMovements)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("/open", anyRole, sessionsH.Open)
			sessions.GET("/active", anyRole, sessionsH.GetActive)
			sessions.POST("/movements", anyRole, sessionsH.RecordMovement)
			sessions.GET("/:id/summary", anyRole, sessionsH.Summary)
			sessions.GET("/:id/movements", anyRole, sessionsH.ListMovements)
			sessions.POST("/close", anyRole, sessionsH.Close)
			sessions.GET("/history", adminOnly, sessionsH.History)
		}

		suppliers := v1.Group("/suppliers", adminOnly)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}

		purchases := v1.Group("/purchases", adminOnly)
		{
			purchases.POST("", purchasesH.Create)
			purchases.GET("", purchasesH.List)
			purchases.GET("/:id", purchasesH.Get)
			purchases.POST("/:id/receive", purchasesH.Receive)
			purchases.POST("/:id/cancel", purchasesH.Cancel)
		}

		v1.GET("/reports/profit", adminOnly, reportsH.Profit)

		settings := v1.Group("/settings", adminOnly)
		{
			settings.GET("", settingsH.Get)
			settings.PUT("", settingsH.Update)
		}

		backup := v1.Group("/backup", adminOnly)
		{
			backup.GET("/export", backupH.Export)
			backup.POST("/import", backupH.Import)
			backup.POST("/run", backupH.Run)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	return r
}

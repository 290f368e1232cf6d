package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/sharath018/business-directory-backend/config"
	_ "github.com/sharath018/business-directory-backend/docs"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/auth"
	"github.com/sharath018/business-directory-backend/internal/billing"
	"github.com/sharath018/business-directory-backend/internal/business"
	"github.com/sharath018/business-directory-backend/internal/catalog"
	"github.com/sharath018/business-directory-backend/internal/events"
	"github.com/sharath018/business-directory-backend/internal/lock"
	"github.com/sharath018/business-directory-backend/internal/notification"
	"github.com/sharath018/business-directory-backend/internal/promotion"
	"github.com/sharath018/business-directory-backend/internal/reports"
	"github.com/sharath018/business-directory-backend/internal/submission"
	"github.com/sharath018/business-directory-backend/middleware"
)

// Deps carries the infrastructure built in main.
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Locker      lock.Locker
	Publisher   events.Publisher
	Notifier    *notification.Service
	Broadcaster *notification.Broadcaster
	Gateway     billing.Gateway
	Log         zerolog.Logger
}

func Setup(r *gin.Engine, cfg *config.Config, d Deps) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		d.Log.Warn().Err(err).Str("dir", cfg.UploadDir).Msg("could not create upload directory")
	}
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuditMiddleware())
	api.Use(middleware.RateLimiter(cfg.RateLimitPerMin, d.Redis, d.Log))

	// ========== Services ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(d.DB))

	authSvc := auth.NewService(auth.NewRepository(d.DB), auditSvc, cfg, d.Log)

	catalogSvc := catalog.NewService(catalog.NewRepository(d.DB), catalog.NewUploader(cfg.UploadDir, cfg.MaxUploadMB), d.Log)

	businessRepo := business.NewRepository(d.DB)
	businessSvc := business.NewService(businessRepo, auditSvc, d.Log)

	submissionSvc := submission.NewService(
		submission.NewRepository(d.DB),
		submission.NewTransactor(d.DB),
		catalogSvc,
		d.Locker,
		d.Publisher,
		auditSvc,
		d.Log,
	)

	promotionSvc := promotion.NewService(promotion.NewRepository(d.DB), businessSvc, catalogSvc, auditSvc, d.Log)

	billingSvc := billing.NewService(
		billing.NewRepository(d.DB),
		d.Gateway,
		businessSvc,
		catalogSvc,
		businessRepo,
		auditSvc,
		cfg.RazorpayKey,
		cfg.RazorpaySecret,
		d.Log,
	)

	reportSvc := reports.NewService(reports.NewRepository(d.DB), auditSvc, d.Log)

	// ========== Handlers ==========
	authHandler := auth.NewHandler(authSvc)
	catalogHandler := catalog.NewHandler(catalogSvc)
	businessHandler := business.NewHandler(businessSvc)
	submissionHandler := submission.NewHandler(submissionSvc)
	promotionHandler := promotion.NewHandler(promotionSvc)
	billingHandler := billing.NewHandler(billingSvc)
	reportHandler := reports.NewHandler(reportSvc)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Public ==========
	api.POST("/submissions", submissionHandler.Submit)

	api.GET("/categories", catalogHandler.ListCategories)
	api.GET("/zones", catalogHandler.ListZones)
	api.GET("/plans", catalogHandler.ListPlans)
	api.POST("/media", catalogHandler.UploadMedia)

	api.GET("/businesses", businessHandler.List)
	api.GET("/businesses/:id", businessHandler.Get)
	api.GET("/businesses/:id/offers", promotionHandler.ActiveOffers)
	api.GET("/ads", promotionHandler.ActiveAds)

	billingGroup := api.Group("/billing")
	{
		billingGroup.POST("/checkout", billingHandler.Checkout)
		billingGroup.POST("/verify", billingHandler.Verify)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(authSvc), authHandler.Me)
	}

	// ========== Admin ==========
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc), middleware.RBACMiddleware(middleware.AdminRoles...))
	{
		admin.GET("/submissions", submissionHandler.List)
		admin.GET("/submissions/counts", submissionHandler.Counts)
		admin.GET("/submissions/:id", submissionHandler.Get)
		admin.PATCH("/submissions/:id", submissionHandler.ChangeStatus)
		admin.PATCH("/submissions/:id/review", submissionHandler.Review)

		admin.GET("/businesses", businessHandler.AdminList)
		admin.PATCH("/businesses/:id", businessHandler.UpdateFlags)
		admin.GET("/businesses/:id/payments", billingHandler.ListPayments)

		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.PUT("/categories/:id", catalogHandler.UpdateCategory)
		admin.POST("/zones", catalogHandler.CreateZone)
		admin.PUT("/zones/:id", catalogHandler.UpdateZone)
		admin.POST("/plans", catalogHandler.CreatePlan)
		admin.PUT("/plans/:id", catalogHandler.UpdatePlan)

		admin.POST("/offers", promotionHandler.CreateOffer)
		admin.PATCH("/offers/:id/deactivate", promotionHandler.DeactivateOffer)
		admin.POST("/ads", promotionHandler.CreateAd)
		admin.PATCH("/ads/:id/deactivate", promotionHandler.DeactivateAd)

		admin.GET("/reports/submissions", reportHandler.Submissions)
		admin.GET("/reports/businesses", reportHandler.Businesses)

		admin.GET("/auditlogs", auditHandler.GetAuditLogs)
		admin.GET("/auditlogs/stats", auditHandler.GetAuditLogStats)
		admin.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)

		if d.Notifier != nil {
			notificationHandler := notification.NewHandler(d.Notifier, d.Broadcaster)
			admin.GET("/notifications", notificationHandler.ListLogs)
			admin.POST("/notifications/devices", notificationHandler.RegisterDevice)
			admin.GET("/notifications/stream", notificationHandler.Stream)
		}
	}

	superadmin := api.Group("/superadmin")
	superadmin.Use(middleware.AuthMiddleware(authSvc), middleware.RBACMiddleware(middleware.SuperAdminRoles...))
	{
		superadmin.GET("/admins", authHandler.ListAdmins)
		superadmin.POST("/admins", authHandler.CreateAdmin)
		superadmin.PATCH("/admins/:id/status", authHandler.UpdateAdminStatus)
	}
}

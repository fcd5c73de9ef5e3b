package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cleanmarket/internal/config"
	"cleanmarket/internal/database"
	"cleanmarket/internal/domain"
	"cleanmarket/internal/middleware"
	"cleanmarket/internal/modules/admin"
	"cleanmarket/internal/modules/booking"
	"cleanmarket/internal/modules/catalog"
	"cleanmarket/internal/modules/review"
	jwtsvc "cleanmarket/internal/pkg/jwt"
	"cleanmarket/internal/pkg/logger"
	"cleanmarket/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger.Init(cfg.IsProduction())
	log := logger.L()
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("auto migrate", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	bookingService := booking.NewService(bookingRepo, catalogRepo, userRepo)
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(reviewRepo, bookingRepo)
	reviewHandler := review.NewHandler(reviewService)

	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	adminService := admin.NewService(statsRepo, bookingRepo)
	adminHandler := admin.NewHandler(adminService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)

		authed := v1.Group("/")
		authed.Use(middleware.RequireAuth(j))
		{
			// any authenticated caller
			reviewHandler.RegisterRoutes(authed)

			customer := authed.Group("/")
			customer.Use(middleware.RequireRole(string(domain.RoleCustomer)))
			bookingHandler.RegisterCustomerRoutes(customer)

			cleaner := authed.Group("/")
			cleaner.Use(middleware.RequireRole(string(domain.RoleCleaner)))
			bookingHandler.RegisterCleanerRoutes(cleaner)

			adm := authed.Group("/")
			adm.Use(middleware.RequireRole(string(domain.RoleAdmin)))
			adminHandler.RegisterRoutes(adm)
		}
	}

	log.Info("listening", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}

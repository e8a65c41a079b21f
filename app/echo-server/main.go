package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appmetrics "myCourseCompass/app/echo-server/metrics"
	"myCourseCompass/app/echo-server/router"
	"myCourseCompass/business/calculation"
	"myCourseCompass/business/course"
	"myCourseCompass/business/grade"
	"myCourseCompass/business/institution"
	"myCourseCompass/business/payments"
	userService "myCourseCompass/business/user"
	"myCourseCompass/internal/middleware"
	"myCourseCompass/internal/repository/notification"
	"myCourseCompass/internal/repository/paystack"
	psqlRepo "myCourseCompass/internal/repository/postgres"
	redisRepo "myCourseCompass/internal/repository/redis"
	"myCourseCompass/internal/rest"
	"myCourseCompass/pkg/clusters"
	"myCourseCompass/pkg/config"
	"myCourseCompass/pkg/database"
	redisdb "myCourseCompass/pkg/database/redis"
	"myCourseCompass/pkg/logger"
	"myCourseCompass/pkg/metrics"
	"myCourseCompass/pkg/validation"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Course Compass", "version", cfg.App.Version)

	metrics.Init()
	appmetrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	clusterRegistry, err := clusters.Load(cfg.Calculation.ClustersFile)
	if err != nil {
		logger.Fatal("Failed to load cluster definitions", "error", err)
	}

	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	paystackRepo := paystack.NewPaystackRepository(
		paystack.PaystackConfig{
			SecretKey:   cfg.Paystack.PaystackSecretKey,
			BaseURL:     cfg.Paystack.PaystackBaseUrl,
			CallbackURL: cfg.Paystack.CallbackUrl,
		},
	)

	validate := validation.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	courseRepo := psqlRepo.NewCourseRepository(db)
	institutionRepo := psqlRepo.NewInstitutionRepository(db)
	gradeRepo := psqlRepo.NewGradeRepository(db)
	resultRepo := psqlRepo.NewResultRepository(db)
	transactionRepo := psqlRepo.NewTransactionRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	catalog := redisRepo.NewCatalogCache(redisClient, courseRepo, cfg.Calculation.CatalogCacheTTL)

	// Init service
	userService := userService.NewUserService(userRepo, tokenRepo, validate, mailjetEmail, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	gradeService := grade.NewGradeService(gradeRepo)
	courseService := course.NewCourseService(courseRepo)
	institutionService := institution.NewInstitutionService(institutionRepo, courseRepo)
	calculationService := calculation.NewCalculationService(catalog, resultRepo, clusterRegistry, cfg.Calculation.MinSubjects, cfg.Calculation.RecommendationLimit)
	paymentsService := payments.NewPaymentsService(transactionRepo, paystackRepo, userRepo, mailjetEmail, payments.Config{
		SecretKey: cfg.Paystack.PaystackSecretKey,
		Currency:  cfg.Paystack.Currency,
		AccessFee: cfg.Paystack.AccessFee,
	})

	// Init handler
	userHandler := rest.NewUserHandler(userService, validate)
	gradeHandler := rest.NewGradeHandler(gradeService, validate)
	calculationHandler := rest.NewCalculationHandler(calculationService, validate)
	courseHandler := rest.NewCourseHandler(courseService)
	institutionHandler := rest.NewInstitutionHandler(institutionService)
	paymentsHandler := rest.NewPaymentsHandler(paymentsService, validate)
	clusterHandler := rest.NewClusterHandler(clusterRegistry)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(appmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: splitOrigins(cfg.App.AllowOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authRequired := middleware.AuthMiddlewareWithRedis(userService)
	adminOnly := middleware.AdminOnly()
	selfOrAdmin := middleware.SelfOrAdmin()
	paymentRequired := middleware.RequirePayment(paymentsService)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly, selfOrAdmin)
	router.SetupGradeRoutes(api, gradeHandler, authRequired)
	router.SetupCalculationRoutes(api, calculationHandler, authRequired, paymentRequired)
	router.SetupCourseRoutes(api, courseHandler)
	router.SetupInstitutionRoutes(api, institutionHandler)
	router.SetupPaymentRoutes(api, paymentsHandler, authRequired)
	router.SetupWebhookRoutes(api, paymentsHandler)
	router.SetupClusterRoutes(api, clusterHandler)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Failed to close redis client", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Server stopped")
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

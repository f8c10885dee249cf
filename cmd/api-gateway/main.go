package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campusgate/gatepass-api/api/swagger"
	"github.com/campusgate/gatepass-api/internal/handler"
	"github.com/campusgate/gatepass-api/internal/middleware"
	"github.com/campusgate/gatepass-api/internal/models"
	"github.com/campusgate/gatepass-api/internal/repository"
	"github.com/campusgate/gatepass-api/internal/service"
	"github.com/campusgate/gatepass-api/internal/store"
	"github.com/campusgate/gatepass-api/internal/upstream"
	"github.com/campusgate/gatepass-api/pkg/cache"
	"github.com/campusgate/gatepass-api/pkg/config"
	"github.com/campusgate/gatepass-api/pkg/logger"
	corsmiddleware "github.com/campusgate/gatepass-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusgate/gatepass-api/pkg/middleware/requestid"
)

// @title Campus Gate Pass API
// @version 1.0.0
// @description Gate pass requests, approvals and dual-verification exit checks
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	st := store.New(logr)
	up := upstream.New(cfg.Upstream)
	if up.Enabled() {
		logr.Info("upstream forwarding enabled", zap.String("base_url", cfg.Upstream.BaseURL))
	} else {
		logr.Info("no upstream configured, serving from local store")
	}

	var cacheRepo service.CacheRepository
	if cfg.Stats.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stats cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	metrics := service.NewMetricsService()
	statsCache := service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, cacheRepo != nil)

	authService := service.NewAuthService(st, up, nil, logr, cfg.Auth)
	passService := service.NewPassService(st, up, nil, metrics, statsCache, logr)
	teacherService := service.NewTeacherService(st, up, metrics, logr)
	verificationService := service.NewVerificationService(st, up, nil, metrics, logr)
	statsService := service.NewStatsService(st, up, metrics, statsCache, logr)
	exportService := service.NewExportService(st, logr)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(passService)
	facultyHandler := handler.NewFacultyHandler(passService)
	teacherHandler := handler.NewTeacherHandler(teacherService)
	securityHandler := handler.NewSecurityHandler(verificationService)
	statsHandler := handler.NewStatsHandler(statsService, exportService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(authService))

	student := authed.Group("/student", middleware.RequireRoles(models.RoleStudent))
	student.GET("/passes", studentHandler.ListPasses)
	student.POST("/request", studentHandler.RequestPass)

	faculty := authed.Group("/faculty", middleware.RequireRoles(models.RoleFaculty, models.RoleAdmin))
	faculty.GET("/requests", facultyHandler.ListRequests)
	faculty.PUT("/request/:id",
		middleware.Audit(logr, "pass.decide", "pass"),
		facultyHandler.Decide)

	teachers := authed.Group("/teachers")
	teachers.GET("", teacherHandler.List)
	teachers.GET("/present", teacherHandler.ListPresent)
	teachers.PUT("/:id/presence",
		middleware.RequireRoles(models.RoleFaculty, models.RoleAdmin),
		middleware.Audit(logr, "teacher.presence", "teacher"),
		teacherHandler.TogglePresence)

	security := authed.Group("/security", middleware.RequireRoles(models.RoleSecurity, models.RoleAdmin))
	security.POST("/verify",
		middleware.Audit(logr, "pass.verify_qr", "pass"),
		securityHandler.VerifyQR)
	security.PUT("/facial-verify/:id",
		middleware.Audit(logr, "pass.verify_facial", "pass"),
		securityHandler.VerifyFacial)

	authed.GET("/passes/:id/exit-status",
		middleware.RequireRoles(models.RoleSecurity, models.RoleAdmin),
		securityHandler.ExitStatus)

	admin := authed.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/stats", statsHandler.Stats)
	admin.GET("/export", statsHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

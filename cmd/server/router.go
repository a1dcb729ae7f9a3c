// Package main 是应用程序入口
package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-manager-backend/internal/common/config"
	"github.com/dumeirei/hotel-manager-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-manager-backend/internal/common/metrics"
	analyticsHandler "github.com/dumeirei/hotel-manager-backend/internal/handler/analytics"
	authHandler "github.com/dumeirei/hotel-manager-backend/internal/handler/auth"
	bookingHandler "github.com/dumeirei/hotel-manager-backend/internal/handler/booking"
	roomHandler "github.com/dumeirei/hotel-manager-backend/internal/handler/room"
	systemHandler "github.com/dumeirei/hotel-manager-backend/internal/handler/system"
	userHandler "github.com/dumeirei/hotel-manager-backend/internal/handler/user"
	"github.com/dumeirei/hotel-manager-backend/internal/middleware"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
	"github.com/dumeirei/hotel-manager-backend/internal/scheduler"
	analyticsService "github.com/dumeirei/hotel-manager-backend/internal/service/analytics"
	auditService "github.com/dumeirei/hotel-manager-backend/internal/service/audit"
	authService "github.com/dumeirei/hotel-manager-backend/internal/service/auth"
	bookingService "github.com/dumeirei/hotel-manager-backend/internal/service/booking"
	roomService "github.com/dumeirei/hotel-manager-backend/internal/service/room"
	systemService "github.com/dumeirei/hotel-manager-backend/internal/service/system"
	userService "github.com/dumeirei/hotel-manager-backend/internal/service/user"
)

// importBodyLimit 导入备份的最大请求体（整库 JSON）
const importBodyLimit = 64 << 20

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
) (*scheduler.Scheduler, error) {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:           cfg.JWT.Secret,
		AccessExpireTime: cfg.JWT.AccessTokenDuration(),
		Issuer:           cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// 初始化服务
	auditSvc := auditService.NewService(auditRepo)
	roomSvc := roomService.NewService(db, roomRepo, bookingRepo, auditSvc)
	bookingSvc := bookingService.NewService(db, bookingRepo, roomRepo, auditSvc)
	analyticsSvc := analyticsService.NewService(roomRepo, bookingRepo)
	userSvc := userService.NewService(cfg, userRepo, sessionRepo, auditSvc)
	authSvc := authService.NewService(cfg, jwtManager, userRepo, sessionRepo, auditSvc)
	systemSvc := systemService.NewService(db, cfg, userRepo, roomRepo, bookingRepo,
		sessionRepo, auditRepo, settingsRepo, auditSvc)

	// 首次运行初始化管理员与示例房间
	if err := systemSvc.Seed(context.Background()); err != nil {
		return nil, err
	}

	// 后台定时任务
	taskHandler := scheduler.NewTaskHandler(authSvc, auditSvc)
	sched := scheduler.NewScheduler()
	sched.AddTask("cleanup_expired_sessions", time.Hour, taskHandler.CleanupExpiredSessions)
	sched.AddTask("clear_old_audit_logs", 24*time.Hour, taskHandler.ClearOldAuditLogs)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	userH := userHandler.NewHandler(userSvc)
	roomH := roomHandler.NewHandler(roomSvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	analyticsH := analyticsHandler.NewHandler(analyticsSvc)
	systemH := systemHandler.NewHandler(systemSvc, auditSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(corsConfig(cfg)))
	r.Use(middleware.AccessLog(logger))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db))

	// 监控指标
	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证）
		v1.POST("/auth/sign-in", authH.SignIn)
		v1.GET("/auth/session", authH.ValidateSession)

		// 员工接口（需要登录）
		staff := v1.Group("")
		staff.Use(middleware.Auth(jwtManager))
		{
			staff.POST("/auth/sign-out", authH.SignOut)

			// 当前用户
			staff.GET("/users/me", userH.Me)

			// 房间管理
			staff.GET("/rooms", roomH.List)
			staff.POST("/rooms", roomH.Create)
			staff.GET("/rooms/available", roomH.Available)
			staff.GET("/rooms/:id", roomH.Get)
			staff.PUT("/rooms/:id", roomH.Update)
			staff.DELETE("/rooms/:id", roomH.Delete)

			// 预订管理
			staff.GET("/bookings", bookingH.List)
			staff.POST("/bookings", bookingH.Create)
			staff.GET("/bookings/upcoming", bookingH.Upcoming)
			staff.GET("/bookings/today/check-ins", bookingH.TodayCheckIns)
			staff.GET("/bookings/today/check-outs", bookingH.TodayCheckOuts)
			staff.GET("/bookings/:id", bookingH.Get)
			staff.PUT("/bookings/:id", bookingH.Update)
			staff.DELETE("/bookings/:id", bookingH.Delete)
			staff.POST("/bookings/:id/check-in", bookingH.CheckIn)
			staff.POST("/bookings/:id/check-out", bookingH.CheckOut)
			staff.POST("/bookings/:id/cancel", bookingH.Cancel)

			// 统计分析
			staff.GET("/analytics/occupancy", analyticsH.Occupancy)
			staff.GET("/analytics/revenue", analyticsH.Revenue)
			staff.GET("/analytics/rooms", analyticsH.RoomStatus)
			staff.GET("/analytics/dashboard", analyticsH.Dashboard)

			// 应用设置
			staff.GET("/settings", systemH.GetSettings)
			staff.PUT("/settings", systemH.UpdateSettings)
		}

		// 管理员接口
		admin := v1.Group("")
		admin.Use(middleware.Auth(jwtManager), middleware.RequireAdmin())
		{
			// 用户管理
			admin.GET("/users", userH.List)
			admin.POST("/users", userH.Create)
			admin.GET("/users/:id", userH.Get)
			admin.PUT("/users/:id", userH.Update)
			admin.DELETE("/users/:id", userH.Delete)

			// 审计日志
			admin.GET("/audit-logs", systemH.ListAuditLogs)
			admin.GET("/audit-logs/recent", systemH.RecentAuditLogs)
			admin.POST("/audit-logs/clear", systemH.ClearOldAuditLogs)

			// 数据备份与恢复
			admin.GET("/system/export", systemH.Export)
			admin.POST("/system/import", middleware.RequestSizeLimiter(importBodyLimit), systemH.Import)
			admin.POST("/system/reset", systemH.Reset)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	return sched, nil
}

// corsConfig 将应用配置转换为 CORS 中间件配置
func corsConfig(cfg *config.Config) *middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	corsCfg.AllowCredentials = cfg.CORS.AllowCredentials
	if cfg.CORS.MaxAge > 0 {
		corsCfg.MaxAge = cfg.CORS.MaxAge
	}
	return corsCfg
}

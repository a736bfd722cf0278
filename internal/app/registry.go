package app

import (
	"github.com/Jordan1022/laundryco-scheduler/internal/auth"
	"github.com/Jordan1022/laundryco-scheduler/internal/config"
	"github.com/Jordan1022/laundryco-scheduler/internal/messaging/kafka"
	"github.com/Jordan1022/laundryco-scheduler/internal/middleware"
	"github.com/Jordan1022/laundryco-scheduler/internal/schedule"
	"github.com/Jordan1022/laundryco-scheduler/internal/shift"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"
	"github.com/Jordan1022/laundryco-scheduler/internal/swap"
	"github.com/Jordan1022/laundryco-scheduler/internal/timeoff"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	// --- Repositories ---
	staffRepo := staff.NewRepository(gormDB)
	shiftRepo := shift.NewRepository(gormDB)
	timeoffRepo := timeoff.NewRepository(gormDB)
	swapRepo := swap.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Services ---
	scheduleService := schedule.NewService(shiftRepo, rdb)
	exportService := schedule.NewExportService(shiftRepo)
	authService := auth.NewService(staffRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	staffService := staff.NewService(gormDB, staffRepo, outboxRepo)
	shiftService := shift.NewService(gormDB, shiftRepo, staffRepo, outboxRepo, scheduleService, cfg.Schedule.ClosingMinutes)
	timeoffService := timeoff.NewService(gormDB, timeoffRepo, outboxRepo)
	swapService := swap.NewService(gormDB, swapRepo, shiftRepo, staffRepo, outboxRepo, scheduleService)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	staffHandler := staff.NewHandler(staffService)
	shiftHandler := shift.NewHandler(shiftService)
	timeoffHandler := timeoff.NewHandler(timeoffService)
	swapHandler := swap.NewHandler(swapService)
	scheduleHandler := schedule.NewHandler(scheduleService, exportService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// Token verification uses the same configured secret the auth service
	// signs with, never a separately sourced one.
	authRequired := middleware.AuthMiddleware(cfg.Auth.JWTSecret)

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authRequired)
		staff.RegisterRoutes(api, staffHandler, authRequired)
		shift.RegisterRoutes(api, shiftHandler, authRequired)
		timeoff.RegisterRoutes(api, timeoffHandler, authRequired)
		swap.RegisterRoutes(api, swapHandler, authRequired)
		schedule.RegisterRoutes(api, scheduleHandler, authRequired)
	}
}

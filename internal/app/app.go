package app

import (
	"github.com/Jordan1022/laundryco-scheduler/internal/config"
	"github.com/Jordan1022/laundryco-scheduler/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, runs migrations, and registers routes.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), 5)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	if err := connection.RunMigrations(sqlDB); err != nil {
		return err
	}
	logger.Info("migrations applied")

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, 5)
	if err != nil {
		// Roster caching degrades to direct queries without Redis.
		logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
		rdb = nil
	} else {
		logger.Info("redis connection established")
	}

	registerModules(router, cfg, gormDB, rdb)
	return nil
}

package main

import (
	"context"

	"go-incident-tracker/internal/app"
	"go-incident-tracker/internal/employee"
	"go-incident-tracker/internal/shared/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	infra, err := app.Connect(config.Load(), logger)
	if err != nil {
		logger.Fatal("connect failed", zap.Error(err))
	}
	defer infra.Close()

	added, err := employee.Seed(context.Background(), employee.NewRepository(infra.GormDB), employee.DefaultRoster(), logger)
	if err != nil {
		logger.Fatal("seed employees failed", zap.Int("added", added), zap.Error(err))
	}
	logger.Info("seed completed", zap.Int("added", added))

	// cache options sudah basi setelah seed
	if infra.Redis != nil && added > 0 {
		_ = infra.Redis.Del(context.Background(), employee.EmployeeOptionsKey).Err()
	}
}

package main

import (
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shopledger/backend/internal/infrastructure/config"
	"github.com/shopledger/backend/internal/infrastructure/logger"
	"github.com/shopledger/backend/internal/infrastructure/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() { _ = log.Sync() }()

	db, err := persistence.NewDatabase(&cfg.Database, log, gormlogger.Info)
	if err != nil {
		log.Fatal("connecting to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	log.Info("running migrations", zap.String("driver", cfg.Database.Driver))
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations complete")
}

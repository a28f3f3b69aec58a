// @title           InfraSight Telemetry Analytics API
// @version         1.0
// @description     Building-sensor monitoring dashboard backend with health, anomaly, temperature and audit analytics

// @BasePath  /api
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/Amadou-dot/infrasight-sub001/config"
	"github.com/Amadou-dot/infrasight-sub001/internal/infrastructure/database"
	"github.com/Amadou-dot/infrasight-sub001/models"
	"github.com/Amadou-dot/infrasight-sub001/routes"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := config.SetupLogger(); err != nil {
		fmt.Printf("failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	// Environment variables may also come from the deployment, so a
	// missing .env file is not fatal
	if err := godotenv.Load(); err != nil {
		config.Warning("could not load .env file: %v", err)
	} else {
		config.Info("loaded .env file")
	}

	cfg := config.GetConfig()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("failed to create database pool: %v", err)
	}
	defer pool.Close()
	db := pool.GetDB()

	switch cfg.DBMigrationMode {
	case "drop":
		log.Println("warning: running in drop mode, all tables will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("drop migration failed: %v", err)
		}
	default:
		if err := autoMigrate(db); err != nil {
			log.Fatalf("auto migration failed: %v", err)
		}
	}

	r := routes.SetupRouter(db, cfg)

	config.Info("starting server on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// autoMigrate adds new tables and columns, never drops
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Device{},
		&models.Reading{},
	)
}

// dropAndRecreateTables rebuilds the schema from scratch
func dropAndRecreateTables(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&models.Reading{}, &models.Device{}); err != nil {
		return err
	}
	return autoMigrate(db)
}

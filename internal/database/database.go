package database

import (
	"fmt"

	"github.com/andreyPromaster/Course/internal/config"
	"github.com/andreyPromaster/Course/internal/logger"
	"github.com/andreyPromaster/Course/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config, log *logger.Logger) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	log.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return db
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.TakenQuiz{},
		&models.StudentAnswer{},
	)
}

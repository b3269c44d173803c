package db

import (
	"fmt"

	"ngosocial/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config is shared by every dialector so that unique violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

// Open connects to Postgres.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("Database connection established")
	return conn, nil
}

// Migrate creates or updates every table the service uses.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Ngo{},
		&models.Post{},
		&models.Issue{},
		&models.Comment{},
		&models.Vote{},
		&models.Campaign{},
		&models.CampaignBroadcast{},
		&models.FundRaising{},
		&models.Transaction{},
		&models.PointLog{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

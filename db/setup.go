package db

import (
	"fmt"

	"github.com/greengenius/greengenius/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the store for driver ("postgres", "mysql" or
// "sqlite") and sets DB.
func ConnectDatabase(driver, dsn string) error {
	dialector, err := dialectorFor(driver, dsn)

	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return err
	}

	return nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func MigrateDatabase() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Pot{},
		&models.SensorReading{},
		&models.GrowthEntry{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
	)
}

// Ping checks that the underlying connection is alive.
func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}

	sqlDB, err := DB.DB()

	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

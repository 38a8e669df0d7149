package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ryansh/mediarater/internal/config"
	"github.com/ryansh/mediarater/internal/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection based on the configured type,
// migrates the schema, and runs the seed migration
func Initialize(cfg *config.Config) error {
	var err error

	switch cfg.Database.Type {
	case "postgres":
		DB, err = connectPostgres(&cfg.Database)
	case "sqlite":
		DB, err = connectSQLite(&cfg.Database)
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	if err := Seed(DB, cfg); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	logger.Info("database initialized", "type", cfg.Database.Type)
	return nil
}

// Migrate applies the schema for all catalog models
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Tag{},
		&Media{},
		&Season{},
		&Episode{},
		&Track{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func connectPostgres(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port)

	return gorm.Open(postgres.Open(dsn), gormConfig(cfg))
}

func connectSQLite(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Foreign keys must be switched on per connection for the declared
	// cascade rules to be enforced by sqlite
	dsn := fmt.Sprintf("%s?_foreign_keys=on", cfg.DatabasePath)

	return gorm.Open(sqlite.Open(dsn), gormConfig(cfg))
}

func gormConfig(cfg *config.DatabaseConfig) *gorm.Config {
	logMode := gormlogger.Warn
	if cfg.LogQueries {
		logMode = gormlogger.Info
	}
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	}
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (used by tests)
func SetDB(db *gorm.DB) {
	DB = db
}

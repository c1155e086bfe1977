package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/tienda-api/internal/config"
	"github.com/sangkips/tienda-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store: PostgreSQL, or an embedded SQLite file.
func Open(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case "", "postgres":
		return NewPostgresDB(cfg, gormCfg, log)
	case "sqlite":
		return NewSQLiteDB(cfg.SQLitePath, gormCfg, log)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, gormCfg *gorm.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to database", zap.String("driver", "postgres"), zap.String("host", cfg.Host), zap.String("name", cfg.Name))
	return db, nil
}

// NewSQLiteDB opens an SQLite database. A single connection serialises writers,
// so the conditional stock update never races inside one process.
func NewSQLiteDB(dsn string, gormCfg *gorm.Config, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("DB_SQLITE_PATH is empty")
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	log.Info("connected to database", zap.String("driver", "sqlite"), zap.String("path", dsn))
	return db, nil
}

const legacyIdempotencyIndex = "idx_idempotency_keys_key"

// Models lists every table managed by auto-migration, parents first.
func Models() []interface{} {
	return []interface{}{
		&entity.Company{},
		&entity.Supplier{},
		&entity.Client{},
		&entity.Employee{},
		&entity.Product{},
		&entity.Invoice{},
		&entity.StockMovement{},
		&entity.IdempotencyKey{},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Keys used to be unique on their own; they are now unique per operator.
	if m := db.Migrator(); m.HasIndex(&entity.IdempotencyKey{}, legacyIdempotencyIndex) {
		if err := m.DropIndex(&entity.IdempotencyKey{}, legacyIdempotencyIndex); err != nil {
			return fmt.Errorf("failed to drop %s: %w", legacyIdempotencyIndex, err)
		}
	}

	log.Info("database migrations completed")
	return nil
}

// Ping checks that the store answers
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

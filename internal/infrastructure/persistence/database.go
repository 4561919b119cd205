package persistence

import (
	"fmt"
	"time"

	"github.com/shoemarket/backend/internal/infrastructure/config"
	applogger "github.com/shoemarket/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the gorm connection and its pool settings
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a connection with SQL logging disabled
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return open(cfg, gormlogger.Default.LogMode(gormlogger.Silent))
}

// NewDatabaseWithLogger opens a connection that routes SQL logging through
// the given zap logger at the given level
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, zapLogger *zap.Logger, logLevel gormlogger.LogLevel) (*Database, error) {
	return open(cfg, applogger.NewGormLogger(zapLogger, logLevel))
}

// open applies the pool limits from cfg and verifies the database is
// reachable before returning
func open(cfg *config.DatabaseConfig, gl gormlogger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gl,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		// surfaces unique-index violations as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Ping reports whether the connection is still alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Close releases the connection pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// PoolStats is a snapshot of the connection pool
type PoolStats struct {
	MaxOpen      int           `json:"max_open"`
	Open         int           `json:"open"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	WaitCount    int64         `json:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration"`
}

// Stats returns current connection pool counters
func (d *Database) Stats() (PoolStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return PoolStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	s := sqlDB.Stats()
	return PoolStats{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration,
	}, nil
}

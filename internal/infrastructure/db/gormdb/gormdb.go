// Package gormdb implements the user, student and token stores on top of gorm.
// One code path serves sqlite, postgres and mysql; the driver is picked by name.
package gormdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	defaultTimeout = 5 * time.Second
)

// Config captures the settings for opening a SQL database through gorm.
type Config struct {
	Driver string
	DSN    string
	// Debug logs every statement.
	Debug bool
	// Logger receives failed and slow statements. The zero value discards them.
	Logger zerolog.Logger
}

// Open connects to the configured database, applies pool settings and pings it.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if cfg.Debug {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         newQueryLogger(cfg.Logger, logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql.DB: %w", err)
	}
	configurePool(sqlDB, cfg.Driver)

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm ping %s: %w", cfg.Driver, err)
	}

	return db, nil
}

// Migrate creates or updates the tables of every model in this package.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&userModel{}, &studentModel{}, &tokenModel{})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "students.db"
		}
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("gormdb: postgres requires a DSN")
		}
		return postgres.Open(cfg.DSN), nil
	case DriverMySQL:
		if cfg.DSN == "" {
			return nil, errors.New("gormdb: mysql requires a DSN")
		}
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("gormdb: unsupported driver %q", cfg.Driver)
	}
}

func configurePool(sqlDB *sql.DB, driver string) {
	// sqlite serialises writers and an in-memory database lives in a single connection.
	if driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		return
	}

	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// isDuplicate reports whether err is a unique or primary key violation as
// translated by the dialector.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// emailHeldByOther reports whether a row of model other than id already holds
// email. It tells an email collision apart from any other duplicate key.
func emailHeldByOther(ctx context.Context, db *gorm.DB, model any, email, id string) bool {
	var n int64
	err := db.WithContext(ctx).Model(model).Where("email = ? AND id <> ?", email, id).Count(&n).Error
	return err == nil && n > 0
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"time"

	"fooddispatch/internal/adapters/out/postgres/foodrepo"
	"fooddispatch/internal/adapters/out/postgres/jobrepo"
	"fooddispatch/internal/adapters/out/postgres/migrations"
	"fooddispatch/internal/adapters/out/postgres/orderrepo"
	"fooddispatch/internal/adapters/out/postgres/restaurantrepo"

	"github.com/pressly/goose/v3"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures Open.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// AutoMigrate applies goose migrations on PostgreSQL and gorm AutoMigrate
	// on SQLite right after connecting.
	AutoMigrate bool
}

// Open connects to the configured database and applies the pool settings.
// SQLite is meant for local runs and tests: it is limited to a single
// connection so that transactions serialise instead of failing with
// "database is locked".
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres, "":
		dialector = gormpostgres.New(gormpostgres.Config{DSN: opts.DSN})
	case DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
		opts.MaxOpenConns = 1
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(
			log.New(io.Discard, "", log.LstdFlags),
			gormlogger.Config{LogLevel: gormlogger.Silent},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	applyPoolSettings(sqlDB, opts)

	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if !opts.AutoMigrate {
		return db, nil
	}

	if opts.Driver == DriverSQLite {
		err = AutoMigrate(db)
	} else {
		err = Migrate(ctx, sqlDB, "up")
	}
	if err != nil {
		return nil, err
	}

	return db, nil
}

func applyPoolSettings(sqlDB *sql.DB, opts Options) {
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
}

// AutoMigrate creates the schema from the DTOs. Used for SQLite, where the
// PostgreSQL migrations do not apply.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&restaurantrepo.RestaurantDTO{},
		&foodrepo.FoodDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderFoodItemDTO{},
		&jobrepo.JobDTO{},
	); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	return nil
}

// Migrate runs a goose command (up, down, status, version, ...) against the
// embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, ".", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

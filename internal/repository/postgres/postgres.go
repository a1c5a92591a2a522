package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/config"
	"github.com/geofusion-service/internal/pkg/errors"
)

const connectTimeout = 5 * time.Second

// DB - подключение к приватному хранилищу custom entities
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// New открывает пул через pgx и проверяет его ping-ом;
// при AutoMigrate применяет миграции из MigrationsDir
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=geofusion",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	sqlxDB, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", errors.ErrDatabaseError, err)
	}

	sqlxDB.SetMaxOpenConns(cfg.MaxConns)
	sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlxDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	db := &DB{DB: sqlxDB, logger: logger}

	if cfg.AutoMigrate {
		applied, err := Migrate(ctx, sqlxDB, cfg.MigrationsDir, logger)
		if err != nil {
			_ = sqlxDB.Close()
			return nil, fmt.Errorf("%w: migrate: %v", errors.ErrDatabaseError, err)
		}
		logger.Info("Migrations checked", zap.Int("applied", applied))
	}

	logger.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns),
	)

	return db, nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing PostgreSQL connection")
	return db.DB.Close()
}

// Health - ping с ошибкой DATABASE_ERROR для /health
func (db *DB) Health(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDatabaseError, err)
	}
	return nil
}

// NewDBForTest оборачивает готовое подключение
func NewDBForTest(sqlxDB *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{
		DB:     sqlxDB,
		logger: logger,
	}
}

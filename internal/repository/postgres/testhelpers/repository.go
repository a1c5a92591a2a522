package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/geofusion-service/internal/domain/repository"
	"github.com/geofusion-service/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewEntityRepositoryForTest creates a custom entity repository with test database and logger
func NewEntityRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.EntityStoreRepository {
	return postgres.NewEntityRepository(NewDBForTest(db, logger))
}

package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/geofusion-service/internal/domain"
)

type MockGeoDataRepository struct {
	mock.Mock
}

func (m *MockGeoDataRepository) Query(ctx context.Context, query string) (*domain.GeoQueryResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoQueryResult), args.Error(1)
}

type MockEntityRepository struct {
	mock.Mock
}

func (m *MockEntityRepository) GetByTypes(ctx context.Context, collections []string) ([]*domain.CustomEntity, error) {
	args := m.Called(ctx, collections)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CustomEntity), args.Error(1)
}

type MockQueryCacheRepository struct {
	mock.Mock
}

func (m *MockQueryCacheRepository) Get(ctx context.Context, query string) (*domain.GeoQueryResult, bool, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.GeoQueryResult), args.Bool(1), args.Error(2)
}

func (m *MockQueryCacheRepository) Set(ctx context.Context, query string, result *domain.GeoQueryResult) error {
	args := m.Called(ctx, query, result)
	return args.Error(0)
}

func (m *MockQueryCacheRepository) Len() int {
	args := m.Called()
	return args.Int(0)
}

type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) Search(ctx context.Context, query, lang string) (*domain.Place, error) {
	args := m.Called(ctx, query, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Place), args.Error(1)
}

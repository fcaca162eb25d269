package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"beeb/backend/internal/models"
	"beeb/backend/internal/resolver"
)

// MockResolver is a testify mock of the resolver.Resolver interface.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveLocation(ctx context.Context, query string, lat, lng *float64) (*resolver.LocationResult, error) {
	args := m.Called(ctx, query, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resolver.LocationResult), args.Error(1)
}

func (m *MockResolver) GenerateProfileAudio(ctx context.Context, bioText string, gender models.Gender) (string, error) {
	args := m.Called(ctx, bioText, gender)
	return args.String(0), args.Error(1)
}

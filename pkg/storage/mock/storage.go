package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fadedpez/aceshigh/pkg/entities"
)

// Storage is a mock implementation of storage.HandWriter
type Storage struct {
	mock.Mock
}

func New() *Storage {
	return &Storage{}
}

func (s *Storage) WriteHands(ctx context.Context, hands []*entities.CribHandRecord) error {
	args := s.Called(ctx, hands)
	return args.Error(0)
}

func (s *Storage) Close() error {
	args := s.Called()
	return args.Error(0)
}

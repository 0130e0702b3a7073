package notes

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relaybackend/db"
)

// MockVectorsRepository is a mock implementation of the VectorsRepository interface
type MockVectorsRepository struct {
	mock.Mock
}

func (m *MockVectorsRepository) Upsert(
	ctx context.Context,
	id string,
	embedding []float32,
	metadata db.VectorMetadata,
) error {
	args := m.Called(ctx, id, embedding, metadata)
	return args.Error(0)
}

func (m *MockVectorsRepository) Query(
	ctx context.Context,
	embedding []float32,
	topK int,
) ([]db.VectorMatch, error) {
	args := m.Called(ctx, embedding, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.VectorMatch), args.Error(1)
}

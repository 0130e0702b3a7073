package dmlists

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"relaybackend/models"
)

// MockDMListsRepository is a mock implementation of the DMListsRepository interface
type MockDMListsRepository struct {
	mock.Mock
}

func (m *MockDMListsRepository) GetDMList(ctx context.Context, ownerID string) (mo.Option[*models.DMList], error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(mo.Option[*models.DMList]), args.Error(1)
}

func (m *MockDMListsRepository) PutDMList(ctx context.Context, list *models.DMList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

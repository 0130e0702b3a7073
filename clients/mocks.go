package clients

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relaybackend/models"
)

// MockLLMClient is a mock implementation of the LLMClient interface
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	args := m.Called(ctx, systemPrompt, userMessage)
	return args.String(0), args.Error(1)
}

// MockEmbeddingClient is a mock implementation of the EmbeddingClient interface
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockIdentityClient is a mock implementation of the IdentityClient interface
type MockIdentityClient struct {
	mock.Mock
}

func (m *MockIdentityClient) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}

// MockBlobClient is a mock implementation of the BlobClient interface
type MockBlobClient struct {
	mock.Mock
}

func (m *MockBlobClient) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

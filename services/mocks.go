package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"relaybackend/models"
)

// MockDMListsService is a mock implementation of the DMListsService interface
type MockDMListsService struct {
	mock.Mock
}

func (m *MockDMListsService) GetList(ctx context.Context, ownerID string) []*models.UserProfile {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.UserProfile)
}

func (m *MockDMListsService) SaveList(ctx context.Context, ownerID string, entries []*models.UserProfile) error {
	args := m.Called(ctx, ownerID, entries)
	return args.Error(0)
}

func (m *MockDMListsService) Touch(ctx context.Context, ownerID, partnerID string) error {
	args := m.Called(ctx, ownerID, partnerID)
	return args.Error(0)
}

func (m *MockDMListsService) RemoveEntry(ctx context.Context, ownerID, partnerID string) error {
	args := m.Called(ctx, ownerID, partnerID)
	return args.Error(0)
}

// MockMessagesService is a mock implementation of the MessagesService interface
type MockMessagesService struct {
	mock.Mock
}

func (m *MockMessagesService) Send(
	ctx context.Context,
	channelID, senderID, text, replyToID string,
) (*models.Message, error) {
	args := m.Called(ctx, channelID, senderID, text, replyToID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessagesService) ListSince(
	ctx context.Context,
	channelID string,
	since int64,
) ([]*models.Message, error) {
	args := m.Called(ctx, channelID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

func (m *MockMessagesService) ToggleReaction(
	ctx context.Context,
	channelID, messageID, emoji, userID string,
) (map[string][]string, error) {
	args := m.Called(ctx, channelID, messageID, emoji, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]string), args.Error(1)
}

func (m *MockMessagesService) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockNotesService is a mock implementation of the NotesService interface
type MockNotesService struct {
	mock.Mock
}

func (m *MockNotesService) Ingest(ctx context.Context, channelID string, msg *models.Message) error {
	args := m.Called(ctx, channelID, msg)
	return args.Error(0)
}

func (m *MockNotesService) Answer(ctx context.Context, channelID, question string) string {
	args := m.Called(ctx, channelID, question)
	return args.String(0)
}

// MockProfilesService is a mock implementation of the ProfilesService interface
type MockProfilesService struct {
	mock.Mock
}

func (m *MockProfilesService) Resolve(ctx context.Context, userID string) *models.UserProfile {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.UserProfile)
}

// MockUploadsService is a mock implementation of the UploadsService interface
type MockUploadsService struct {
	mock.Mock
}

func (m *MockUploadsService) UploadFile(
	ctx context.Context,
	userID, filename, contentType string,
	data []byte,
) (string, error) {
	args := m.Called(ctx, userID, filename, contentType, data)
	return args.String(0), args.Error(1)
}

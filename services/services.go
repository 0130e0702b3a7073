package services

import (
	"context"

	"relaybackend/models"
)

// DMListsService maintains the per-user ordered list of conversation
// partners ranked by recency of last message
type DMListsService interface {
	// GetList returns the owner's DM list sorted descending by recency.
	// Read failures degrade to a bot-only list and are never surfaced.
	GetList(ctx context.Context, ownerID string) []*models.UserProfile

	// SaveList normalizes and persists the owner's DM list. Write
	// failures are returned to the caller.
	SaveList(ctx context.Context, ownerID string, entries []*models.UserProfile) error

	// Touch bumps partnerID to the top of ownerID's list with a fresh
	// timestamp
	Touch(ctx context.Context, ownerID, partnerID string) error

	// RemoveEntry removes partnerID from ownerID's list. Idempotent.
	RemoveEntry(ctx context.Context, ownerID, partnerID string) error
}

// MessagesService persists chat messages and fans out bot replies
type MessagesService interface {
	Send(ctx context.Context, channelID, senderID, text, replyToID string) (*models.Message, error)
	ListSince(ctx context.Context, channelID string, since int64) ([]*models.Message, error)
	ToggleReaction(ctx context.Context, channelID, messageID, emoji, userID string) (map[string][]string, error)
	ClearAll(ctx context.Context) error
}

// NotesService is the retrieval pipeline behind the notes bot
type NotesService interface {
	// Ingest folds a message into the channel transcript and refreshes
	// the channel's vector. Bot-authored messages are ignored.
	Ingest(ctx context.Context, channelID string, msg *models.Message) error

	// Answer responds to a question if it carries the notes mention
	// token, returning the empty string otherwise. Pipeline failures
	// yield a fixed apology string, never an error.
	Answer(ctx context.Context, channelID, question string) string
}

// ProfilesService resolves user ids to display profiles, falling back to
// the static bot table and a bare-id placeholder
type ProfilesService interface {
	Resolve(ctx context.Context, userID string) *models.UserProfile
}

// UploadsService stores user file uploads in the blob store
type UploadsService interface {
	UploadFile(ctx context.Context, userID, filename, contentType string, data []byte) (string, error)
}

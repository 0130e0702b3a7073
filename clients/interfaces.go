package clients

import (
	"context"

	"relaybackend/models"
)

// LLMClient generates bot completions
type LLMClient interface {
	// Complete runs a single-turn completion with the given system prompt
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// EmbeddingClient turns text into embedding vectors for the notes index
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IdentityClient resolves user ids against the external identity provider
type IdentityClient interface {
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// BlobClient stores uploaded files and returns their public URL
type BlobClient interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

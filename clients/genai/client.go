package genai

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"relaybackend/clients"
	"relaybackend/core"
)

const taskTypeSemanticSimilarity = "SEMANTIC_SIMILARITY"

// GenAIClient implements the clients.EmbeddingClient interface using
// Google's Gemini embedding API
type GenAIClient struct {
	client   *genai.Client
	model    string
	taskType string
}

// NewGenAIClient creates a new embedding client. An empty model falls back
// to gemini-embedding-001. Without an API key a disabled client is
// returned whose Embed always fails, so the notes pipeline degrades to
// its apology reply instead of blocking startup.
func NewGenAIClient(ctx context.Context, apiKey, model string) (clients.EmbeddingClient, error) {
	if apiKey == "" {
		log.Printf("⚠️ GenAI API key not set - embeddings disabled")
		return &disabledEmbeddingClient{}, nil
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:   client,
		model:    model,
		taskType: taskTypeSemanticSimilarity,
	}, nil
}

// Embed generates an embedding for a single text
func (c *GenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := c.client.Models.EmbedContent(ctx,
		c.model,
		contents,
		&genai.EmbedContentConfig{
			TaskType: c.taskType,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: GenAI embed failed: %v", core.ErrUpstream, err)
	}

	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", core.ErrUpstream)
	}

	return result.Embeddings[0].Values, nil
}

// disabledEmbeddingClient stands in when no API key is configured
type disabledEmbeddingClient struct{}

func (c *disabledEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("%w: embeddings are not configured", core.ErrUpstream)
}

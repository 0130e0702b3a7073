package notes

import (
	"context"
	"fmt"
	"log"
	"strings"

	"relaybackend/clients"
	"relaybackend/db"
	"relaybackend/models"
)

const answerTopK = 10

// apologyReply is what the notes bot says when any stage of the pipeline
// fails; retrieval errors never reach the chat path
const apologyReply = "Sorry, I couldn't look that up right now. Please try again in a moment."

const notesSystemPrompt = "You are Notes, a helpful assistant that answers questions using transcripts of the user's past conversations. Answer concisely. If the transcripts do not contain the answer, say that you don't know."

const answerPromptTemplate = "Conversation transcripts:\n\n%s\n\nQuestion: %s"

// VectorsRepository is the vector index surface the pipeline needs: one
// vector per channel, upserted whole, queried across all channels
type VectorsRepository interface {
	Upsert(ctx context.Context, id string, embedding []float32, metadata db.VectorMetadata) error
	Query(ctx context.Context, embedding []float32, topK int) ([]db.VectorMatch, error)
}

// NotesService is the retrieval pipeline behind the notes bot: transcripts
// are accumulated per channel, embedded whole, and queried when the bot is
// mentioned.
type NotesService struct {
	cache       *TranscriptCache
	embeddings  clients.EmbeddingClient
	llm         clients.LLMClient
	vectorsRepo VectorsRepository
}

func NewNotesService(
	cache *TranscriptCache,
	embeddings clients.EmbeddingClient,
	llm clients.LLMClient,
	vectorsRepo VectorsRepository,
) *NotesService {
	return &NotesService{
		cache:       cache,
		embeddings:  embeddings,
		llm:         llm,
		vectorsRepo: vectorsRepo,
	}
}

// Ingest folds a message into the channel transcript, re-embeds the full
// transcript and upserts the channel's single vector. Bot-authored
// messages never enter the transcript.
func (s *NotesService) Ingest(ctx context.Context, channelID string, msg *models.Message) error {
	if models.IsBotID(msg.UserID) {
		return nil
	}

	snap := s.cache.Append(channelID, msg)

	embedding, err := s.embeddings.Embed(ctx, snap.Text)
	if err != nil {
		return fmt.Errorf("failed to embed transcript for %s: %w", channelID, err)
	}

	metadata := db.VectorMetadata{
		LastMessageID:        snap.LastMessageID,
		LastMessageTimestamp: snap.LastMessageTimestamp,
		MessageCount:         snap.MessageCount,
		Text:                 snap.Text,
	}
	if err := s.vectorsRepo.Upsert(ctx, channelID, embedding, metadata); err != nil {
		return fmt.Errorf("failed to upsert vector for %s: %w", channelID, err)
	}
	return nil
}

// Answer responds to a question addressed to the notes bot. Without the
// mention token it returns the empty string; with it, the question is
// embedded, matched against every channel's transcript vector, and the
// concatenated matches feed a fixed completion prompt.
func (s *NotesService) Answer(ctx context.Context, channelID, question string) string {
	if !strings.Contains(question, models.NotesBotMention) {
		return ""
	}

	log.Printf("📋 Starting to answer notes question in channel %s", channelID)

	embedding, err := s.embeddings.Embed(ctx, question)
	if err != nil {
		log.Printf("❌ Notes pipeline failed to embed question: %v", err)
		return apologyReply
	}

	matches, err := s.vectorsRepo.Query(ctx, embedding, answerTopK)
	if err != nil {
		log.Printf("❌ Notes pipeline failed to query vector index: %v", err)
		return apologyReply
	}

	transcripts := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Metadata.Text != "" {
			transcripts = append(transcripts, match.Metadata.Text)
		}
	}

	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(transcripts, "\n\n---\n\n"), question)
	reply, err := s.llm.Complete(ctx, notesSystemPrompt, prompt)
	if err != nil {
		log.Printf("❌ Notes pipeline completion failed: %v", err)
		return apologyReply
	}

	log.Printf("📋 Completed successfully - answered notes question in channel %s", channelID)
	return reply
}

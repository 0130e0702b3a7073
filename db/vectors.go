package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "modernc.org/sqlite"

	"relaybackend/core"
)

// VectorMetadata is the document stored alongside each channel vector
type VectorMetadata struct {
	LastMessageID        string `json:"lastMessageId"`
	LastMessageTimestamp int64  `json:"lastMessageTimestamp"`
	MessageCount         int    `json:"messageCount"`
	Text                 string `json:"text"`
}

// VectorMatch is a single query result with its cosine similarity score
type VectorMatch struct {
	ID         string
	Similarity float64
	Metadata   VectorMetadata
}

// SqliteVectorsRepository keeps one embedding per channel in a local SQLite
// table. Similarity search scans stored embeddings and ranks by cosine
// similarity in Go; the corpus is one vector per channel, so a scan is
// cheap and no ANN index is needed.
type SqliteVectorsRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSqliteVectorsRepository opens (or creates) the vector index at path
func NewSqliteVectorsRepository(path string) (*SqliteVectorsRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create vector index directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS vectors (
			id         TEXT PRIMARY KEY,
			embedding  TEXT NOT NULL,
			metadata   TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create vectors table: %w", err)
	}

	return &SqliteVectorsRepository{db: conn}, nil
}

// Upsert stores or replaces the embedding and metadata for an id
func (r *SqliteVectorsRepository) Upsert(ctx context.Context, id string, embedding []float32, metadata VectorMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	embJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding for %s: %w", id, err)
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata for %s: %w", id, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO vectors (id, embedding, metadata, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		id, string(embJSON), string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert vector %s: %v", core.ErrUpstream, id, err)
	}
	return nil
}

// Query returns the topK stored vectors ranked by cosine similarity to the
// query embedding
func (r *SqliteVectorsRepository) Query(ctx context.Context, embedding []float32, topK int) ([]VectorMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if topK <= 0 {
		topK = 10
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, embedding, metadata FROM vectors`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query vectors: %v", core.ErrUpstream, err)
	}
	defer rows.Close()

	var matches []VectorMatch
	for rows.Next() {
		var id, embJSON, metaJSON string
		if err := rows.Scan(&id, &embJSON, &metaJSON); err != nil {
			return nil, fmt.Errorf("%w: failed to scan vector row: %v", core.ErrUpstream, err)
		}

		var stored []float32
		if err := json.Unmarshal([]byte(embJSON), &stored); err != nil {
			continue
		}
		var meta VectorMetadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			continue
		}

		matches = append(matches, VectorMatch{
			ID:         id,
			Similarity: cosineSimilarity(embedding, stored),
			Metadata:   meta,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate vector rows: %v", core.ErrUpstream, err)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Close closes the underlying database handle
func (r *SqliteVectorsRepository) Close() error {
	return r.db.Close()
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

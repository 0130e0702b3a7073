package notes

import (
	"fmt"
	"strings"
	"sync"

	"relaybackend/models"
)

// transcriptSnapshot is the state of one channel's transcript after an
// append, taken under the cache lock
type transcriptSnapshot struct {
	Text                 string
	LastMessageID        string
	LastMessageTimestamp int64
	MessageCount         int
}

type transcript struct {
	lines                []string
	lastMessageID        string
	lastMessageTimestamp int64
	messageCount         int
}

// TranscriptCache holds the per-channel conversation transcripts the notes
// pipeline embeds. It is a process-lifetime cache constructed once and
// passed into the service; the canonical transcript is always recoverable
// from the message store, so losing it on restart only costs re-ingestion.
type TranscriptCache struct {
	mu       sync.Mutex
	channels map[string]*transcript
}

func NewTranscriptCache() *TranscriptCache {
	return &TranscriptCache{channels: make(map[string]*transcript)}
}

// Append folds a message into the channel's transcript and returns the
// resulting snapshot
func (c *TranscriptCache) Append(channelID string, msg *models.Message) transcriptSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	tr, ok := c.channels[channelID]
	if !ok {
		tr = &transcript{}
		c.channels[channelID] = tr
	}

	speaker := msg.FullName
	if speaker == "" {
		speaker = msg.UserID
	}
	tr.lines = append(tr.lines, fmt.Sprintf("%s: %s", speaker, msg.Text))
	tr.lastMessageID = msg.ID
	tr.lastMessageTimestamp = msg.Timestamp
	tr.messageCount++

	return transcriptSnapshot{
		Text:                 strings.Join(tr.lines, "\n"),
		LastMessageID:        tr.lastMessageID,
		LastMessageTimestamp: tr.lastMessageTimestamp,
		MessageCount:         tr.messageCount,
	}
}

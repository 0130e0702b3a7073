package models

import (
	"fmt"
	"strings"
)

const dmChannelPrefix = "dm-"

// DMChannelID builds the canonical channel id for a direct-message
// conversation between two users. Participant ids are sorted so both sides
// derive the same channel id.
func DMChannelID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%s%s-%s", dmChannelPrefix, a, b)
}

// IsDMChannel reports whether channelID names a direct-message channel
func IsDMChannel(channelID string) bool {
	return strings.HasPrefix(channelID, dmChannelPrefix)
}

// ParseDMChannel extracts the two participant ids from a DM channel id.
// Bot ids contain dashes themselves, so the split scans for a boundary
// where either side is a recognized bot id before falling back to the
// first dash.
func ParseDMChannel(channelID string) (string, string, bool) {
	if !IsDMChannel(channelID) {
		return "", "", false
	}
	body := strings.TrimPrefix(channelID, dmChannelPrefix)

	// Prefer a split where one side is a known bot id, since those ids
	// embed dashes ("dm-bot-notes-user_abc" splits as bot-notes|user_abc).
	idx := 0
	for {
		next := strings.Index(body[idx:], "-")
		if next < 0 {
			break
		}
		pos := idx + next
		left, right := body[:pos], body[pos+1:]
		if left != "" && right != "" && (IsBotID(left) || IsBotID(right)) {
			return left, right, true
		}
		idx = pos + 1
	}

	parts := strings.SplitN(body, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// DMChannelBot returns the bot participant of a DM channel, if any
func DMChannelBot(channelID string) (Bot, bool) {
	a, b, ok := ParseDMChannel(channelID)
	if !ok {
		return Bot{}, false
	}
	if bot, ok := BotByID(a); ok {
		return bot, true
	}
	if bot, ok := BotByID(b); ok {
		return bot, true
	}
	return Bot{}, false
}

package dmlists

import (
	"sort"

	"relaybackend/models"
)

// mergeTouch is the pure core of the bump-to-top operation: it removes any
// existing entry for the partner, stamps the partner's recency to now and
// puts it at the head of the list. The storage layer around it stays a thin
// read/write wrapper so this ordering logic is testable on its own.
//
// The partner profile is copied before stamping so callers can pass entries
// from a list they are still holding.
func mergeTouch(entries []*models.UserProfile, partner *models.UserProfile, now int64) []*models.UserProfile {
	stamped := *partner
	stamped.LastMessageAt = now

	merged := make([]*models.UserProfile, 0, len(entries)+1)
	merged = append(merged, &stamped)
	for _, entry := range entries {
		if entry.UserID == partner.UserID {
			continue
		}
		merged = append(merged, entry)
	}
	return merged
}

// sortByRecency orders entries descending by lastMessageAt. A missing
// timestamp counts as zero. The sort is stable so ties keep their stored
// order.
func sortByRecency(entries []*models.UserProfile) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastMessageAt > entries[j].LastMessageAt
	})
}

// dedupeByUserID keeps the first occurrence of each user id. Always
// allocates so the caller's slice is left untouched.
func dedupeByUserID(entries []*models.UserProfile) []*models.UserProfile {
	seen := make(map[string]bool, len(entries))
	out := make([]*models.UserProfile, 0, len(entries))
	for _, entry := range entries {
		if entry == nil || seen[entry.UserID] {
			continue
		}
		seen[entry.UserID] = true
		out = append(out, entry)
	}
	return out
}

// ensurePrimaryBot adds the primary bot profile with the given timestamp
// when it is missing from entries. The bot is appended, not forced to the
// head; the recency sort decides its final position.
func ensurePrimaryBot(entries []*models.UserProfile, now int64) []*models.UserProfile {
	for _, entry := range entries {
		if entry != nil && entry.UserID == models.PrimaryBotID {
			return entries
		}
	}
	bot := models.PrimaryBot()
	bot.LastMessageAt = now
	return append(entries, bot)
}

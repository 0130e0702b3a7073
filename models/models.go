package models

// UserStatus is the presence indicator shown next to a conversation partner
type UserStatus string

const (
	UserStatusOnline    UserStatus = "online"
	UserStatusIdle      UserStatus = "idle"
	UserStatusDnd       UserStatus = "dnd"
	UserStatusInvisible UserStatus = "invisible"
)

// UserProfile is the display profile of a conversation partner, human or bot.
// LastMessageAt carries the recency used to order DM lists (epoch millis,
// zero when unknown).
type UserProfile struct {
	UserID        string     `json:"userId"`
	FullName      string     `json:"fullName"`
	Username      string     `json:"username,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	Status        UserStatus `json:"status"`
	Bio           string     `json:"bio,omitempty"`
	LastMessageAt int64      `json:"lastMessageAt,omitempty"`
}

// DMList is the per-user ordered list of conversation partners, ranked by
// recency of last message. One document per owner, overwritten whole on
// every update (last write wins, no version token).
type DMList struct {
	OwnerUserID string         `json:"ownerUserId"`
	Entries     []*UserProfile `json:"entries"`
	UpdatedAt   int64          `json:"updatedAt"`
}

// Message is a single chat message. Immutable after creation except for
// Reactions, which toggle operations mutate in place.
type Message struct {
	ID        string              `json:"id"`
	ChannelID string              `json:"channelId"`
	UserID    string              `json:"userId"`
	Text      string              `json:"text"`
	Timestamp int64               `json:"timestamp"`
	FullName  string              `json:"fullName,omitempty"`
	ImageURL  string              `json:"imageUrl,omitempty"`
	ReplyToID string              `json:"replyToId,omitempty"`
	Reactions map[string][]string `json:"reactions,omitempty"`
}

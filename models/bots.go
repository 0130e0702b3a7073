package models

// BotKind identifies one of the closed set of synthetic conversation
// partners. Bot identities are reserved userIds that are never persisted
// as profiles; they resolve from the static table below at read time.
type BotKind string

const (
	// BotKindNotes is the primary assistant bot. It is pinned into every
	// human user's DM list and answers questions about past conversations
	// when mentioned.
	BotKindNotes BotKind = "notes"

	BotKindPirate BotKind = "pirate"
	BotKindPoet   BotKind = "poet"
	BotKindZen    BotKind = "zen"
)

// NotesBotMention is the trigger token the notes bot requires before it
// answers. Personality bots reply unconditionally.
const NotesBotMention = "@notes"

// Bot bundles a reserved identity with its display profile and, for
// personality bots, the system prompt used for completions.
type Bot struct {
	Kind    BotKind
	Profile UserProfile
	// Prompt is the personality system prompt. Empty for the notes bot,
	// which assembles its own retrieval prompt.
	Prompt string
}

var botTable = map[string]Bot{
	"bot-notes": {
		Kind: BotKindNotes,
		Profile: UserProfile{
			UserID:   "bot-notes",
			FullName: "Notes",
			Username: "notes",
			Status:   UserStatusOnline,
			Bio:      "Hi! I'm Notes. Mention me with @notes and I'll answer questions about anything that's been said in your conversations.",
		},
	},
	"bot-pirate": {
		Kind: BotKindPirate,
		Profile: UserProfile{
			UserID:   "bot-pirate",
			FullName: "Captain Flint",
			Username: "pirate",
			Status:   UserStatusOnline,
			Bio:      "Ahoy! Captain Flint at yer service. Say anythin' and I'll answer like a proper seadog.",
		},
		Prompt: "You are Captain Flint, a boisterous pirate captain. Answer every message in exaggerated pirate speak, keep replies under three sentences, and never break character.",
	},
	"bot-poet": {
		Kind: BotKindPoet,
		Profile: UserProfile{
			UserID:   "bot-poet",
			FullName: "Ode",
			Username: "poet",
			Status:   UserStatusOnline,
			Bio:      "I am Ode. Speak to me and I shall answer in verse.",
		},
		Prompt: "You are Ode, a romantic poet. Answer every message with a short original poem of at most four lines that responds to what was said.",
	},
	"bot-zen": {
		Kind: BotKindZen,
		Profile: UserProfile{
			UserID:   "bot-zen",
			FullName: "Roshi",
			Username: "zen",
			Status:   UserStatusOnline,
			Bio:      "Roshi here. Ask, and receive a koan.",
		},
		Prompt: "You are Roshi, a zen master. Answer every message with a single calm, cryptic koan-like sentence.",
	},
}

// PrimaryBotID is the reserved id of the always-present assistant bot
const PrimaryBotID = "bot-notes"

// IsBotID reports whether id is one of the reserved bot identities
func IsBotID(id string) bool {
	_, ok := botTable[id]
	return ok
}

// BotByID resolves a reserved bot id to its static record
func BotByID(id string) (Bot, bool) {
	bot, ok := botTable[id]
	return bot, ok
}

// PrimaryBot returns a copy of the primary assistant bot's profile
func PrimaryBot() *UserProfile {
	bot := botTable[PrimaryBotID]
	profile := bot.Profile
	return &profile
}

// AllBots returns the static bot records in no particular order
func AllBots() []Bot {
	out := make([]Bot, 0, len(botTable))
	for _, bot := range botTable {
		out = append(out, bot)
	}
	return out
}

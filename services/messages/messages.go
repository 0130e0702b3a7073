package messages

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"relaybackend/clients"
	"relaybackend/core"
	"relaybackend/models"
	"relaybackend/services"
)

// MessagesRepository is the message-store surface the relay needs
type MessagesRepository interface {
	InsertMessage(ctx context.Context, msg *models.Message) error
	ListMessagesSince(ctx context.Context, channelID string, since int64) ([]*models.Message, error)
	GetMessage(ctx context.Context, channelID, messageID string) (mo.Option[*models.Message], error)
	UpdateMessage(ctx context.Context, msg *models.Message) error
	ClearAllMessages(ctx context.Context) error
}

// MessagesService persists chat messages, fans out synthetic bot replies
// and bumps both participants' DM lists after a send. Message persistence
// is the primary guarantee; list freshness and bot replies are best-effort.
type MessagesService struct {
	messagesRepo MessagesRepository
	dmLists      services.DMListsService
	profiles     services.ProfilesService
	notes        services.NotesService
	llm          clients.LLMClient
}

func NewMessagesService(
	messagesRepo MessagesRepository,
	dmLists services.DMListsService,
	profiles services.ProfilesService,
	notes services.NotesService,
	llm clients.LLMClient,
) *MessagesService {
	return &MessagesService{
		messagesRepo: messagesRepo,
		dmLists:      dmLists,
		profiles:     profiles,
		notes:        notes,
		llm:          llm,
	}
}

// Send validates, persists and fans out a message
func (s *MessagesService) Send(
	ctx context.Context,
	channelID, senderID, text, replyToID string,
) (*models.Message, error) {
	log.Printf("📋 Starting to send message from %s to channel %s", senderID, channelID)

	if channelID == "" {
		return nil, core.NewValidationError("channelId")
	}
	if text == "" {
		return nil, core.NewValidationError("text")
	}
	if senderID == "" {
		return nil, core.NewValidationError("senderId")
	}

	if models.IsDMChannel(channelID) {
		a, b, ok := models.ParseDMChannel(channelID)
		if !ok {
			return nil, fmt.Errorf("%w: malformed DM channel id %q", core.ErrValidation, channelID)
		}
		_, hasBot := models.DMChannelBot(channelID)
		if senderID != a && senderID != b && !hasBot {
			return nil, fmt.Errorf("%w: sender %s is not a participant of %s", core.ErrAuthorization, senderID, channelID)
		}
	}

	sender := s.profiles.Resolve(ctx, senderID)
	msg := &models.Message{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		UserID:    senderID,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
		FullName:  sender.FullName,
		ImageURL:  sender.ImageURL,
		ReplyToID: replyToID,
	}
	if err := s.messagesRepo.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to persist message: %w", err)
	}

	// Transcript ingestion feeds the notes index; failures must not fail
	// the send
	if err := s.notes.Ingest(ctx, channelID, msg); err != nil {
		log.Printf("⚠️ Failed to ingest message %s into notes index: %v", msg.ID, err)
	}

	s.replyAsBot(ctx, channelID, senderID, text)
	s.touchParticipants(ctx, channelID, senderID)

	log.Printf("📋 Completed successfully - sent message %s to channel %s", msg.ID, channelID)
	return msg, nil
}

// replyAsBot synthesizes and persists a bot reply when the channel
// addresses a bot and the trigger condition holds. Bot replies are
// non-critical: failures are logged and swallowed.
func (s *MessagesService) replyAsBot(ctx context.Context, channelID, senderID, text string) {
	bot, ok := models.DMChannelBot(channelID)
	if !ok || bot.Profile.UserID == senderID {
		return
	}

	var reply string
	if bot.Kind == models.BotKindNotes {
		// The notes bot only answers when mentioned
		reply = s.notes.Answer(ctx, channelID, text)
	} else {
		completion, err := s.llm.Complete(ctx, bot.Prompt, text)
		if err != nil {
			log.Printf("⚠️ Personality bot %s completion failed: %v", bot.Profile.UserID, err)
			return
		}
		reply = completion
	}
	if reply == "" {
		return
	}

	botMsg := &models.Message{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		UserID:    bot.Profile.UserID,
		Text:      reply,
		Timestamp: time.Now().UnixMilli(),
		FullName:  bot.Profile.FullName,
		ImageURL:  bot.Profile.ImageURL,
	}
	if err := s.messagesRepo.InsertMessage(ctx, botMsg); err != nil {
		log.Printf("⚠️ Failed to persist bot reply in %s: %v", channelID, err)
	}
}

// touchParticipants bumps each participant's DM list after a send.
// Failures are logged only: the message is already persisted and list
// freshness is best-effort.
func (s *MessagesService) touchParticipants(ctx context.Context, channelID, senderID string) {
	if !models.IsDMChannel(channelID) {
		return
	}
	a, b, ok := models.ParseDMChannel(channelID)
	if !ok {
		return
	}

	counterpart := a
	if senderID == a {
		counterpart = b
	}

	if err := s.dmLists.Touch(ctx, senderID, counterpart); err != nil {
		log.Printf("⚠️ Failed to touch DM list of sender %s: %v", senderID, err)
	}
	if err := s.dmLists.Touch(ctx, counterpart, senderID); err != nil {
		log.Printf("⚠️ Failed to touch DM list of counterpart %s: %v", counterpart, err)
	}
}

// ListSince returns the channel's messages newer than since, ascending by
// timestamp. The first-ever fetch of an empty bot DM channel seeds it with
// a welcome message built from the bot's bio.
func (s *MessagesService) ListSince(ctx context.Context, channelID string, since int64) ([]*models.Message, error) {
	if channelID == "" {
		return nil, core.NewValidationError("channelId")
	}

	msgs, err := s.messagesRepo.ListMessagesSince(ctx, channelID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for %s: %w", channelID, err)
	}

	if len(msgs) == 0 && since == 0 {
		if welcome := s.injectWelcomeMessage(ctx, channelID); welcome != nil {
			msgs = append(msgs, welcome)
		}
	}
	return msgs, nil
}

// injectWelcomeMessage persists a bot's greeting into its empty DM channel
func (s *MessagesService) injectWelcomeMessage(ctx context.Context, channelID string) *models.Message {
	bot, ok := models.DMChannelBot(channelID)
	if !ok || bot.Profile.Bio == "" {
		return nil
	}

	welcome := &models.Message{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		UserID:    bot.Profile.UserID,
		Text:      bot.Profile.Bio,
		Timestamp: time.Now().UnixMilli(),
		FullName:  bot.Profile.FullName,
		ImageURL:  bot.Profile.ImageURL,
	}
	if err := s.messagesRepo.InsertMessage(ctx, welcome); err != nil {
		log.Printf("⚠️ Failed to persist welcome message in %s: %v", channelID, err)
		return nil
	}
	log.Printf("📋 Injected welcome message from %s into %s", bot.Profile.UserID, channelID)
	return welcome
}

// ToggleReaction flips userID's reaction under emoji on a message. Adding
// then toggling again restores the original state; an emoji bucket left
// empty is removed entirely.
func (s *MessagesService) ToggleReaction(
	ctx context.Context,
	channelID, messageID, emoji, userID string,
) (map[string][]string, error) {
	log.Printf("📋 Starting to toggle reaction %s by %s on message %s", emoji, userID, messageID)

	if channelID == "" {
		return nil, core.NewValidationError("channelId")
	}
	if messageID == "" {
		return nil, core.NewValidationError("messageId")
	}
	if emoji == "" {
		return nil, core.NewValidationError("emoji")
	}

	maybeMsg, err := s.messagesRepo.GetMessage(ctx, channelID, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message %s: %w", messageID, err)
	}
	if !maybeMsg.IsPresent() {
		return nil, fmt.Errorf("%w: message %s in channel %s", core.ErrNotFound, messageID, channelID)
	}
	msg := maybeMsg.MustGet()

	if msg.Reactions == nil {
		msg.Reactions = make(map[string][]string)
	}

	users := msg.Reactions[emoji]
	removed := false
	for i, id := range users {
		if id == userID {
			users = append(users[:i], users[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		if len(users) == 0 {
			delete(msg.Reactions, emoji)
		} else {
			msg.Reactions[emoji] = users
		}
	} else {
		msg.Reactions[emoji] = append(users, userID)
	}

	if err := s.messagesRepo.UpdateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to update reactions on %s: %w", messageID, err)
	}

	log.Printf("📋 Completed successfully - toggled reaction %s on message %s", emoji, messageID)
	return msg.Reactions, nil
}

// ClearAll wipes every message in the store. Administrative operation.
func (s *MessagesService) ClearAll(ctx context.Context) error {
	log.Printf("📋 Starting administrative clear of all messages")
	if err := s.messagesRepo.ClearAllMessages(ctx); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	log.Printf("📋 Completed successfully - cleared all messages")
	return nil
}

package dmlists

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"relaybackend/models"
	"relaybackend/services"
)

// DMListsRepository is the document-store surface this service needs: one
// get and one whole-document put per owner
type DMListsRepository interface {
	GetDMList(ctx context.Context, ownerID string) (mo.Option[*models.DMList], error)
	PutDMList(ctx context.Context, list *models.DMList) error
}

// DMListsService maintains each user's ordered list of conversation
// partners. Reads fail soft to a bot-only list; writes surface their
// errors. Concurrent touches for the same owner race on the whole-document
// overwrite and the last write wins; the underlying store has no
// compare-and-swap token, so this is a known, accepted limitation.
type DMListsService struct {
	dmListsRepo DMListsRepository
	profiles    services.ProfilesService
}

func NewDMListsService(repo DMListsRepository, profiles services.ProfilesService) *DMListsService {
	return &DMListsService{dmListsRepo: repo, profiles: profiles}
}

// GetList returns the owner's DM list sorted descending by recency. On any
// storage failure it returns a singleton list holding only the primary bot
// so the client always has someone to talk to.
func (s *DMListsService) GetList(ctx context.Context, ownerID string) []*models.UserProfile {
	log.Printf("📋 Starting to get DM list for owner: %s", ownerID)

	if models.IsBotID(ownerID) {
		// Bots do not have their own DM lists
		return []*models.UserProfile{}
	}

	now := time.Now().UnixMilli()

	maybeList, err := s.dmListsRepo.GetDMList(ctx, ownerID)
	if err != nil {
		log.Printf("⚠️ Failed to read DM list for %s, falling back to bot-only list: %v", ownerID, err)
		bot := models.PrimaryBot()
		bot.LastMessageAt = now
		return []*models.UserProfile{bot}
	}

	var entries []*models.UserProfile
	if maybeList.IsPresent() {
		entries = maybeList.MustGet().Entries
	}

	entries = dedupeByUserID(entries)
	entries = ensurePrimaryBot(entries, now)
	sortByRecency(entries)

	log.Printf("📋 Completed successfully - DM list for %s has %d entries", ownerID, len(entries))
	return entries
}

// SaveList normalizes and persists the owner's list. Saving the primary
// bot's own list is a successful no-op; unlike reads, write failures are
// returned so the caller can retry. Concurrent writers are not
// serialized: the last write to complete wins. Known limitation.
func (s *DMListsService) SaveList(ctx context.Context, ownerID string, entries []*models.UserProfile) error {
	log.Printf("📋 Starting to save DM list for owner: %s (%d entries)", ownerID, len(entries))

	if ownerID == "" {
		return fmt.Errorf("owner id cannot be empty")
	}
	if ownerID == models.PrimaryBotID {
		// The primary bot never needs its own list persisted
		return nil
	}

	now := time.Now().UnixMilli()
	for _, entry := range entries {
		if entry != nil && entry.LastMessageAt == 0 {
			entry.LastMessageAt = now
		}
	}

	entries = dedupeByUserID(entries)
	entries = ensurePrimaryBot(entries, now)
	sortByRecency(entries)

	list := &models.DMList{
		OwnerUserID: ownerID,
		Entries:     entries,
	}
	if err := s.dmListsRepo.PutDMList(ctx, list); err != nil {
		return fmt.Errorf("failed to save DM list for %s: %w", ownerID, err)
	}

	log.Printf("📋 Completed successfully - saved DM list for %s", ownerID)
	return nil
}

// Touch bumps partnerID to the top of ownerID's list with a fresh
// timestamp. Used on every message sent or received between the two.
// Self-touches resolve the owner's own profile.
func (s *DMListsService) Touch(ctx context.Context, ownerID, partnerID string) error {
	log.Printf("📋 Starting to touch DM list of %s for partner %s", ownerID, partnerID)

	if ownerID == "" || partnerID == "" {
		return fmt.Errorf("owner id and partner id cannot be empty")
	}

	entries := s.GetList(ctx, ownerID)
	partner := s.resolvePartner(ctx, entries, partnerID)

	merged := mergeTouch(entries, partner, time.Now().UnixMilli())
	if err := s.SaveList(ctx, ownerID, merged); err != nil {
		return fmt.Errorf("failed to touch DM list of %s: %w", ownerID, err)
	}

	log.Printf("📋 Completed successfully - touched %s in DM list of %s", partnerID, ownerID)
	return nil
}

// RemoveEntry filters partnerID out of ownerID's list and persists the
// result. Removing an absent entry succeeds.
func (s *DMListsService) RemoveEntry(ctx context.Context, ownerID, partnerID string) error {
	log.Printf("📋 Starting to remove %s from DM list of %s", partnerID, ownerID)

	if ownerID == "" || partnerID == "" {
		return fmt.Errorf("owner id and partner id cannot be empty")
	}

	entries := s.GetList(ctx, ownerID)
	filtered := make([]*models.UserProfile, 0, len(entries))
	for _, entry := range entries {
		if entry.UserID == partnerID {
			continue
		}
		filtered = append(filtered, entry)
	}

	if err := s.SaveList(ctx, ownerID, filtered); err != nil {
		return fmt.Errorf("failed to remove %s from DM list of %s: %w", partnerID, ownerID, err)
	}

	log.Printf("📋 Completed successfully - removed %s from DM list of %s", partnerID, ownerID)
	return nil
}

// resolvePartner picks the freshest available profile snapshot for a
// partner: the static bot table first, then the entry already cached in
// the list, then a live identity lookup with its own placeholder fallback.
func (s *DMListsService) resolvePartner(
	ctx context.Context,
	entries []*models.UserProfile,
	partnerID string,
) *models.UserProfile {
	if bot, ok := models.BotByID(partnerID); ok {
		profile := bot.Profile
		return &profile
	}
	for _, entry := range entries {
		if entry.UserID == partnerID {
			cached := *entry
			return &cached
		}
	}
	return s.profiles.Resolve(ctx, partnerID)
}

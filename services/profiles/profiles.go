package profiles

import (
	"context"
	"log"
	"time"

	"relaybackend/clients"
	"relaybackend/models"
)

// DefaultRetryDelay is the pause before the single retry against the
// identity provider
const DefaultRetryDelay = 500 * time.Millisecond

// ProfilesService resolves user ids to display profiles. Bot ids come from
// the static table; human ids are fetched from the identity provider with
// one retry, then degrade to a placeholder built from the bare id. Resolve
// never fails: callers always get a usable profile.
type ProfilesService struct {
	identityClient clients.IdentityClient
	retryDelay     time.Duration
}

func NewProfilesService(identityClient clients.IdentityClient, retryDelay time.Duration) *ProfilesService {
	return &ProfilesService{
		identityClient: identityClient,
		retryDelay:     retryDelay,
	}
}

// Resolve returns the best available profile for userID
func (s *ProfilesService) Resolve(ctx context.Context, userID string) *models.UserProfile {
	if bot, ok := models.BotByID(userID); ok {
		profile := bot.Profile
		return &profile
	}

	profile, err := s.identityClient.GetUserProfile(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Profile fetch for %s failed, retrying once: %v", userID, err)
		time.Sleep(s.retryDelay)
		profile, err = s.identityClient.GetUserProfile(ctx, userID)
	}
	if err != nil {
		log.Printf("⚠️ Profile fetch for %s failed after retry, using placeholder: %v", userID, err)
		return placeholderProfile(userID)
	}
	return profile
}

// placeholderProfile is the last-resort profile when the identity provider
// is unreachable
func placeholderProfile(userID string) *models.UserProfile {
	return &models.UserProfile{
		UserID:   userID,
		FullName: userID,
		Status:   models.UserStatusInvisible,
	}
}

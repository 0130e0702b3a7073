package appctx

import (
	"context"

	"relaybackend/models"
)

// Context key for storing the authenticated user's profile
type contextKey string

const ProfileContextKey contextKey = "profile"

// SetProfile adds the resolved user profile to the request context
func SetProfile(ctx context.Context, profile *models.UserProfile) context.Context {
	return context.WithValue(ctx, ProfileContextKey, profile)
}

// GetProfile extracts the resolved user profile from the request context
func GetProfile(ctx context.Context) (*models.UserProfile, bool) {
	profile, ok := ctx.Value(ProfileContextKey).(*models.UserProfile)
	return profile, ok
}

package clerk

import (
	"context"
	"fmt"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"relaybackend/clients"
	"relaybackend/core"
	"relaybackend/models"
)

// ClerkClient implements the clients.IdentityClient interface on top of the
// Clerk user API
type ClerkClient struct {
	users *user.Client
}

// NewClerkClient creates a new identity client
func NewClerkClient(secretKey string) clients.IdentityClient {
	config := &clerk.ClientConfig{
		BackendConfig: clerk.BackendConfig{
			Key: clerk.String(secretKey),
		},
	}
	return &ClerkClient{
		users: user.NewClient(config),
	}
}

// GetUserProfile fetches the display profile for a user id from Clerk
func (c *ClerkClient) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	clerkUser, err := c.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch clerk user %s: %v", core.ErrUpstream, userID, err)
	}

	fullName := strings.TrimSpace(strVal(clerkUser.FirstName) + " " + strVal(clerkUser.LastName))
	if fullName == "" {
		fullName = userID
	}

	return &models.UserProfile{
		UserID:   clerkUser.ID,
		FullName: fullName,
		Username: strVal(clerkUser.Username),
		ImageURL: strVal(clerkUser.ImageURL),
		Status:   models.UserStatusOnline,
	}, nil
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

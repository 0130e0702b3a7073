package dmlists

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"relaybackend/models"
	"relaybackend/services"
)

// fakeDMListsRepo is an in-memory stand-in for the Redis document store
type fakeDMListsRepo struct {
	lists    map[string]*models.DMList
	getErr   error
	putErr   error
	putCalls int
}

func newFakeRepo() *fakeDMListsRepo {
	return &fakeDMListsRepo{lists: make(map[string]*models.DMList)}
}

func (f *fakeDMListsRepo) GetDMList(_ context.Context, ownerID string) (mo.Option[*models.DMList], error) {
	if f.getErr != nil {
		return mo.None[*models.DMList](), f.getErr
	}
	list, ok := f.lists[ownerID]
	if !ok {
		return mo.None[*models.DMList](), nil
	}
	return mo.Some(list), nil
}

func (f *fakeDMListsRepo) PutDMList(_ context.Context, list *models.DMList) error {
	f.putCalls++
	if f.putErr != nil {
		return f.putErr
	}
	f.lists[list.OwnerUserID] = list
	return nil
}

func setupService(t *testing.T) (*DMListsService, *fakeDMListsRepo, *services.MockProfilesService) {
	t.Helper()
	repo := newFakeRepo()
	profiles := new(services.MockProfilesService)
	return NewDMListsService(repo, profiles), repo, profiles
}

func storedList(owner string, entries ...*models.UserProfile) *models.DMList {
	return &models.DMList{OwnerUserID: owner, Entries: entries}
}

func TestGetList(t *testing.T) {
	t.Run("BotOwner_ReturnsEmptyList", func(t *testing.T) {
		svc, _, _ := setupService(t)

		list := svc.GetList(context.Background(), models.PrimaryBotID)

		assert.Empty(t, list)
	})

	t.Run("NoStoredRecord_ReturnsPrimaryBotOnly", func(t *testing.T) {
		svc, _, _ := setupService(t)

		list := svc.GetList(context.Background(), "user_1")

		require.Len(t, list, 1)
		assert.Equal(t, models.PrimaryBotID, list[0].UserID)
		assert.Greater(t, list[0].LastMessageAt, int64(0))
	})

	t.Run("StoreError_FallsBackToPrimaryBotOnly", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.getErr = fmt.Errorf("connection refused")

		list := svc.GetList(context.Background(), "user_1")

		require.Len(t, list, 1)
		assert.Equal(t, models.PrimaryBotID, list[0].UserID)
	})

	t.Run("SortsDescendingByRecency", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.lists["user_1"] = storedList("user_1",
			profile("old", 50),
			profile("new", 300),
			profile(models.PrimaryBotID, 100),
		)

		list := svc.GetList(context.Background(), "user_1")

		require.Len(t, list, 3)
		assert.Equal(t, "new", list[0].UserID)
		assert.Equal(t, models.PrimaryBotID, list[1].UserID)
		assert.Equal(t, "old", list[2].UserID)
	})

	t.Run("InjectsPrimaryBotWhenAbsent", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.lists["user_1"] = storedList("user_1", profile("friend", 100))

		list := svc.GetList(context.Background(), "user_1")

		require.Len(t, list, 2)
		// Bot gets a fresh timestamp, so it sorts ahead of older entries
		assert.Equal(t, models.PrimaryBotID, list[0].UserID)
		assert.Equal(t, "friend", list[1].UserID)
	})

	t.Run("DedupesEntriesByUserID", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.lists["user_1"] = storedList("user_1",
			profile("friend", 300),
			profile("friend", 100),
			profile(models.PrimaryBotID, 200),
		)

		list := svc.GetList(context.Background(), "user_1")

		require.Len(t, list, 2)
		assert.Equal(t, "friend", list[0].UserID)
	})
}

func TestSaveList(t *testing.T) {
	t.Run("PrimaryBotOwner_NoOpSuccess", func(t *testing.T) {
		svc, repo, _ := setupService(t)

		err := svc.SaveList(context.Background(), models.PrimaryBotID, []*models.UserProfile{profile("a", 1)})

		require.NoError(t, err)
		assert.Zero(t, repo.putCalls, "primary bot list must not be written")
	})

	t.Run("WriteError_Propagated", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.putErr = fmt.Errorf("write timeout")

		err := svc.SaveList(context.Background(), "user_1", []*models.UserProfile{profile("a", 1)})

		require.Error(t, err)
	})

	t.Run("FillsMissingTimestampsAndSorts", func(t *testing.T) {
		svc, repo, _ := setupService(t)

		err := svc.SaveList(context.Background(), "user_1", []*models.UserProfile{
			profile("unset", 0),
			profile("recent", time.Now().UnixMilli()+1000),
		})

		require.NoError(t, err)
		stored := repo.lists["user_1"]
		require.NotNil(t, stored)
		for _, entry := range stored.Entries {
			assert.Greater(t, entry.LastMessageAt, int64(0), "missing timestamps are filled on save")
		}
		assert.Equal(t, "recent", stored.Entries[0].UserID)
	})

	t.Run("ReinsertsPrimaryBotAtItsTimestampPosition", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		future := time.Now().UnixMilli() + 60_000

		err := svc.SaveList(context.Background(), "user_1", []*models.UserProfile{
			profile("recent", future),
		})

		require.NoError(t, err)
		stored := repo.lists["user_1"]
		require.Len(t, stored.Entries, 2)
		// Bot is stamped "now", which sorts after the future-dated entry:
		// presence is guaranteed, head position is not
		assert.Equal(t, "recent", stored.Entries[0].UserID)
		assert.Equal(t, models.PrimaryBotID, stored.Entries[1].UserID)
	})
}

func TestTouch(t *testing.T) {
	t.Run("EmptyList_TouchBot_BecomesHead", func(t *testing.T) {
		svc, _, _ := setupService(t)

		err := svc.Touch(context.Background(), "user_1", "bot-pirate")

		require.NoError(t, err)
		list := svc.GetList(context.Background(), "user_1")
		require.NotEmpty(t, list)
		assert.Equal(t, "bot-pirate", list[0].UserID)
		assert.Greater(t, list[0].LastMessageAt, int64(0))
	})

	t.Run("ExistingPartner_BumpedToHead", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.lists["user_1"] = storedList("user_1",
			profile("partner_a", 100),
			profile("partner_b", 50),
			profile(models.PrimaryBotID, 200),
		)

		err := svc.Touch(context.Background(), "user_1", "partner_b")

		require.NoError(t, err)
		list := svc.GetList(context.Background(), "user_1")
		require.Len(t, list, 3)
		assert.Equal(t, "partner_b", list[0].UserID)
		assert.Greater(t, list[0].LastMessageAt, int64(100))
		assert.Contains(t, []string{"partner_a", models.PrimaryBotID}, list[1].UserID)
	})

	t.Run("UnknownPartner_ResolvedViaProfiles", func(t *testing.T) {
		svc, _, profiles := setupService(t)
		profiles.On("Resolve", mock.Anything, "user_2").
			Return(&models.UserProfile{UserID: "user_2", FullName: "User Two"})

		err := svc.Touch(context.Background(), "user_1", "user_2")

		require.NoError(t, err)
		list := svc.GetList(context.Background(), "user_1")
		assert.Equal(t, "user_2", list[0].UserID)
		assert.Equal(t, "User Two", list[0].FullName)
		profiles.AssertExpectations(t)
	})

	t.Run("CachedPartner_NotRefetched", func(t *testing.T) {
		svc, repo, profiles := setupService(t)
		repo.lists["user_1"] = storedList("user_1",
			profile("user_2", 100),
			profile(models.PrimaryBotID, 200),
		)

		err := svc.Touch(context.Background(), "user_1", "user_2")

		require.NoError(t, err)
		profiles.AssertNotCalled(t, "Resolve", mock.Anything, "user_2")
	})

	t.Run("SelfTouch_ResolvesOwnProfile", func(t *testing.T) {
		svc, _, profiles := setupService(t)
		profiles.On("Resolve", mock.Anything, "user_1").
			Return(&models.UserProfile{UserID: "user_1", FullName: "Me"})

		err := svc.Touch(context.Background(), "user_1", "user_1")

		require.NoError(t, err)
		list := svc.GetList(context.Background(), "user_1")
		assert.Equal(t, "user_1", list[0].UserID)
	})

	t.Run("RepeatedTouches_AtMostOneEntryPerPartner", func(t *testing.T) {
		svc, _, profiles := setupService(t)
		profiles.On("Resolve", mock.Anything, "user_2").
			Return(&models.UserProfile{UserID: "user_2", FullName: "User Two"}).Maybe()

		for i := 0; i < 3; i++ {
			require.NoError(t, svc.Touch(context.Background(), "user_1", "user_2"))
			require.NoError(t, svc.Touch(context.Background(), "user_1", "bot-pirate"))
		}

		list := svc.GetList(context.Background(), "user_1")
		seen := make(map[string]int)
		for _, entry := range list {
			seen[entry.UserID]++
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "duplicate entry for %s", id)
		}
		for i := 1; i < len(list); i++ {
			assert.GreaterOrEqual(t, list[i-1].LastMessageAt, list[i].LastMessageAt)
		}
	})
}

func TestRemoveEntry(t *testing.T) {
	t.Run("RemovesAndIsIdempotent", func(t *testing.T) {
		svc, repo, _ := setupService(t)
		repo.lists["user_1"] = storedList("user_1",
			profile("partner_a", 100),
			profile(models.PrimaryBotID, 200),
		)

		require.NoError(t, svc.RemoveEntry(context.Background(), "user_1", "partner_a"))
		afterFirst := svc.GetList(context.Background(), "user_1")

		require.NoError(t, svc.RemoveEntry(context.Background(), "user_1", "partner_a"))
		afterSecond := svc.GetList(context.Background(), "user_1")

		ids := func(list []*models.UserProfile) []string {
			out := make([]string, len(list))
			for i, e := range list {
				out[i] = e.UserID
			}
			return out
		}
		assert.NotContains(t, ids(afterFirst), "partner_a")
		assert.Equal(t, ids(afterFirst), ids(afterSecond))
	})
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"amora-be/internal/domain"
	"amora-be/pkg/redis"
)

func setupTestKV(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestProfileRepository_SaveGetDelete(t *testing.T) {
	repo := NewProfileRepository(setupTestKV(t))
	ctx := context.Background()

	profile := &domain.Profile{
		UserID:      "user-1",
		DisplayName: "Sam",
		Age:         29,
		Interests:   []string{"hiking", "film"},
		Lifestyle:   domain.Lifestyle{Alcohol: "socially"},
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, repo.Save(ctx, profile))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, profile.DisplayName, got.DisplayName)
	assert.Equal(t, profile.Interests, got.Interests)
	assert.Equal(t, profile.Lifestyle.Alcohol, got.Lifestyle.Alcohol)

	require.NoError(t, repo.Delete(ctx, "user-1"))

	got, err = repo.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileRepository_GetAbsent(t *testing.T) {
	repo := NewProfileRepository(setupTestKV(t))

	got, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileRepository_ListUserIDs(t *testing.T) {
	repo := NewProfileRepository(setupTestKV(t))
	ctx := context.Background()

	for _, id := range []string{"user-1", "user-2", "user-3"} {
		require.NoError(t, repo.Save(ctx, &domain.Profile{UserID: id}))
	}

	ids, err := repo.ListUserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-1", "user-2", "user-3"}, ids)
}

func TestPersonalityRepository_SaveGet(t *testing.T) {
	repo := NewPersonalityRepository(setupTestKV(t))
	ctx := context.Background()

	result := &domain.PersonalityResult{
		UserID:      "user-1",
		Type:        "explorer",
		Scores:      map[string]int{"openness": 82},
		CompletedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, repo.Save(ctx, result))

	got, err := repo.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "explorer", got.Type)
	assert.Equal(t, 82, got.Scores["openness"])

	got, err = repo.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

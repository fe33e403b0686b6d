package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

func sampleProjects(owner domain.UserID) []*domain.Project {
	desc := "internal"
	return []*domain.Project{
		{
			ID: domain.NewProjectID(uuid.New()), OwnerID: owner, Name: "Alpha", Description: &desc,
			MRR: 1200, ActiveUsers: 85, Status: domain.ProjectStatusActive,
			CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: domain.NewProjectID(uuid.New()), OwnerID: owner, Name: "Beta",
			Status: domain.ProjectStatusPaused, CreatedAt: time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestEncodeDecode_PreservesViewAndEmptyList(t *testing.T) {
	owner := domain.NewUserID(uuid.New())
	in := sampleProjects(owner)
	raw, err := encode(in)
	require.NoError(t, err)
	out, err := decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	raw, err = encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
	out, err = decode(raw)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDecode_RejectsUnknownStatus(t *testing.T) {
	_, err := decode([]byte(`[{"name":"x","status":"active"}]`))
	assert.Error(t, err)
}

func TestKeysArePerOwnerAndGeneration(t *testing.T) {
	a := domain.NewUserID(uuid.New())
	b := domain.NewUserID(uuid.New())
	assert.NotEqual(t, key(a, 0), key(b, 0))
	assert.NotEqual(t, key(a, 0), key(a, 1))
	assert.Contains(t, key(a, 0), a.String())
	assert.NotEqual(t, genKey(a), genKey(b))
	assert.NotEqual(t, genKey(a), key(a, 0))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Noop
	gen, err := c.Generation(ctx, domain.UserID{})
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, domain.UserID{}, gen, sampleProjects(domain.UserID{})))
	_, found, err := c.Get(ctx, domain.UserID{}, gen)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Invalidate(ctx, domain.UserID{}))
}

func TestRedisViewCache(t *testing.T) {
	url := os.Getenv("LAUNCHPAD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LAUNCHPAD_TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	c := NewRedisViewCache(client, time.Minute)
	owner := domain.NewUserID(uuid.New())
	t.Cleanup(func() { _ = client.Del(context.Background(), genKey(owner)).Err() })

	gen, err := c.Generation(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	_, found, err := c.Get(ctx, owner, gen)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, owner, gen, []*domain.Project{}))
	got, found, err := c.Get(ctx, owner, gen)
	require.NoError(t, err)
	assert.True(t, found, "an empty list is a hit")
	assert.Empty(t, got)

	require.NoError(t, c.Invalidate(ctx, owner))
	next, err := c.Generation(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	_, found, err = c.Get(ctx, owner, next)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisViewCache_LateFillIsNotServed(t *testing.T) {
	url := os.Getenv("LAUNCHPAD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LAUNCHPAD_TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	c := NewRedisViewCache(client, time.Minute)
	owner := domain.NewUserID(uuid.New())
	t.Cleanup(func() { _ = client.Del(context.Background(), genKey(owner), key(owner, 0)).Err() })

	stale, err := c.Generation(ctx, owner)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, owner))
	require.NoError(t, c.Set(ctx, owner, stale, []*domain.Project{}))

	current, err := c.Generation(ctx, owner)
	require.NoError(t, err)
	_, found, err := c.Get(ctx, owner, current)
	require.NoError(t, err)
	assert.False(t, found)
}

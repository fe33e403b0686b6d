package project_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	"github.com/amirhosseinghanipour/launchpad/internal/testutil"
)

func TestSeedDemoProjects_InsertsOnce(t *testing.T) {
	ctx := context.Background()
	users, projects := testutil.NewUsers(), testutil.NewProjects()
	uc := project.NewSeedDemoProjects(users, projects, nil)

	res, err := uc.Execute(ctx, project.SeedDemoInput{})
	require.NoError(t, err)
	assert.Equal(t, project.DefaultDemoEmail, res.User.Email)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 0, res.Existing)

	res, err = uc.Execute(ctx, project.SeedDemoInput{Email: " Founder@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.Equal(t, 3, res.Existing)
	assert.Len(t, projects.All(), 3)
}

func TestSeedDemoProjects_InvalidatesDashboardView(t *testing.T) {
	ctx := context.Background()
	users, projects, cache := testutil.NewUsers(), testutil.NewProjects(), testutil.NewViewCache()
	user, err := users.UpsertByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	gen, err := cache.Generation(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, user.ID, gen, []*domain.Project{}))

	_, err = project.NewSeedDemoProjects(users, projects, cache).Execute(ctx, project.SeedDemoInput{Email: "ada@example.com"})
	require.NoError(t, err)

	assert.Equal(t, []domain.UserID{user.ID}, cache.Invalidated)
	next, err := cache.Generation(ctx, user.ID)
	require.NoError(t, err)
	_, found, err := cache.Get(ctx, user.ID, next)
	require.NoError(t, err)
	assert.False(t, found, "empty snapshot must not survive the seed")
}

func TestSeedDemoProjects_InvalidationFailure(t *testing.T) {
	cache := testutil.NewViewCache()
	cache.Fail = errors.New("redis down")
	projects := testutil.NewProjects()
	uc := project.NewSeedDemoProjects(testutil.NewUsers(), projects, cache)

	_, err := uc.Execute(context.Background(), project.SeedDemoInput{Email: "a@b.co"})
	require.ErrorIs(t, err, cache.Fail)
	assert.Len(t, projects.All(), 3)

	cache.Fail = nil
	res, err := uc.Execute(context.Background(), project.SeedDemoInput{Email: "a@b.co"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Existing)
	assert.Len(t, cache.Invalidated, 2)
}

func TestSeedDemoProjects_StoreFailure(t *testing.T) {
	projects := testutil.NewProjects()
	projects.Fail = testutil.ErrUnavailable
	cache := testutil.NewViewCache()
	uc := project.NewSeedDemoProjects(testutil.NewUsers(), projects, cache)

	_, err := uc.Execute(context.Background(), project.SeedDemoInput{Email: "a@b.co"})
	require.ErrorIs(t, err, testutil.ErrUnavailable)
	assert.Empty(t, cache.Invalidated)
}

package dashboard_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
	"github.com/amirhosseinghanipour/launchpad/internal/application/dashboard"
	"github.com/amirhosseinghanipour/launchpad/internal/application/project"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
	"github.com/amirhosseinghanipour/launchpad/internal/testutil"
)

type fixture struct {
	users    *testutil.Users
	projects *testutil.Projects
	cache    *testutil.ViewCache
	events   *testutil.Enqueuer
	dash     *dashboard.Dashboard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    testutil.NewUsers(),
		projects: testutil.NewProjects(),
		cache:    testutil.NewViewCache(),
		events:   &testutil.Enqueuer{},
	}
	f.dash = dashboard.NewDashboard(auth.NewResolveIdentity(testutil.StaticSessions{}), f.users, f.projects, f.cache, f.events, "/signin", zerolog.Nop())
	return f
}

func (f *fixture) signUp(t *testing.T, email string) *domain.User {
	t.Helper()
	u, err := f.users.UpsertByEmail(context.Background(), email)
	require.NoError(t, err)
	f.users.Calls = 0
	return u
}

func TestLoad_ScenarioA_EmptyDashboard(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")

	page, err := f.dash.Load(context.Background(), testutil.Token("ada@example.com"))
	require.NoError(t, err)
	require.True(t, page.Authenticated())
	assert.Empty(t, page.Projects)
	assert.Equal(t, project.Summary{}, page.Summary)
	assert.Equal(t, "ada@example.com", page.Identity.Email)
}

func TestLoad_SignedInButUnknownUser(t *testing.T) {
	f := newFixture(t)
	page, err := f.dash.Load(context.Background(), testutil.Token("ghost@example.com"))
	require.NoError(t, err)
	assert.True(t, page.Authenticated())
	assert.Empty(t, page.Projects)
	assert.Equal(t, 0, f.projects.Calls)
}

func TestCreateProject_ScenarioB(t *testing.T) {
	f := newFixture(t)
	user := f.signUp(t, "ada@example.com")
	cred := testutil.Token("ada@example.com")

	_, err := f.dash.Load(context.Background(), cred)
	require.NoError(t, err)

	page, err := f.dash.CreateProject(context.Background(), cred, project.RawFields{
		"name": "Site", "mrr": "1200", "activeUsers": "50", "status": "ACTIVE",
	})
	require.NoError(t, err)
	require.NotNil(t, page.Created)
	assert.Equal(t, "Site", page.Created.Name)
	assert.Equal(t, int64(1200), page.Created.MRR)
	assert.Equal(t, int64(50), page.Created.ActiveUsers)
	assert.Equal(t, domain.ProjectStatusActive, page.Created.Status)
	assert.Equal(t, user.ID, page.Created.OwnerID)

	assert.False(t, page.FromCache)
	assert.Equal(t, project.Summary{TotalRevenue: 1200, ProjectCount: 1, ActiveProjectCount: 1}, page.Summary)
	assert.Equal(t, []domain.UserID{user.ID}, f.cache.Invalidated)
	assert.Equal(t, []string{dashboard.EventProjectCreated}, f.events.Events)

	again, err := f.dash.Load(context.Background(), cred)
	require.NoError(t, err)
	assert.True(t, again.FromCache, "fresh view is cached after the mutation")
	assert.Equal(t, int64(1200), again.Summary.TotalRevenue)
}

func TestCreateProject_ScenarioC_MissingName(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")

	page, err := f.dash.CreateProject(context.Background(), testutil.Token("ada@example.com"), project.RawFields{"name": "", "mrr": "10"})
	require.Error(t, err)
	assert.Nil(t, page)
	assert.True(t, errors.Is(err, domerrors.ErrMissingName))
	var verr *project.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Empty(t, f.projects.All())
	assert.Empty(t, f.cache.Invalidated)
}

func TestCreateProject_ScenarioD_Coercion(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")

	page, err := f.dash.CreateProject(context.Background(), testutil.Token("ada@example.com"), project.RawFields{"name": "X", "mrr": "-5", "activeUsers": "abc"})
	require.NoError(t, err)
	stored := f.projects.All()
	require.Len(t, stored, 1)
	assert.Equal(t, int64(0), stored[0].MRR)
	assert.Equal(t, int64(0), stored[0].ActiveUsers)
	assert.Equal(t, int64(0), page.Summary.TotalRevenue)
}

func TestScenarioE_UnauthenticatedNeverTouchesStore(t *testing.T) {
	f := newFixture(t)

	page, err := f.dash.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/signin", page.RedirectTo)
	assert.False(t, page.Authenticated())

	page, err = f.dash.CreateProject(context.Background(), "forged", project.RawFields{"name": "X"})
	require.NoError(t, err)
	assert.Equal(t, "/signin", page.RedirectTo)

	assert.Equal(t, 0, f.users.Calls)
	assert.Equal(t, 0, f.projects.Calls)
	assert.Empty(t, f.projects.All())
}

func TestCreateProject_OwnerComesFromIdentity(t *testing.T) {
	f := newFixture(t)
	ada := f.signUp(t, "ada@example.com")
	bob := f.signUp(t, "bob@example.com")

	_, err := f.dash.CreateProject(context.Background(), testutil.Token("ada@example.com"), project.RawFields{
		"name": "Mine", "userId": bob.ID.String(), "ownerId": bob.ID.String(),
	})
	require.NoError(t, err)

	stored := f.projects.All()
	require.Len(t, stored, 1)
	assert.Equal(t, ada.ID, stored[0].OwnerID)

	bobPage, err := f.dash.Load(context.Background(), testutil.Token("bob@example.com"))
	require.NoError(t, err)
	assert.Empty(t, bobPage.Projects)
}

func TestCreateProject_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.dash.CreateProject(context.Background(), testutil.Token("ghost@example.com"), project.RawFields{"name": "X"})
	assert.ErrorIs(t, err, domerrors.ErrUserNotFound)
	assert.Empty(t, f.projects.All())
}

func TestLoad_StoreFailureIsNotAnEmptyDashboard(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")
	f.projects.Fail = testutil.ErrUnavailable

	page, err := f.dash.Load(context.Background(), testutil.Token("ada@example.com"))
	assert.Nil(t, page)
	assert.ErrorIs(t, err, testutil.ErrUnavailable)
}

func TestCreateProject_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")
	f.projects.Fail = testutil.ErrUnavailable

	_, err := f.dash.CreateProject(context.Background(), testutil.Token("ada@example.com"), project.RawFields{"name": "X"})
	assert.ErrorIs(t, err, testutil.ErrUnavailable)
	assert.Empty(t, f.cache.Invalidated)
	assert.Empty(t, f.events.Events)
}

func TestCacheFailuresFallBackToStore(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")
	f.cache.Fail = errors.New("redis down")
	cred := testutil.Token("ada@example.com")

	page, err := f.dash.CreateProject(context.Background(), cred, project.RawFields{"name": "X", "mrr": "7"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Summary.TotalRevenue)

	page, err = f.dash.Load(context.Background(), cred)
	require.NoError(t, err)
	assert.False(t, page.FromCache)
	assert.Equal(t, 1, page.Summary.ProjectCount)
}

func TestLoad_WithoutCache(t *testing.T) {
	users, projects := testutil.NewUsers(), testutil.NewProjects()
	_, err := users.UpsertByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	d := dashboard.NewDashboard(auth.NewResolveIdentity(testutil.StaticSessions{}), users, projects, nil, nil, "", zerolog.Nop())

	page, err := d.CreateProject(context.Background(), testutil.Token("ada@example.com"), project.RawFields{"name": "X", "status": "PAUSED"})
	require.NoError(t, err)
	assert.Equal(t, project.Summary{ProjectCount: 1}, page.Summary)

	page, err = d.Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/signin", page.RedirectTo)
}

// pausingProjects holds the first armed ListByOwner after it has read the store,
// until release is closed.
type pausingProjects struct {
	*testutil.Projects
	armed   atomic.Bool
	listed  chan struct{}
	release chan struct{}
}

func (p *pausingProjects) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Project, error) {
	out, err := p.Projects.ListByOwner(ctx, ownerID)
	if p.armed.CompareAndSwap(true, false) {
		close(p.listed)
		<-p.release
	}
	return out, err
}

func TestLoad_FillRacingCreateIsNotServedAfterIt(t *testing.T) {
	users, cache := testutil.NewUsers(), testutil.NewViewCache()
	_, err := users.UpsertByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	projects := &pausingProjects{Projects: testutil.NewProjects(), listed: make(chan struct{}), release: make(chan struct{})}
	projects.armed.Store(true)
	d := dashboard.NewDashboard(auth.NewResolveIdentity(testutil.StaticSessions{}), users, projects, cache, nil, "/signin", zerolog.Nop())
	cred := testutil.Token("ada@example.com")

	done := make(chan error, 1)
	go func() {
		page, err := d.Load(context.Background(), cred)
		if err == nil && len(page.Projects) != 0 {
			err = errors.New("racing load saw the new project")
		}
		done <- err
	}()
	<-projects.listed

	created, err := d.CreateProject(context.Background(), cred, project.RawFields{"name": "Site", "mrr": "1200"})
	require.NoError(t, err)
	require.Equal(t, 1, created.Summary.ProjectCount)

	close(projects.release)
	require.NoError(t, <-done)

	page, err := d.Load(context.Background(), cred)
	require.NoError(t, err)
	assert.Len(t, page.Projects, 1)
	assert.Equal(t, int64(1200), page.Summary.TotalRevenue)
}

func TestLoad_AfterSeedShowsDemoProjects(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")
	cred := testutil.Token("ada@example.com")

	page, err := f.dash.Load(context.Background(), cred)
	require.NoError(t, err)
	require.Empty(t, page.Projects)

	_, err = project.NewSeedDemoProjects(f.users, f.projects, f.cache).Execute(context.Background(), project.SeedDemoInput{Email: "ada@example.com"})
	require.NoError(t, err)

	page, err = f.dash.Load(context.Background(), cred)
	require.NoError(t, err)
	assert.False(t, page.FromCache)
	assert.Len(t, page.Projects, 3)
	assert.Equal(t, int64(2100), page.Summary.TotalRevenue)
}

func TestCancelledContextIsAnErrorNotARedirect(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "ada@example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cred := testutil.Token("ada@example.com")

	page, err := f.dash.Load(ctx, cred)
	assert.Nil(t, page)
	assert.ErrorIs(t, err, context.Canceled)

	page, err = f.dash.CreateProject(ctx, cred, project.RawFields{"name": "X"})
	assert.Nil(t, page)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.projects.All())
}

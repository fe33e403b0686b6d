package auth_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/launchpad/internal/application/auth"
	domerrors "github.com/amirhosseinghanipour/launchpad/internal/domain/errors"
	"github.com/amirhosseinghanipour/launchpad/internal/testutil"
)

func TestResolveIdentity(t *testing.T) {
	uc := auth.NewResolveIdentity(testutil.StaticSessions{})
	ctx := context.Background()

	id, ok := uc.Execute(ctx, testutil.Token("Ada@Example.com"))
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", id.Email)

	again, ok := uc.Execute(ctx, testutil.Token("Ada@Example.com"))
	require.True(t, ok)
	assert.Equal(t, id, again)

	for _, cred := range []string{"", "garbage", "session:u:"} {
		id, ok := uc.Execute(ctx, cred)
		assert.False(t, ok, "credential %q", cred)
		assert.True(t, id.IsZero())
	}
}

func TestResolveIdentity_IgnoresCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	id, ok := auth.NewResolveIdentity(testutil.StaticSessions{}).Execute(ctx, testutil.Token("a@b.co"))
	assert.True(t, ok)
	assert.Equal(t, "a@b.co", id.Email)
}

func TestMagicLinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	links := testutil.NewMagicLinks()
	enq := &testutil.Enqueuer{}
	users := testutil.NewUsers()

	send := auth.NewSendMagicLink(links, enq, "https://app.example.com/auth/magic-link/verify", 0)
	_, err := send.Execute(ctx, auth.SendMagicLinkInput{Email: " Founder@Example.com ", CallbackURL: "/dashboard"})
	require.NoError(t, err)
	require.Len(t, enq.MagicLinks, 1)

	link, err := url.Parse(enq.MagicLinks[0])
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", link.Query().Get("callback_url"))
	token := link.Query().Get("token")
	require.Len(t, token, 64)

	verify := auth.NewVerifyMagicLink(links, users, testutil.StaticSessions{}, 0)
	res, err := verify.Execute(ctx, auth.VerifyMagicLinkInput{Token: token})
	require.NoError(t, err)
	assert.Equal(t, "founder@example.com", res.User.Email)
	assert.Equal(t, int64(auth.DefaultSessionExpiry), res.ExpiresIn)
	assert.True(t, strings.HasSuffix(res.SessionToken, ":founder@example.com"))

	_, err = verify.Execute(ctx, auth.VerifyMagicLinkInput{Token: token})
	assert.True(t, errors.Is(err, domerrors.ErrMagicLinkInvalid), "token must be single use")
}

func TestVerifyMagicLink_UpsertKeepsExistingUser(t *testing.T) {
	ctx := context.Background()
	users := testutil.NewUsers()
	existing, err := users.UpsertByEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	res, err := auth.NewOAuthCallback(users, testutil.StaticSessions{}, 60).Execute(ctx, auth.OAuthUser{Provider: "google", Email: "ADA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.User.ID)
	assert.Equal(t, int64(60), res.ExpiresIn)
}

func TestVerifyMagicLink_EmptyToken(t *testing.T) {
	verify := auth.NewVerifyMagicLink(testutil.NewMagicLinks(), testutil.NewUsers(), testutil.StaticSessions{}, 0)
	_, err := verify.Execute(context.Background(), auth.VerifyMagicLinkInput{})
	assert.ErrorIs(t, err, domerrors.ErrMagicLinkInvalid)
}

func TestSafeCallback(t *testing.T) {
	assert.Equal(t, "/dashboard", auth.SafeCallback("/dashboard"))
	assert.Equal(t, "/dashboard?tab=1", auth.SafeCallback("/dashboard?tab=1"))
	for _, cb := range []string{"", "dashboard", "//evil.com", "/\\evil.com", "https://evil.com/x"} {
		assert.Empty(t, auth.SafeCallback(cb), cb)
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_COOKIE_SECRET", testSecret)
	t.Setenv("PUBLIC_URL", "https://launchpad.example/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://launchpad.example", cfg.Server.PublicURL)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "launchpad_session", cfg.Session.CookieName)
	assert.Equal(t, "/signin", cfg.Session.SignInPath)
	assert.Equal(t, int64(2592000), cfg.Session.Expiry)
	assert.Equal(t, int64(900), cfg.MagicLink.Expiry)
	assert.Equal(t, "https://launchpad.example/auth/magic-link/verify", cfg.MagicLink.BaseURL)
	assert.Equal(t, "https://launchpad.example/dashboard", cfg.Billing.PortalReturnURL)
	assert.False(t, cfg.OAuth.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_COOKIE_SECRET", testSecret)
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/lp.db")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.OAuth.Enabled())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing cookie secret": {},
		"short cookie secret":   {"SESSION_COOKIE_SECRET": "short"},
		"unknown driver":        {"SESSION_COOKIE_SECRET": testSecret, "DATABASE_DRIVER": "mysql"},
		"absolute sign-in path": {"SESSION_COOKIE_SECRET": testSecret, "SIGN_IN_PATH": "https://evil.example/"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SESSION_COOKIE_SECRET", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_DevelopmentCookieSecret(t *testing.T) {
	t.Setenv("SESSION_COOKIE_SECRET", "")
	t.Setenv("DEVELOPMENT", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Session.CookieSecret, len(devCookieSecret))
}

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// SendMagicLinkInput for passwordless sign-in.
type SendMagicLinkInput struct {
	Email       string
	CallbackURL string // where to land after verification; relative paths only
}

// SendMagicLinkResult returns nothing; email is sent async.
type SendMagicLinkResult struct{}

// SendMagicLink creates a magic link token, stores its hash, and enqueues sending the email.
type SendMagicLink struct {
	magicLinkStore ports.MagicLinkStore
	enqueuer       ports.TaskEnqueuer
	baseURL        string
	expirySecs     int64
}

// NewSendMagicLink builds the use case.
func NewSendMagicLink(magicLinkStore ports.MagicLinkStore, enqueuer ports.TaskEnqueuer, baseURL string, expirySecs int64) *SendMagicLink {
	if expirySecs <= 0 {
		expirySecs = 900
	}
	return &SendMagicLink{
		magicLinkStore: magicLinkStore,
		enqueuer:       enqueuer,
		baseURL:        baseURL,
		expirySecs:     expirySecs,
	}
}

// Execute creates the link and enqueues the email.
func (uc *SendMagicLink) Execute(ctx context.Context, input SendMagicLinkInput) (*SendMagicLinkResult, error) {
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return nil, err
	}
	tokenStr := hex.EncodeToString(token)
	hash := sha256Hash(tokenStr)
	expiresAt := time.Now().Add(time.Duration(uc.expirySecs) * time.Second).Unix()

	if err := uc.magicLinkStore.Create(ctx, NormalizeEmail(input.Email), hash, expiresAt); err != nil {
		return nil, err
	}

	q := url.Values{"token": {tokenStr}}
	if cb := SafeCallback(input.CallbackURL); cb != "" {
		q.Set("callback_url", cb)
	}
	linkURL := uc.baseURL + "?" + q.Encode()
	// best effort; the link is already stored
	_ = uc.enqueuer.EnqueueSendMagicLink(ctx, NormalizeEmail(input.Email), linkURL)
	return &SendMagicLinkResult{}, nil
}

// SafeCallback keeps only local absolute paths so links cannot redirect off-site.
func SafeCallback(cb string) string {
	if cb == "" || cb[0] != '/' || (len(cb) > 1 && (cb[1] == '/' || cb[1] == '\\')) {
		return ""
	}
	u, err := url.Parse(cb)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return cb
}

func sha256Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence/db"
)

// MagicLinkRepository implements MagicLinkStore. Consume is a single UPDATE so a
// token can be redeemed once even under concurrent clicks.
type MagicLinkRepository struct {
	q *db.Queries
}

func NewMagicLinkRepository(q *db.Queries) *MagicLinkRepository {
	return &MagicLinkRepository{q: q}
}

func (r *MagicLinkRepository) Create(ctx context.Context, email, tokenHash string, expiresAt int64) error {
	return r.q.CreateMagicLink(ctx, db.CreateMagicLinkParams{
		ID:        uuid.New(),
		Email:     email,
		TokenHash: tokenHash,
		ExpiresAt: time.Unix(expiresAt, 0),
	})
}

func (r *MagicLinkRepository) Consume(ctx context.Context, tokenHash string) (string, error) {
	email, err := r.q.ConsumeMagicLink(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return email, nil
}

func (r *MagicLinkRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	return r.q.DeleteStaleMagicLinks(ctx, before)
}

var _ ports.MagicLinkStore = (*MagicLinkRepository)(nil)

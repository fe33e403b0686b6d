package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createMagicLink = `-- name: CreateMagicLink :exec
INSERT INTO magic_links (id, email, token_hash, expires_at, created_at)
VALUES ($1, $2, $3, $4, NOW())
`

type CreateMagicLinkParams struct {
	ID        uuid.UUID
	Email     string
	TokenHash string
	ExpiresAt time.Time
}

func (q *Queries) CreateMagicLink(ctx context.Context, arg CreateMagicLinkParams) error {
	_, err := q.db.Exec(ctx, createMagicLink, arg.ID, arg.Email, arg.TokenHash, arg.ExpiresAt)
	return err
}

const consumeMagicLink = `-- name: ConsumeMagicLink :one
UPDATE magic_links SET used_at = NOW()
WHERE token_hash = $1 AND used_at IS NULL AND expires_at > NOW()
RETURNING email
`

func (q *Queries) ConsumeMagicLink(ctx context.Context, tokenHash string) (string, error) {
	row := q.db.QueryRow(ctx, consumeMagicLink, tokenHash)
	var email string
	err := row.Scan(&email)
	return email, err
}

const deleteStaleMagicLinks = `-- name: DeleteStaleMagicLinks :execrows
DELETE FROM magic_links
WHERE expires_at < $1 OR (used_at IS NOT NULL AND used_at < $1)
`

func (q *Queries) DeleteStaleMagicLinks(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.Exec(ctx, deleteStaleMagicLinks, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

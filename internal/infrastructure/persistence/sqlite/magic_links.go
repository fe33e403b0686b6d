package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// MagicLinkStore implements ports.MagicLinkStore.
type MagicLinkStore struct {
	s *Store
}

func (m *MagicLinkStore) Create(ctx context.Context, email, tokenHash string, expiresAt int64) error {
	if err := m.s.ready(ctx); err != nil {
		return err
	}
	_, err := m.s.sqlDB.ExecContext(ctx,
		`INSERT INTO magic_links (id, email, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), email, tokenHash, toMicros(time.Unix(expiresAt, 0)), toMicros(m.s.now()),
	)
	if err != nil {
		return fmt.Errorf("create magic link: %w", err)
	}
	return nil
}

// Consume returns "" when the token is unknown, expired or already used.
func (m *MagicLinkStore) Consume(ctx context.Context, tokenHash string) (string, error) {
	if err := m.s.ready(ctx); err != nil {
		return "", err
	}
	now := toMicros(m.s.now())
	var email string
	err := m.s.sqlDB.QueryRowContext(ctx,
		`UPDATE magic_links SET used_at = ?
		 WHERE token_hash = ? AND used_at IS NULL AND expires_at > ?
		 RETURNING email`,
		now, tokenHash, now,
	).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("consume magic link: %w", err)
	}
	return email, nil
}

// DeleteStale removes links that expired, or were used, before the cutoff.
func (m *MagicLinkStore) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	if err := m.s.ready(ctx); err != nil {
		return 0, err
	}
	cutoff := toMicros(before)
	res, err := m.s.sqlDB.ExecContext(ctx,
		`DELETE FROM magic_links WHERE expires_at < ? OR (used_at IS NOT NULL AND used_at < ?)`,
		cutoff, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("delete stale magic links: %w", err)
	}
	return res.RowsAffected()
}

var _ ports.MagicLinkStore = (*MagicLinkStore)(nil)

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

const userColumns = `id, email, billing_customer_id, created_at, updated_at`

// UserStore implements ports.UserRepository.
type UserStore struct {
	s *Store
}

func (u *UserStore) UpsertByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := u.s.ready(ctx); err != nil {
		return nil, err
	}
	now := toMicros(u.s.now())
	row := u.s.sqlDB.QueryRowContext(ctx,
		`INSERT INTO users (id, email, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET email = users.email
		 RETURNING `+userColumns,
		uuid.NewString(), email, now, now,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (u *UserStore) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	return u.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID.String())
}

func (u *UserStore) SetBillingCustomerID(ctx context.Context, userID domain.UserID, customerID string) error {
	if err := u.s.ready(ctx); err != nil {
		return err
	}
	_, err := u.s.sqlDB.ExecContext(ctx,
		`UPDATE users SET billing_customer_id = ?, updated_at = ? WHERE id = ?`,
		customerID, toMicros(u.s.now()), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("set billing customer: %w", err)
	}
	return nil
}

func (u *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	if err := u.s.ready(ctx); err != nil {
		return nil, err
	}
	user, err := scanUser(u.s.sqlDB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		id         string
		email      string
		customerID sql.NullString
		createdAt  int64
		updatedAt  int64
	)
	if err := row.Scan(&id, &email, &customerID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &domain.User{
		ID:                domain.NewUserID(uid),
		Email:             email,
		BillingCustomerID: stringPtr(customerID),
		CreatedAt:         fromMicros(createdAt),
		UpdatedAt:         fromMicros(updatedAt),
	}, nil
}

var _ ports.UserRepository = (*UserStore)(nil)

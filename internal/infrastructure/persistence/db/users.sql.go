package db

import (
	"context"

	"github.com/google/uuid"
)

const upsertUserByEmail = `-- name: UpsertUserByEmail :one
INSERT INTO users (id, email, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (email) DO UPDATE SET email = users.email
RETURNING id, email, billing_customer_id, created_at, updated_at
`

type UpsertUserByEmailParams struct {
	ID    uuid.UUID
	Email string
}

func (q *Queries) UpsertUserByEmail(ctx context.Context, arg UpsertUserByEmailParams) (User, error) {
	row := q.db.QueryRow(ctx, upsertUserByEmail, arg.ID, arg.Email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.BillingCustomerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, billing_customer_id, created_at, updated_at FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.BillingCustomerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, billing_customer_id, created_at, updated_at FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.BillingCustomerID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const setBillingCustomerID = `-- name: SetBillingCustomerID :exec
UPDATE users SET billing_customer_id = $2, updated_at = NOW()
WHERE id = $1
`

func (q *Queries) SetBillingCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	_, err := q.db.Exec(ctx, setBillingCustomerID, id, customerID)
	return err
}

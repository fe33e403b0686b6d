package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID                uuid.UUID
	Email             string
	BillingCustomerID pgtype.Text
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Project struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description pgtype.Text
	Mrr         int64
	ActiveUsers int64
	Status      string
	CreatedAt   time.Time
}

type MagicLink struct {
	ID        uuid.UUID
	Email     string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    pgtype.Timestamptz
	CreatedAt time.Time
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence/db"
)

type UserRepository struct {
	q *db.Queries
}

func NewUserRepository(q *db.Queries) *UserRepository {
	return &UserRepository{q: q}
}

func (r *UserRepository) UpsertByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.q.UpsertUserByEmail(ctx, db.UpsertUserByEmailParams{ID: uuid.New(), Email: email})
	if err != nil {
		return nil, err
	}
	return dbUserToDomain(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbUserToDomain(u), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	u, err := r.q.GetUserByID(ctx, userID.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dbUserToDomain(u), nil
}

func (r *UserRepository) SetBillingCustomerID(ctx context.Context, userID domain.UserID, customerID string) error {
	return r.q.SetBillingCustomerID(ctx, userID.UUID, customerID)
}

func dbUserToDomain(u db.User) *domain.User {
	var customerID *string
	if u.BillingCustomerID.Valid {
		s := u.BillingCustomerID.String
		customerID = &s
	}
	return &domain.User{
		ID:                domain.NewUserID(u.ID),
		Email:             u.Email,
		BillingCustomerID: customerID,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// Ensure UserRepository implements ports.UserRepository.
var _ ports.UserRepository = (*UserRepository)(nil)

package ports

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

// UserRepository defines persistence for users. Lookups return (nil, nil) when absent.
type UserRepository interface {
	// UpsertByEmail creates the user if absent and leaves an existing one untouched.
	UpsertByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
	SetBillingCustomerID(ctx context.Context, userID domain.UserID, customerID string) error
}

// ProjectRepository defines owner-scoped persistence for projects. There is no global query.
type ProjectRepository interface {
	Count(ctx context.Context, ownerID domain.UserID) (int, error)
	// ListByOwner returns projects ordered by creation time, then id.
	ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Project, error)
	// Create assigns id and creation time, stores the draft and returns the stored record.
	Create(ctx context.Context, ownerID domain.UserID, draft domain.ProjectDraft) (*domain.Project, error)
	// CreateMany stores all drafts or none. Used for seeding only.
	CreateMany(ctx context.Context, ownerID domain.UserID, drafts []domain.ProjectDraft) (int, error)
}

// MagicLinkStore keeps hashed one-time sign-in tokens.
type MagicLinkStore interface {
	Create(ctx context.Context, email, tokenHash string, expiresAt int64) error
	// Consume marks an unexpired, unused token as used and returns its email.
	Consume(ctx context.Context, tokenHash string) (email string, err error)
	// DeleteStale removes links that expired, or were used, before the cutoff.
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

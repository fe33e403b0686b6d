package ports

import (
	"context"

	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

// ViewCache holds the project list behind a user's dashboard.
// Snapshots are stored per generation: read the generation before reading the store,
// then Get and Set under it. Invalidate advances the generation, so a snapshot read
// before a mutation can never be served after it.
type ViewCache interface {
	// Generation returns the owner's current generation (0 when never invalidated).
	Generation(ctx context.Context, ownerID domain.UserID) (int64, error)
	// Get reports found=false on a miss; an empty list is a valid hit.
	Get(ctx context.Context, ownerID domain.UserID, gen int64) (projects []*domain.Project, found bool, err error)
	Set(ctx context.Context, ownerID domain.UserID, gen int64, projects []*domain.Project) error
	// Invalidate marks the owner's view stale; the next read goes to the store.
	Invalidate(ctx context.Context, ownerID domain.UserID) error
}

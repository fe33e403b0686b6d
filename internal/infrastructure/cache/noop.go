package cache

import (
	"context"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

// Noop never hits; every read goes to the store. Used when Redis is not configured.
type Noop struct{}

func (Noop) Generation(context.Context, domain.UserID) (int64, error) { return 0, nil }

func (Noop) Get(context.Context, domain.UserID, int64) ([]*domain.Project, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, domain.UserID, int64, []*domain.Project) error { return nil }

func (Noop) Invalidate(context.Context, domain.UserID) error { return nil }

var _ ports.ViewCache = Noop{}

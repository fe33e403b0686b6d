package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

const keyPrefix = "launchpad:dashboard:"

// RedisViewCache keeps each owner's project list as one JSON value with a TTL, keyed by
// the owner's generation counter. Invalidate is an INCR, so a fill that started before it
// lands on a key nobody reads.
type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisViewCache(client *redis.Client, ttl time.Duration) *RedisViewCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisViewCache{client: client, ttl: ttl}
}

func (c *RedisViewCache) Generation(ctx context.Context, ownerID domain.UserID) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(ownerID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return gen, nil
}

func (c *RedisViewCache) Get(ctx context.Context, ownerID domain.UserID, gen int64) ([]*domain.Project, bool, error) {
	raw, err := c.client.Get(ctx, key(ownerID, gen)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	projects, err := decode(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached view: %w", err)
	}
	return projects, true, nil
}

func (c *RedisViewCache) Set(ctx context.Context, ownerID domain.UserID, gen int64, projects []*domain.Project) error {
	raw, err := encode(projects)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(ownerID, gen), raw, c.ttl).Err()
}

// Invalidate advances the generation and drops the snapshot it replaces.
// The generation key has no TTL; it must outlive every snapshot written under it.
func (c *RedisViewCache) Invalidate(ctx context.Context, ownerID domain.UserID) error {
	gen, err := c.client.Incr(ctx, genKey(ownerID)).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, key(ownerID, gen-1)).Err()
}

func key(ownerID domain.UserID, gen int64) string {
	return keyPrefix + ownerID.String() + ":" + strconv.FormatInt(gen, 10)
}

func genKey(ownerID domain.UserID) string {
	return keyPrefix + "gen:" + ownerID.String()
}

type projectDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MRR         int64     `json:"mrr"`
	ActiveUsers int64     `json:"active_users"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func encode(projects []*domain.Project) ([]byte, error) {
	out := make([]projectDTO, 0, len(projects))
	for _, p := range projects {
		if p == nil {
			continue
		}
		out = append(out, projectDTO{
			ID:          p.ID.UUID,
			OwnerID:     p.OwnerID.UUID,
			Name:        p.Name,
			Description: p.Description,
			MRR:         p.MRR,
			ActiveUsers: p.ActiveUsers,
			Status:      string(p.Status),
			CreatedAt:   p.CreatedAt,
		})
	}
	return json.Marshal(out)
}

func decode(raw []byte) ([]*domain.Project, error) {
	var in []projectDTO
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]*domain.Project, 0, len(in))
	for _, d := range in {
		status, ok := domain.ParseProjectStatus(d.Status)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", d.Status)
		}
		out = append(out, &domain.Project{
			ID:          domain.NewProjectID(d.ID),
			OwnerID:     domain.NewUserID(d.OwnerID),
			Name:        d.Name,
			Description: d.Description,
			MRR:         d.MRR,
			ActiveUsers: d.ActiveUsers,
			Status:      status,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out, nil
}

var _ ports.ViewCache = (*RedisViewCache)(nil)

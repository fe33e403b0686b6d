package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
	"github.com/amirhosseinghanipour/launchpad/internal/infrastructure/persistence/db"
)

type ProjectRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewProjectRepository(q *db.Queries, pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{q: q, pool: pool}
}

func (r *ProjectRepository) Count(ctx context.Context, ownerID domain.UserID) (int, error) {
	n, err := r.q.CountProjectsByOwner(ctx, ownerID.UUID)
	return int(n), err
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Project, error) {
	rows, err := r.q.ListProjectsByOwner(ctx, ownerID.UUID)
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Project, 0, len(rows))
	for _, p := range rows {
		list = append(list, dbProjectToDomain(p))
	}
	return list, nil
}

func (r *ProjectRepository) Create(ctx context.Context, ownerID domain.UserID, draft domain.ProjectDraft) (*domain.Project, error) {
	p, err := r.q.CreateProject(ctx, createParams(ownerID, draft, time.Now().UTC()))
	if err != nil {
		return nil, err
	}
	return dbProjectToDomain(p), nil
}

// CreateMany inserts every draft in one transaction. Creation times step by a
// microsecond so the list order matches the draft order.
func (r *ProjectRepository) CreateMany(ctx context.Context, ownerID domain.UserID, drafts []domain.ProjectDraft) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)
	q := r.q.WithTx(tx)
	base := time.Now().UTC()
	for i, d := range drafts {
		if _, err := q.CreateProject(ctx, createParams(ownerID, d, base.Add(time.Duration(i)*time.Microsecond))); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(drafts), nil
}

func createParams(ownerID domain.UserID, d domain.ProjectDraft, createdAt time.Time) db.CreateProjectParams {
	var desc pgtype.Text
	if d.Description != nil {
		desc = pgtype.Text{String: *d.Description, Valid: true}
	}
	return db.CreateProjectParams{
		ID:          uuid.New(),
		OwnerID:     ownerID.UUID,
		Name:        d.Name,
		Description: desc,
		Mrr:         d.MRR,
		ActiveUsers: d.ActiveUsers,
		Status:      string(d.Status),
		CreatedAt:   createdAt,
	}
}

func dbProjectToDomain(p db.Project) *domain.Project {
	var desc *string
	if p.Description.Valid {
		s := p.Description.String
		desc = &s
	}
	return &domain.Project{
		ID:          domain.NewProjectID(p.ID),
		OwnerID:     domain.NewUserID(p.OwnerID),
		Name:        p.Name,
		Description: desc,
		MRR:         p.Mrr,
		ActiveUsers: p.ActiveUsers,
		Status:      domain.ProjectStatus(p.Status),
		CreatedAt:   p.CreatedAt,
	}
}

// Ensure ProjectRepository implements ports.ProjectRepository.
var _ ports.ProjectRepository = (*ProjectRepository)(nil)

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

const (
	projectColumns    = `id, owner_id, name, description, mrr, active_users, status, created_at`
	insertProjectStmt = `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// ProjectStore implements ports.ProjectRepository. Every query is scoped by owner.
type ProjectStore struct {
	s *Store
}

func (p *ProjectStore) Count(ctx context.Context, ownerID domain.UserID) (int, error) {
	if err := p.s.ready(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := p.s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE owner_id = ?`, ownerID.String()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

func (p *ProjectStore) ListByOwner(ctx context.Context, ownerID domain.UserID) ([]*domain.Project, error) {
	if err := p.s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := p.s.sqlDB.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE owner_id = ? ORDER BY created_at, id`,
		ownerID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := make([]*domain.Project, 0)
	for rows.Next() {
		pr, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return list, nil
}

func (p *ProjectStore) Create(ctx context.Context, ownerID domain.UserID, draft domain.ProjectDraft) (*domain.Project, error) {
	if err := p.s.ready(ctx); err != nil {
		return nil, err
	}
	pr := newProject(ownerID, draft, p.s.now())
	if _, err := p.s.sqlDB.ExecContext(ctx, insertProjectStmt, projectArgs(pr)...); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return pr, nil
}

// CreateMany inserts every draft in one transaction, keeping the draft order.
func (p *ProjectStore) CreateMany(ctx context.Context, ownerID domain.UserID, drafts []domain.ProjectDraft) (int, error) {
	if err := p.s.ready(ctx); err != nil {
		return 0, err
	}
	tx, err := p.s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	base := p.s.now()
	for i, d := range drafts {
		pr := newProject(ownerID, d, base.Add(time.Duration(i)*time.Microsecond))
		if _, err := tx.ExecContext(ctx, insertProjectStmt, projectArgs(pr)...); err != nil {
			return 0, fmt.Errorf("create project %q: %w", d.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(drafts), nil
}

func newProject(ownerID domain.UserID, d domain.ProjectDraft, createdAt time.Time) *domain.Project {
	return &domain.Project{
		ID:          domain.NewProjectID(uuid.New()),
		OwnerID:     ownerID,
		Name:        d.Name,
		Description: d.Description,
		MRR:         d.MRR,
		ActiveUsers: d.ActiveUsers,
		Status:      d.Status,
		CreatedAt:   fromMicros(toMicros(createdAt)),
	}
}

func projectArgs(pr *domain.Project) []any {
	return []any{
		pr.ID.String(),
		pr.OwnerID.String(),
		pr.Name,
		nullString(pr.Description),
		pr.MRR,
		pr.ActiveUsers,
		string(pr.Status),
		toMicros(pr.CreatedAt),
	}
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		id, ownerID, name, status string
		description               sql.NullString
		mrr, activeUsers          int64
		createdAt                 int64
	)
	if err := row.Scan(&id, &ownerID, &name, &description, &mrr, &activeUsers, &status, &createdAt); err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	oid, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	return &domain.Project{
		ID:          domain.NewProjectID(pid),
		OwnerID:     domain.NewUserID(oid),
		Name:        name,
		Description: stringPtr(description),
		MRR:         mrr,
		ActiveUsers: activeUsers,
		Status:      domain.ProjectStatus(status),
		CreatedAt:   fromMicros(createdAt),
	}, nil
}

var _ ports.ProjectRepository = (*ProjectStore)(nil)

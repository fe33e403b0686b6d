package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const countProjectsByOwner = `-- name: CountProjectsByOwner :one
SELECT COUNT(*) FROM projects
WHERE owner_id = $1
`

func (q *Queries) CountProjectsByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countProjectsByOwner, ownerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listProjectsByOwner = `-- name: ListProjectsByOwner :many
SELECT id, owner_id, name, description, mrr, active_users, status, created_at FROM projects
WHERE owner_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Project, error) {
	rows, err := q.db.Query(ctx, listProjectsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Project{}
	for rows.Next() {
		var i Project
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Description,
			&i.Mrr,
			&i.ActiveUsers,
			&i.Status,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createProject = `-- name: CreateProject :one
INSERT INTO projects (id, owner_id, name, description, mrr, active_users, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, owner_id, name, description, mrr, active_users, status, created_at
`

type CreateProjectParams struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description pgtype.Text
	Mrr         int64
	ActiveUsers int64
	Status      string
	CreatedAt   time.Time
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRow(ctx, createProject,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Description,
		arg.Mrr,
		arg.ActiveUsers,
		arg.Status,
		arg.CreatedAt,
	)
	var i Project
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Description,
		&i.Mrr,
		&i.ActiveUsers,
		&i.Status,
		&i.CreatedAt,
	)
	return i, err
}

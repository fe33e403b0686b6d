package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusTrialing  ProjectStatus = "TRIALING"
	ProjectStatusPaused    ProjectStatus = "PAUSED"
	ProjectStatusCancelled ProjectStatus = "CANCELLED"
)

// ProjectStatuses lists every valid status in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusActive,
	ProjectStatusTrialing,
	ProjectStatusPaused,
	ProjectStatusCancelled,
}

// ParseProjectStatus returns the status named by s. The match is exact.
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	for _, st := range ProjectStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is a member of the closed status set.
func (s ProjectStatus) Valid() bool {
	_, ok := ParseProjectStatus(string(s))
	return ok
}

// Project is a tracked product owned by exactly one user.
type Project struct {
	ID          ProjectID
	OwnerID     UserID
	Name        string
	Description *string // nil when not provided
	MRR         int64   // whole dollars
	ActiveUsers int64
	Status      ProjectStatus
	CreatedAt   time.Time
}

// ProjectDraft is a validated project that has not been stored yet.
// It carries no owner: the owner always comes from the resolved identity.
type ProjectDraft struct {
	Name        string
	Description *string
	MRR         int64
	ActiveUsers int64
	Status      ProjectStatus
}

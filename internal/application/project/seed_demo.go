package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

// DefaultDemoEmail is the account seeded when no email is given.
const DefaultDemoEmail = "founder@example.com"

// SeedDemoInput names the account to seed.
type SeedDemoInput struct {
	Email string
}

// SeedDemoResult reports what the seed did.
type SeedDemoResult struct {
	User     *domain.User
	Existing int // projects the user already had; nothing is inserted when > 0
	Inserted int
}

// SeedDemoProjects ensures the demo user exists and gives it three sample projects.
// The count-then-insert check is best effort: concurrent seeds for a new user may both insert.
type SeedDemoProjects struct {
	users    ports.UserRepository
	projects ports.ProjectRepository
	cache    ports.ViewCache
}

// NewSeedDemoProjects builds the use case. cache is the dashboard view cache and may be nil.
func NewSeedDemoProjects(users ports.UserRepository, projects ports.ProjectRepository, cache ports.ViewCache) *SeedDemoProjects {
	return &SeedDemoProjects{users: users, projects: projects, cache: cache}
}

// Execute upserts the user, inserts the demo projects if it has none and retires its cached dashboard view.
func (uc *SeedDemoProjects) Execute(ctx context.Context, input SeedDemoInput) (*SeedDemoResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		email = DefaultDemoEmail
	}
	user, err := uc.users.UpsertByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("upsert demo user: %w", err)
	}
	existing, err := uc.projects.Count(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}
	res := &SeedDemoResult{User: user, Existing: existing}
	if existing == 0 {
		res.Inserted, err = uc.projects.CreateMany(ctx, user.ID, DemoProjects())
		if err != nil {
			return nil, fmt.Errorf("insert demo projects: %w", err)
		}
	}
	// Also on a no-op rerun, so a failed invalidation can be retried.
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("invalidate dashboard view: %w", err)
		}
	}
	return res, nil
}

// DemoProjects returns the sample projects used for seeding.
func DemoProjects() []domain.ProjectDraft {
	return []domain.ProjectDraft{
		{
			Name:        "Analytics Dashboard",
			Description: strPtr("Core analytics product for tracking key metrics."),
			MRR:         1200,
			ActiveUsers: 85,
			Status:      domain.ProjectStatusActive,
		},
		{
			Name:        "Internal Tools Revamp",
			Description: strPtr("Revamping internal admin tools and workflows."),
			MRR:         600,
			ActiveUsers: 40,
			Status:      domain.ProjectStatusTrialing,
		},
		{
			Name:        "Client Portal (Legacy)",
			Description: strPtr("Legacy client-facing portal still in limited use."),
			MRR:         300,
			ActiveUsers: 20,
			Status:      domain.ProjectStatusPaused,
		},
	}
}

func strPtr(s string) *string { return &s }

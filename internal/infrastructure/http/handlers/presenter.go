package handlers

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/amirhosseinghanipour/launchpad/internal/application/dashboard"
	"github.com/amirhosseinghanipour/launchpad/internal/domain"
)

const createdDateLayout = "Jan 2, 2006"

// Empty-state copy shown when the signed-in user has no projects.
const (
	EmptyStateTitle  = "No projects yet"
	EmptyStateDetail = "Create your first project to see your dashboard in action."
)

var printer = message.NewPrinter(language.AmericanEnglish)

// formatDollars renders whole US dollars with grouping and no cents: 1200 -> "$1,200".
func formatDollars(amount int64) string {
	return printer.Sprintf("$%d", amount)
}

type projectView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	MRR            int64     `json:"mrr"`
	MRRDisplay     string    `json:"mrr_display"`
	ActiveUsers    int64     `json:"active_users"`
	Status         string    `json:"status"`
	StatusTone     string    `json:"status_tone"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedDisplay string    `json:"created_display"`
}

type summaryView struct {
	TotalRevenue        int64  `json:"total_revenue"`
	TotalRevenueDisplay string `json:"total_revenue_display"`
	ProjectCount        int    `json:"project_count"`
	ActiveProjectCount  int    `json:"active_project_count"`
}

type emptyStateView struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type dashboardView struct {
	SignedInAs string          `json:"signed_in_as"`
	Summary    summaryView     `json:"summary"`
	Projects   []projectView   `json:"projects"`
	EmptyState *emptyStateView `json:"empty_state,omitempty"`
	Created    *projectView    `json:"created,omitempty"`
	Statuses   []string        `json:"statuses"`
}

func presentProject(p *domain.Project) projectView {
	return projectView{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		MRR:            p.MRR,
		MRRDisplay:     formatDollars(p.MRR),
		ActiveUsers:    p.ActiveUsers,
		Status:         string(p.Status),
		StatusTone:     statusTone(p.Status),
		CreatedAt:      p.CreatedAt,
		CreatedDisplay: p.CreatedAt.Format(createdDateLayout),
	}
}

// presentDashboard turns an authenticated page into its JSON view.
func presentDashboard(page *dashboard.Page) dashboardView {
	v := dashboardView{
		SignedInAs: page.Identity.Email,
		Summary: summaryView{
			TotalRevenue:        page.Summary.TotalRevenue,
			TotalRevenueDisplay: formatDollars(page.Summary.TotalRevenue),
			ProjectCount:        page.Summary.ProjectCount,
			ActiveProjectCount:  page.Summary.ActiveProjectCount,
		},
		Projects: make([]projectView, 0, len(page.Projects)),
	}
	for _, p := range page.Projects {
		if p != nil {
			v.Projects = append(v.Projects, presentProject(p))
		}
	}
	if len(v.Projects) == 0 {
		v.EmptyState = &emptyStateView{Title: EmptyStateTitle, Detail: EmptyStateDetail}
	}
	if page.Created != nil {
		c := presentProject(page.Created)
		v.Created = &c
	}
	for _, s := range domain.ProjectStatuses {
		v.Statuses = append(v.Statuses, string(s))
	}
	return v
}

// statusTone names the badge colour for a status.
func statusTone(s domain.ProjectStatus) string {
	switch s {
	case domain.ProjectStatusActive:
		return "emerald"
	case domain.ProjectStatusTrialing:
		return "blue"
	case domain.ProjectStatusPaused:
		return "amber"
	default:
		return "zinc"
	}
}

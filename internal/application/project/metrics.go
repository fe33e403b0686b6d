package project

import "github.com/amirhosseinghanipour/launchpad/internal/domain"

// Summary is the aggregate view of one user's projects.
type Summary struct {
	TotalRevenue       int64
	ProjectCount       int
	ActiveProjectCount int
}

// Aggregate sums revenue and counts projects. It is pure and total; nil gives zeroes.
func Aggregate(projects []*domain.Project) Summary {
	s := Summary{ProjectCount: len(projects)}
	for _, p := range projects {
		if p == nil {
			continue
		}
		s.TotalRevenue += p.MRR
		if p.Status == domain.ProjectStatusActive {
			s.ActiveProjectCount++
		}
	}
	return s
}

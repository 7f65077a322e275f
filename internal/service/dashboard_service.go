package service

import (
	"context"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/repository"
)

// DashboardData consolidates all metrics for the back-office dashboard.
type DashboardData struct {
	TotalMembers   int                  `json:"total_members"`
	UpcomingEvents int                  `json:"upcoming_events"`
	PastEvents     int                  `json:"past_events"`
	TotalAdmins    int                  `json:"total_admins"`
	NewestMembers  []model.PublicMember `json:"newest_members"`
}

// DashboardService handles back-office dashboard business logic.
type DashboardService struct {
	repo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetDashboardData fetches all dashboard metrics.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	members, upcoming, past, admins, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	newest, err := s.repo.GetNewestMembers(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalMembers:   members,
		UpcomingEvents: upcoming,
		PastEvents:     past,
		TotalAdmins:    admins,
		NewestMembers:  newest,
	}, nil
}

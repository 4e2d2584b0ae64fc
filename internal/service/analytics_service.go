package service

import (
	"context"

	"go-event-booking/internal/model"
	"go-event-booking/internal/repository"
)

type AnalyticsService interface {
	Overview(ctx context.Context) (*model.AnalyticsOverview, error)
}

type AnalyticsServiceImpl struct {
	repo repository.AnalyticsRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &AnalyticsServiceImpl{repo: repo}
}

func (s *AnalyticsServiceImpl) Overview(ctx context.Context) (*model.AnalyticsOverview, error) {
	return s.repo.Overview(ctx)
}

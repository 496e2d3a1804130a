package service

import (
	"context"
	"time"

	"inventory-api/internal/model"
	"inventory-api/internal/repository"
)

type InsightsService interface {
	GetInsights(ctx context.Context, startDate, endDate *time.Time) (*model.Insights, error)
}

type insightsService struct {
	repo     repository.InsightsRepository
	requests repository.RequestRepository
}

func NewInsightsService(repo repository.InsightsRepository, requests repository.RequestRepository) InsightsService {
	return &insightsService{repo: repo, requests: requests}
}

// GetInsights aggregates the dashboard totals. The optional range filters items by purchase date.
func (s *insightsService) GetInsights(ctx context.Context, startDate, endDate *time.Time) (*model.Insights, error) {
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, invalid("endDate is before startDate")
	}
	dr := repository.DateRange{From: startDate, To: endDate}

	categories, err := s.repo.CountCategories(ctx)
	if err != nil {
		return nil, err
	}

	count, priceSum, stockValue, err := s.repo.ItemTotals(ctx, dr)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.repo.QuantityByCategory(ctx, dr)
	if err != nil {
		return nil, err
	}
	if byCategory == nil {
		byCategory = []model.CategoryQuantity{}
	}

	byStatus, err := s.requests.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Insights{
		TotalCategories:          categories,
		TotalInventories:         count,
		TotalPrice:               priceSum,
		TotalStockValue:          stockValue,
		TotalInventoryByCategory: byCategory,
		RequestsByStatus:         byStatus,
		StartDate:                startDate,
		EndDate:                  endDate,
	}, nil
}

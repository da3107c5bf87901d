// File: internal/usecase/stats_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"adobe-subscription-store/internal/domain/model"
	"adobe-subscription-store/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	Totals(ctx context.Context) (customers int, byStatus map[model.OrderStatus]int, err error)
	Revenue(ctx context.Context) (week int64, month int64, year int64, err error)
}

type statsUC struct {
	orders   repository.OrderRepository
	profiles repository.ProfileRepository

	log *zerolog.Logger
}

func NewStatsUseCase(orders repository.OrderRepository, profiles repository.ProfileRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{orders: orders, profiles: profiles, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, map[model.OrderStatus]int, error) {
	customers, err := s.profiles.Count(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, err
	}
	byStatus, err := s.orders.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return 0, nil, err
	}
	return customers, byStatus, nil
}

func (s *statsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	w, err := s.orders.SumRevenueByPeriod(ctx, repository.NoTX, "week")
	if err != nil {
		return 0, 0, 0, err
	}
	m, err := s.orders.SumRevenueByPeriod(ctx, repository.NoTX, "month")
	if err != nil {
		return 0, 0, 0, err
	}
	y, err := s.orders.SumRevenueByPeriod(ctx, repository.NoTX, "year")
	if err != nil {
		return 0, 0, 0, err
	}
	return w, m, y, nil
}

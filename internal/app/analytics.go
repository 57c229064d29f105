package app

import (
	"context"
	"fmt"

	"github.com/transfa/returns-service/internal/domain"
)

func (s *Service) GetReturnAnalytics(ctx context.Context, principal domain.Principal) (*domain.ReturnAnalytics, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	analytics, err := s.repo.GetReturnAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load return analytics: %w", err)
	}
	return analytics, nil
}

func (s *Service) GetCustomerAnalytics(ctx context.Context, principal domain.Principal) (*domain.CustomerAnalytics, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	analytics, err := s.repo.GetCustomerAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer analytics: %w", err)
	}
	return analytics, nil
}

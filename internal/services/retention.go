package services

import (
	"context"
	"time"
)

// RetentionService purges imported orders by import date.
type RetentionService struct {
	repo OrderRepository
}

func NewRetentionService(repo OrderRepository) *RetentionService {
	return &RetentionService{repo: repo}
}

// DeleteRange removes every order imported on a date within the inclusive
// [start, end] range and returns how many rows went away. Zero matches is a
// normal outcome, distinct from a store failure.
func (s *RetentionService) DeleteRange(ctx context.Context, start, end time.Time) (int64, error) {
	return s.repo.DeleteRange(ctx, start, end)
}

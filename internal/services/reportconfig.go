package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/salesdesk/apiserver/internal/store"
)

// DefaultEmbedURL is served when no report link has been configured yet.
const DefaultEmbedURL = "https://app.powerbi.com/view?r=default-report"

// ReportConfigRepository defines persistence for the singleton report link.
type ReportConfigRepository interface {
	Get(ctx context.Context) (string, error)
	Replace(ctx context.Context, link string) error
}

// ReportConfigService manages the embedded-report URL shown to non-admin
// users.
type ReportConfigService struct {
	repo ReportConfigRepository
}

func NewReportConfigService(repo ReportConfigRepository) *ReportConfigService {
	return &ReportConfigService{repo: repo}
}

// GetURL returns the configured link, falling back to DefaultEmbedURL when
// the singleton row does not exist.
func (s *ReportConfigService) GetURL(ctx context.Context) (string, error) {
	link, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DefaultEmbedURL, nil
		}
		return "", err
	}
	return link, nil
}

// SetURL replaces the configured link. Empty or whitespace-only input is
// rejected before any mutation.
func (s *ReportConfigService) SetURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: report link must not be empty", ErrValidation)
	}
	return s.repo.Replace(ctx, url)
}

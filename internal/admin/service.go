// Package admin exposes operator endpoints that span modules: a state
// summary and a full reset of runs, records and the webhook log.
package admin

import (
	"context"
	"log/slog"

	screeningservice "warden/internal/screening/service"
	"warden/pkg/requestcontext"
)

// Screening is the part of the screening service the admin surface needs.
type Screening interface {
	State(ctx context.Context) (*screeningservice.StateSummary, error)
	Reset(ctx context.Context) error
}

// WebhookLog is the emitted-event log.
type WebhookLog interface {
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}

type Service struct {
	screening Screening
	webhooks  WebhookLog
	logger    *slog.Logger
}

func NewService(screening Screening, webhooks WebhookLog, logger *slog.Logger) *Service {
	return &Service{screening: screening, webhooks: webhooks, logger: logger}
}

func (s *Service) State(ctx context.Context) (*StateResponse, error) {
	summary, err := s.screening.State(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.webhooks.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &StateResponse{
		RunCount:         summary.RunCount,
		RecordCount:      summary.RecordCount,
		WatchlistEntries: summary.WatchlistEntries,
		WebhookLogCount:  n,
	}, nil
}

// Reset clears screening data first, then the webhook log. ID counters
// restart at their first values.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.screening.Reset(ctx); err != nil {
		return err
	}
	if err := s.webhooks.Reset(ctx); err != nil {
		s.logger.ErrorContext(ctx, "webhook log reset failed after screening reset",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return err
	}
	return nil
}

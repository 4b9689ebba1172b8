package service

import (
	"context"
	"time"

	"warden/internal/screening/models"
	"warden/pkg/requestcontext"
)

func now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC()
}

func requestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}

func clientIP(ctx context.Context) string {
	return requestcontext.ClientIP(ctx)
}

func clientAgent(ctx context.Context) string {
	return requestcontext.ClientAgent(ctx)
}

// actorOrDefault is the authenticated caller, or the default reviewer for
// unauthenticated deployments.
func actorOrDefault(ctx context.Context) string {
	if actor := requestcontext.Actor(ctx); actor != "" {
		return actor
	}
	return models.DefaultReviewer
}

package testutil

import (
	"net/http"

	"warden/pkg/requestcontext"
)

// WithActor sets the reviewer identity the auth middleware would attach.
func WithActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithRequestID sets the correlation ID normally set by the request middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

package handler

import "warden/internal/webhook/signing"

type EventsResponse struct {
	Count  int             `json:"count"`
	Events []signing.Event `json:"events"`
}

package admin

// StateResponse is the operator view of everything the server holds.
type StateResponse struct {
	RunCount         int `json:"runCount"`
	RecordCount      int `json:"recordCount"`
	WatchlistEntries int `json:"watchlistEntries"`
	WebhookLogCount  int `json:"webhookLogCount"`
}

type ResetResponse struct {
	Success bool `json:"success"`
}

package models

import "warden/internal/watchlist"

// AddressMatchType labels the address compared. Only current addresses are screened.
const AddressMatchType = "Current"

// ListRef names the list file an entry came from.
type ListRef struct {
	ID   string `json:"ID"`
	Name string `json:"Name"`
}

// AddressMatch compares the entity's first address country with the entry's
// country. It is informational and never affects inclusion or ranking.
type AddressMatch struct {
	InputValue string `json:"InputValue"`
	ListValue  string `json:"ListValue"`
	Score      int    `json:"Score"`
	Type       string `json:"Type"`
}

// MatchResult is one watchlist entry that scored at or above the floor.
type MatchResult struct {
	WatchlistEntryID string               `json:"WatchlistEntryId"`
	File             ListRef              `json:"File"`
	Score            int                  `json:"EntityScore"`
	BestName         string               `json:"BestName"`
	EntityType       watchlist.EntityType `json:"EntityType"`
	ReasonListed     string               `json:"ReasonListed"`
	DateListed       string               `json:"DateListed"`
	Country          string               `json:"Country,omitempty"`
	Address          *AddressMatch        `json:"Address,omitempty"`
}

// Package engine screens one entity against a watchlist snapshot.
package engine

import (
	"cmp"
	"slices"

	"warden/internal/screening/models"
	"warden/internal/screening/similarity"
	"warden/internal/watchlist"
)

// Options tunes a screening pass.
type Options struct {
	// MinScore is the inclusive relevance floor for a match.
	MinScore int
}

// Screen scores entity against every entry and returns the entries whose best
// name score (primary name or any alias) reaches opts.MinScore, highest
// first. Entries with equal scores keep their watchlist order.
func Screen(entity models.InputEntity, entries []watchlist.Entry, opts Options) []models.MatchResult {
	name := entity.Name.Resolve()
	addr, hasAddr := entity.PrimaryAddress()

	matches := make([]models.MatchResult, 0)
	for _, e := range entries {
		score, bestName := similarity.BestOf(name, e.Names()...)
		if score < opts.MinScore {
			continue
		}
		m := models.MatchResult{
			WatchlistEntryID: e.ID,
			File:             models.ListRef{ID: e.ListID, Name: e.ListName},
			Score:            score,
			BestName:         bestName,
			EntityType:       e.EntityType,
			ReasonListed:     e.ReasonListed,
			DateListed:       e.DateListed,
			Country:          e.Country,
		}
		if hasAddr {
			m.Address = addressMatch(addr, e.Country)
		}
		matches = append(matches, m)
	}

	slices.SortStableFunc(matches, func(a, b models.MatchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return matches
}

func addressMatch(addr models.Address, country string) *models.AddressMatch {
	score := 0
	if country != "" && addr.Country == country {
		score = 100
	}
	return &models.AddressMatch{
		InputValue: addr.Format(),
		ListValue:  country,
		Score:      score,
		Type:       models.AddressMatchType,
	}
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/screening/models"
	"warden/internal/watchlist"
)

var defaults = Options{MinScore: 25}

func ids(matches []models.MatchResult) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.WatchlistEntryID
	}
	return out
}

func TestScreenExactName(t *testing.T) {
	matches := Screen(models.InputEntity{Name: models.FullName("Mikhail Petrov")}, watchlist.SeedEntries(), defaults)

	require.NotEmpty(t, matches)
	assert.Equal(t, "OFAC-002", matches[0].WatchlistEntryID)
	assert.Equal(t, 100, matches[0].Score)
	assert.Equal(t, "Mikhail Petrov", matches[0].BestName)
	assert.Equal(t, models.ListRef{ID: "OFAC-SDN-2024", Name: "OFAC SDN"}, matches[0].File)
	assert.Equal(t, []string{"OFAC-002", "OFAC-008", "OFAC-003", "EU-004", "OFAC-007"}, ids(matches))
	assert.Nil(t, matches[0].Address, "no address sub-score without an input address")
}

func TestScreenNoMatches(t *testing.T) {
	matches := Screen(models.InputEntity{Name: models.FullName("Jonathan Quincy Appleford-Whitmore")}, watchlist.SeedEntries(), defaults)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestScreenAliasScoresCount(t *testing.T) {
	matches := Screen(models.InputEntity{Name: models.FullName("ATC Holdings")}, watchlist.SeedEntries(), defaults)
	require.NotEmpty(t, matches)
	assert.Equal(t, "OFAC-001", matches[0].WatchlistEntryID)
	assert.Equal(t, 100, matches[0].Score)
	assert.Equal(t, "ATC Holdings", matches[0].BestName)
}

func TestScreenBestNameIsTheWinningAlias(t *testing.T) {
	matches := Screen(models.InputEntity{Name: models.FullName("Ahmad Trade Corp")}, watchlist.SeedEntries(), defaults)
	require.NotEmpty(t, matches)
	assert.Equal(t, "OFAC-001", matches[0].WatchlistEntryID)
	assert.Equal(t, 100, matches[0].Score)
	assert.Equal(t, "Ahmad Trade Corp", matches[0].BestName)
}

func TestScreenNamePartsResolved(t *testing.T) {
	matches := Screen(models.InputEntity{Name: models.NameParts("Viktor", "Volkov")}, watchlist.SeedEntries(), defaults)
	assert.Equal(t, []string{"EU-003", "EU-002", "PEP-002", "EU-004"}, ids(matches))
}

func TestScreenFloorIsInclusiveAndConfigurable(t *testing.T) {
	entity := models.InputEntity{Name: models.FullName("Acme Widgets Inc")}

	atFloor := Screen(entity, watchlist.SeedEntries(), Options{MinScore: 25})
	require.Len(t, atFloor, 1)
	assert.Equal(t, 25, atFloor[0].Score)

	assert.Empty(t, Screen(entity, watchlist.SeedEntries(), Options{MinScore: 26}))

	strict := Screen(models.InputEntity{Name: models.FullName("Mikhail Petrov")}, watchlist.SeedEntries(), Options{MinScore: 41})
	assert.Equal(t, []string{"OFAC-002", "OFAC-008"}, ids(strict))
}

func TestScreenAddressSubScore(t *testing.T) {
	entity := models.InputEntity{
		Name: models.FullName("Mikhail Petrov"),
		Addresses: []models.Address{
			{Street1: "1 Tverskaya St", City: "Moscow", Country: "RU"},
			{City: "Caracas", Country: "VE"},
		},
	}
	matches := Screen(entity, watchlist.SeedEntries(), defaults)

	byID := map[string]models.MatchResult{}
	for _, m := range matches {
		byID[m.WatchlistEntryID] = m
	}
	require.NotNil(t, byID["OFAC-002"].Address)
	assert.Equal(t, models.AddressMatch{InputValue: "1 Tverskaya St, Moscow, RU", ListValue: "RU", Score: 100, Type: "Current"}, *byID["OFAC-002"].Address)
	assert.Equal(t, 0, byID["OFAC-008"].Address.Score, "only the first address is compared")
	assert.Equal(t, 100, byID["OFAC-002"].Score, "address never changes the name score")
}

func TestScreenBlankEntryCountryNeverMatches(t *testing.T) {
	entries := []watchlist.Entry{{ID: "X-1", EntityName: "Acme Holdings"}}
	entity := models.InputEntity{Name: models.FullName("Acme Holdings"), Addresses: []models.Address{{City: "Nowhere"}}}
	matches := Screen(entity, entries, defaults)
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Address.Score)
}

func TestScreenTiesKeepWatchlistOrder(t *testing.T) {
	entries := []watchlist.Entry{
		{ID: "A", EntityName: "Low Score Zzz"},
		{ID: "B", EntityName: "Acme"},
		{ID: "C", EntityName: "acme"},
		{ID: "D", EntityName: "ACME"},
	}
	matches := Screen(models.InputEntity{Name: models.FullName("Acme")}, entries, defaults)
	assert.Equal(t, []string{"B", "C", "D"}, ids(matches))
}

func TestScreenScoresNonIncreasing(t *testing.T) {
	for _, name := range []string{"Volkov Trading", "Hassan Rahmen", "Petrov", "Global Holdings Ltd"} {
		matches := Screen(models.InputEntity{Name: models.FullName(name)}, watchlist.SeedEntries(), defaults)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score, name)
		}
	}
}

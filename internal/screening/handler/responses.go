package handler

import (
	"warden/internal/screening/models"
	"warden/internal/screening/service"
	"warden/internal/watchlist"
)

type DataFilesResponse struct {
	DataFiles []watchlist.DataFile `json:"DataFiles"`
}

type SearchResultsBody struct {
	BlockID             *string                   `json:"BlockID"`
	ClientReference     *string                   `json:"ClientReference"`
	SearchEngineVersion string                    `json:"SearchEngineVersion"`
	Run                 *models.Run               `json:"Run"`
	Records             []*models.ScreeningRecord `json:"Records"`
}

type SearchResponse struct {
	SearchResults SearchResultsBody `json:"SearchResults"`
}

func FromSearchResults(res *service.SearchResults) SearchResponse {
	return SearchResponse{SearchResults: SearchResultsBody{
		BlockID:             nullable(res.BlockID),
		ClientReference:     nullable(res.ClientReference),
		SearchEngineVersion: res.SearchEngineVersion,
		Run:                 res.Run,
		Records:             res.Records,
	}}
}

type RecordsResponse struct {
	Records []*models.ScreeningRecord `json:"Records"`
}

type RunsResponse struct {
	Runs []*models.Run `json:"Runs"`
}

type SetStateResponse struct {
	Success bool                    `json:"Success"`
	Record  *models.ScreeningRecord `json:"Record"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Package watchlist holds the reference entities screened against and the
// catalog of list files they come from.
package watchlist

import "time"

// EntityType distinguishes people from organizations.
type EntityType string

const (
	EntityIndividual EntityType = "Individual"
	EntityBusiness   EntityType = "Business"
)

// Entry is one sanctioned or politically exposed party. Entries are immutable
// once loaded into an Index.
type Entry struct {
	ID           string     `json:"Id"`
	ListID       string     `json:"ListId"`
	ListName     string     `json:"ListName"`
	EntityName   string     `json:"EntityName"`
	EntityType   EntityType `json:"EntityType"`
	Aliases      []string   `json:"Aliases,omitempty"`
	Country      string     `json:"Country,omitempty"`
	ReasonListed string     `json:"ReasonListed"`
	DateListed   string     `json:"DateListed"`
}

// Names returns the primary name followed by every alias.
func (e Entry) Names() []string {
	names := make([]string, 0, 1+len(e.Aliases))
	names = append(names, e.EntityName)
	return append(names, e.Aliases...)
}

// FileType is SDF for standard distributed lists and BDF for bank-defined lists.
type FileType string

const (
	FileStandard    FileType = "SDF"
	FileBankDefined FileType = "BDF"
)

// DataFile describes one list file loaded by the screening engine.
type DataFile struct {
	ID          string    `json:"ID"`
	Name        string    `json:"Name"`
	Type        FileType  `json:"Type"`
	RecordCount int       `json:"RecordCount"`
	LastUpdated time.Time `json:"LastUpdated"`
}

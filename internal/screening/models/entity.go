package models

import (
	"encoding/json"
	"strings"

	dErrors "warden/pkg/domain-errors"
	pstrings "warden/pkg/platform/strings"
)

type nameKind uint8

const (
	nameNone nameKind = iota
	nameFull
	nameParts
)

// NameRepresentation is either a single full name or a first/last pair.
// The zero value is an absent name.
type NameRepresentation struct {
	kind  nameKind
	full  string
	first string
	last  string
}

// FullName represents a name given as one string.
func FullName(full string) NameRepresentation {
	return NameRepresentation{kind: nameFull, full: full}
}

// NameParts represents a name given as separate first and last parts.
func NameParts(first, last string) NameRepresentation {
	return NameRepresentation{kind: nameParts, first: first, last: last}
}

// Resolve returns the display name screened against the watchlist: the full
// name when it is non-blank, otherwise the non-blank parts joined by a space.
func (n NameRepresentation) Resolve() string {
	if n.kind == nameFull && strings.TrimSpace(n.full) != "" {
		return n.full
	}
	return pstrings.JoinNonEmpty(" ", n.first, n.last)
}

// IsBlank reports whether the name resolves to nothing usable.
func (n NameRepresentation) IsBlank() bool {
	return strings.TrimSpace(n.Resolve()) == ""
}

type nameJSON struct {
	Full  string `json:"Full,omitempty"`
	First string `json:"First,omitempty"`
	Last  string `json:"Last,omitempty"`
}

// MarshalJSON writes every populated field, so a full name decoded together
// with fallback parts survives a round trip.
func (n NameRepresentation) MarshalJSON() ([]byte, error) {
	if n.kind == nameNone {
		return []byte("{}"), nil
	}
	return json.Marshal(nameJSON{Full: n.full, First: n.first, Last: n.last})
}

// UnmarshalJSON accepts {"Full": ...} or {"First": ..., "Last": ...}. When
// both shapes are present the full name wins and the parts are kept as a
// fallback for a blank full name.
func (n *NameRepresentation) UnmarshalJSON(data []byte) error {
	var raw nameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Full != "":
		*n = NameRepresentation{kind: nameFull, full: raw.Full, first: raw.First, last: raw.Last}
	case raw.First != "" || raw.Last != "":
		*n = NameParts(raw.First, raw.Last)
	default:
		*n = NameRepresentation{}
	}
	return nil
}

// Address is a postal address as extracted from a payment instruction.
type Address struct {
	Street1       string `json:"Street1,omitempty"`
	City          string `json:"City,omitempty"`
	StateProvince string `json:"StateProvince,omitempty"`
	PostalCode    string `json:"PostalCode,omitempty"`
	Country       string `json:"Country,omitempty"`
}

// Format joins the non-empty parts with ", ".
func (a Address) Format() string {
	return pstrings.JoinNonEmpty(", ", a.Street1, a.City, a.StateProvince, a.PostalCode, a.Country)
}

// Identifier is a document or registration number.
type Identifier struct {
	Type   string `json:"Type"`
	Number string `json:"Number"`
}

// InputEntity is one party to screen.
type InputEntity struct {
	Name      NameRepresentation `json:"Name"`
	Addresses []Address          `json:"Addresses,omitempty"`
	IDs       []Identifier       `json:"IDs,omitempty"`
}

// Validate rejects entities that cannot be screened.
func (e InputEntity) Validate() error {
	if e.Name.IsBlank() {
		return dErrors.New(dErrors.CodeInvalidInput, "entity has no usable name")
	}
	return nil
}

// PrimaryAddress returns the first address, if any.
func (e InputEntity) PrimaryAddress() (Address, bool) {
	if len(e.Addresses) == 0 {
		return Address{}, false
	}
	return e.Addresses[0], true
}

package models

import "strings"

// OfferType tags whether the tenant rents the whole place or a room in it.
type OfferType string

const (
	OfferTypeEntirePlace OfferType = "entire_place"
	OfferTypeSharedRoom  OfferType = "shared_room"
)

var OfferTypeMapping = map[string]OfferType{
	"entire_place": OfferTypeEntirePlace,
	"entire place": OfferTypeEntirePlace,
	"entireplace":  OfferTypeEntirePlace,
	"shared_room":  OfferTypeSharedRoom,
	"shared room":  OfferTypeSharedRoom,
	"sharedroom":   OfferTypeSharedRoom,
}

var OfferTypeDisplayNames = map[OfferType]string{
	OfferTypeEntirePlace: "Entire place",
	OfferTypeSharedRoom:  "Shared room",
}

func IsValidOfferType(raw string) bool {
	_, ok := OfferTypeMapping[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// ParseOfferType maps the loosely spelled type tags found in documents.
// Unknown tags fall back to a shared room, the more common listing.
func ParseOfferType(raw string) OfferType {
	if t, ok := OfferTypeMapping[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return OfferTypeSharedRoom
}

func (t OfferType) DisplayName() string {
	if name, ok := OfferTypeDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

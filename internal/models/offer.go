package models

import "time"

// Offer is a time-bounded availability window for a property.
type Offer struct {
	ID                string    `json:"id"`
	DocumentID        string    `json:"document_id"`
	Key               string    `json:"key"`
	PropertyID        string    `json:"id_property"`
	InitialDate       time.Time `json:"initial_date"`
	FinalDate         time.Time `json:"final_date"`
	IsActive          bool      `json:"is_active"`
	NumBaths          int       `json:"num_baths"`
	NumBeds           int       `json:"num_beds"`
	NumRooms          int       `json:"num_rooms"`
	OnlyAndes         bool      `json:"only_andes"`
	PricePerMonth     float64   `json:"price_per_month"`
	RoommatesQuantity int       `json:"roommates_quantity"`
	Type              OfferType `json:"type"`
	UserID            string    `json:"user_id"`
	Views             int       `json:"views"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Property is the physical listing an offer points at.
type Property struct {
	ID                string   `json:"id"`
	Address           string   `json:"address"`
	ComplexName       string   `json:"complex_name"`
	Description       string   `json:"description"`
	Location          Location `json:"location"`
	Photos            []string `json:"photos"`
	Title             string   `json:"title"`
	MinutesFromCampus int      `json:"minutes_from_campus"`
}

// OfferWithProperty is one resolved offer→property join.
type OfferWithProperty struct {
	ID       string   `json:"id"`
	Offer    Offer    `json:"offer"`
	Property Property `json:"property"`
}

// OfferID builds the composite identifier of an offer nested in a document.
func OfferID(documentID, key string) string {
	return documentID + "_" + key
}

func (o Offer) Equal(other Offer) bool {
	return o.ID == other.ID &&
		o.DocumentID == other.DocumentID &&
		o.Key == other.Key &&
		o.PropertyID == other.PropertyID &&
		o.InitialDate.Equal(other.InitialDate) &&
		o.FinalDate.Equal(other.FinalDate) &&
		o.IsActive == other.IsActive &&
		o.NumBaths == other.NumBaths &&
		o.NumBeds == other.NumBeds &&
		o.NumRooms == other.NumRooms &&
		o.OnlyAndes == other.OnlyAndes &&
		o.PricePerMonth == other.PricePerMonth &&
		o.RoommatesQuantity == other.RoommatesQuantity &&
		o.Type == other.Type &&
		o.UserID == other.UserID &&
		o.Views == other.Views
}

func (p Property) Equal(other Property) bool {
	if p.ID != other.ID ||
		p.Address != other.Address ||
		p.ComplexName != other.ComplexName ||
		p.Description != other.Description ||
		p.Location != other.Location ||
		p.Title != other.Title ||
		p.MinutesFromCampus != other.MinutesFromCampus ||
		len(p.Photos) != len(other.Photos) {
		return false
	}
	for i := range p.Photos {
		if p.Photos[i] != other.Photos[i] {
			return false
		}
	}
	return true
}

// Equal compares the whole tuple; two joins are equal only if every nested
// field matches.
func (r OfferWithProperty) Equal(other OfferWithProperty) bool {
	return r.ID == other.ID && r.Offer.Equal(other.Offer) && r.Property.Equal(other.Property)
}

// EqualRecords compares two record sequences element-wise.
func EqualRecords(a, b []OfferWithProperty) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

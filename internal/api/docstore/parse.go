package docstore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"campus-rentals/internal/models"

	"github.com/tidwall/gjson"
)

// ParseDocuments reads a collection listing:
// {"documents":[{"id":"...","fields":{"0":{...},"1":{...}}}]}
func ParseDocuments(data []byte) ([]Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid document payload")
	}

	docs := gjson.GetBytes(data, "documents")
	if !docs.IsArray() {
		return nil, fmt.Errorf("payload has no documents array")
	}

	var out []Document
	docs.ForEach(func(_, doc gjson.Result) bool {
		out = append(out, Document{
			ID:     doc.Get("id").String(),
			Fields: doc.Get("fields"),
		})
		return true
	})

	return out, nil
}

// NormalizeKey renders a foreign key that may be stored as a number or as a
// string in one canonical string form: 5, 5.0, "5" and " 05 " all become "5".
func NormalizeKey(v gjson.Result) (string, bool) {
	switch v.Type {
	case gjson.Number:
		return formatNumber(v.Num), true
	case gjson.String:
		s := NormalizeKeyString(v.Str)
		return s, s != ""
	default:
		return "", false
	}
}

// NormalizeKeyString is NormalizeKey for keys already read as text.
func NormalizeKeyString(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return formatNumber(f)
	}
	return s
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseTimestamp accepts {_seconds,_nanoseconds} and {seconds,nanos} objects,
// RFC 3339 strings and unix seconds. Anything else yields now and false.
func ParseTimestamp(v gjson.Result, now time.Time) (time.Time, bool) {
	switch {
	case v.IsObject():
		secs := v.Get("_seconds")
		if !secs.Exists() {
			secs = v.Get("seconds")
		}
		nanos := v.Get("_nanoseconds")
		if !nanos.Exists() {
			nanos = v.Get("nanos")
		}
		if secs.Type == gjson.Number {
			return time.Unix(secs.Int(), nanos.Int()).UTC(), true
		}
	case v.Type == gjson.String:
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.Str)); err == nil {
			return t, true
		}
	case v.Type == gjson.Number:
		return time.Unix(v.Int(), 0).UTC(), true
	}
	return now, false
}

// ParseOffers decodes every offer nested in doc.
func ParseOffers(doc Document, now time.Time) []Decoded[models.Offer] {
	var out []Decoded[models.Offer]

	if !doc.Fields.IsObject() {
		return append(out, skipped[models.Offer](doc.ID, "", "document has no fields"))
	}

	doc.Fields.ForEach(func(k, v gjson.Result) bool {
		out = append(out, parseOffer(doc.ID, k.String(), v, now))
		return true
	})

	return out
}

func parseOffer(documentID, rawKey string, v gjson.Result, now time.Time) Decoded[models.Offer] {
	key := NormalizeKeyString(rawKey)
	if key == "" {
		return skipped[models.Offer](documentID, rawKey, "empty record key")
	}
	if !v.IsObject() {
		return skipped[models.Offer](documentID, key, "record is not an object")
	}

	propertyID, ok := NormalizeKey(v.Get("idProperty"))
	if !ok {
		return skipped[models.Offer](documentID, key, "missing idProperty")
	}

	price := v.Get("price_per_month").Float()
	if price < 0 {
		return skipped[models.Offer](documentID, key, "negative price")
	}

	initial, _ := ParseTimestamp(v.Get("initial_date"), now)
	final, _ := ParseTimestamp(v.Get("final_date"), now)

	userID, _ := NormalizeKey(v.Get("user_id"))

	return valid(documentID, key, models.Offer{
		ID:                models.OfferID(documentID, key),
		DocumentID:        documentID,
		Key:               key,
		PropertyID:        propertyID,
		InitialDate:       initial,
		FinalDate:         final,
		IsActive:          v.Get("is_active").Bool(),
		NumBaths:          int(v.Get("num_baths").Int()),
		NumBeds:           int(v.Get("num_beds").Int()),
		NumRooms:          int(v.Get("num_rooms").Int()),
		OnlyAndes:         v.Get("only_andes").Bool(),
		PricePerMonth:     price,
		RoommatesQuantity: int(v.Get("roommates_quantity").Int()),
		Type:              models.ParseOfferType(v.Get("type").String()),
		UserID:            userID,
		Views:             int(v.Get("views").Int()),
	})
}

// ParseProperties decodes every property nested in doc. The nested key is
// the property identifier offers refer to.
func ParseProperties(doc Document) []Decoded[models.Property] {
	var out []Decoded[models.Property]

	if !doc.Fields.IsObject() {
		return append(out, skipped[models.Property](doc.ID, "", "document has no fields"))
	}

	doc.Fields.ForEach(func(k, v gjson.Result) bool {
		out = append(out, parseProperty(doc.ID, k.String(), v))
		return true
	})

	return out
}

func parseProperty(documentID, rawKey string, v gjson.Result) Decoded[models.Property] {
	key := NormalizeKeyString(rawKey)
	if key == "" {
		return skipped[models.Property](documentID, rawKey, "empty record key")
	}
	if !v.IsObject() {
		return skipped[models.Property](documentID, key, "record is not an object")
	}

	return valid(documentID, key, models.Property{
		ID:                key,
		Address:           v.Get("address").String(),
		ComplexName:       v.Get("complex_name").String(),
		Description:       v.Get("description").String(),
		Location:          parseLocation(v.Get("location")),
		Photos:            parsePhotos(v.Get("photos")),
		Title:             v.Get("title").String(),
		MinutesFromCampus: int(v.Get("minutes_from_campus").Int()),
	})
}

func parseLocation(v gjson.Result) models.Location {
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 2 {
			return models.Location{Latitude: arr[0].Float(), Longitude: arr[1].Float()}
		}
		return models.Location{}
	}

	lat := v.Get("_latitude")
	if !lat.Exists() {
		lat = v.Get("latitude")
	}
	lng := v.Get("_longitude")
	if !lng.Exists() {
		lng = v.Get("longitude")
	}
	return models.Location{Latitude: lat.Float(), Longitude: lng.Float()}
}

func parsePhotos(v gjson.Result) []string {
	switch {
	case v.IsArray():
		var photos []string
		for _, p := range v.Array() {
			if s := strings.TrimSpace(p.String()); s != "" {
				photos = append(photos, s)
			}
		}
		return photos
	case v.Type == gjson.String && strings.TrimSpace(v.Str) != "":
		return []string{strings.TrimSpace(v.Str)}
	default:
		return nil
	}
}

package offers

import (
	"time"

	"campus-rentals/internal/models"
)

// Evaluator applies FilterCriteria to joined records. Dates are compared
// at calendar-day granularity in loc.
type Evaluator struct {
	loc *time.Location
}

func NewEvaluator(loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{loc: loc}
}

// Matches reports whether r satisfies every predicate of c.
func (e *Evaluator) Matches(r models.OfferWithProperty, c models.FilterCriteria) bool {
	start := models.StartOfDay(c.StartDate, e.loc)
	end := models.StartOfDay(c.EndDate, e.loc)
	available := models.StartOfDay(r.Offer.InitialDate, e.loc)
	until := models.StartOfDay(r.Offer.FinalDate, e.loc)

	if start.Before(available) || end.After(until) {
		return false
	}

	price := r.Offer.PricePerMonth
	if price < c.MinPrice || price > c.MaxPrice {
		return false
	}

	return r.Property.MinutesFromCampus <= c.MaxMinutesFromCampus
}

// Apply returns the matching records in their original order.
func (e *Evaluator) Apply(records []models.OfferWithProperty, c models.FilterCriteria) []models.OfferWithProperty {
	out := make([]models.OfferWithProperty, 0, len(records))
	for _, r := range records {
		if e.Matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

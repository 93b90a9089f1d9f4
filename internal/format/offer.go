package format

import (
	"fmt"
	"strconv"
	"strings"

	"campus-rentals/internal/models"
)

const dateLayout = "02.01.2006"

// Offer renders one joined record as a text card.
func Offer(rec models.OfferWithProperty, saved bool) string {
	var sb strings.Builder

	title := rec.Property.Title
	if title == "" {
		title = rec.Property.ComplexName
	}
	if saved {
		sb.WriteString("★ ")
	}
	sb.WriteString(fmt.Sprintf("%s\n", title))

	if rec.Property.Address != "" {
		sb.WriteString(fmt.Sprintf("  Address: %s\n", rec.Property.Address))
	}

	sb.WriteString(fmt.Sprintf("  Price: %s / month\n", Price(rec.Offer.PricePerMonth)))
	sb.WriteString(fmt.Sprintf("  Type: %s\n", rec.Offer.Type.DisplayName()))
	sb.WriteString(fmt.Sprintf("  Available: %s - %s\n",
		rec.Offer.InitialDate.Format(dateLayout),
		rec.Offer.FinalDate.Format(dateLayout),
	))
	sb.WriteString(fmt.Sprintf("  %d min from campus\n", rec.Property.MinutesFromCampus))

	// Rooms
	if rec.Offer.NumRooms > 0 || rec.Offer.NumBaths > 0 {
		sb.WriteString(fmt.Sprintf("  %d rooms, %d baths\n", rec.Offer.NumRooms, rec.Offer.NumBaths))
	}

	if rec.Offer.OnlyAndes {
		sb.WriteString("  Andes community only\n")
	}

	return sb.String()
}

// Price groups thousands with dots: 1250000 becomes $1.250.000.
func Price(v float64) string {
	whole := strconv.FormatInt(int64(v), 10)

	var sb strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}

	return "$" + sb.String()
}

// List renders the browse list with a header line.
func List(records []models.OfferWithProperty, saved map[string]bool, fromCache bool) string {
	var sb strings.Builder

	source := "live"
	if fromCache {
		source = "cached"
	}
	sb.WriteString(fmt.Sprintf("Offers found: %d (%s)\n\n", len(records), source))

	if len(records) == 0 {
		sb.WriteString("No offers match the current filters.\n")
		return sb.String()
	}

	for i, rec := range records {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, Offer(rec, saved[rec.ID])))
	}

	return sb.String()
}

// Criteria renders the active filter criteria.
func Criteria(c models.FilterCriteria) string {
	if !c.Applied {
		return "Filters: none\n"
	}

	return fmt.Sprintf("Filters: %s - %s, %s - %s, up to %d min from campus\n",
		c.StartDate.Format(dateLayout),
		c.EndDate.Format(dateLayout),
		Price(c.MinPrice),
		Price(c.MaxPrice),
		c.MaxMinutesFromCampus,
	)
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	in := time.Date(2024, 3, 11, 2, 30, 0, 0, time.UTC)

	got := StartOfDay(in, bogota)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, bogota), got)
	assert.Equal(t, got, StartOfDay(got, bogota))
}

func TestDefaultCriteria(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	c := DefaultCriteria(now)

	assert.Equal(t, now, c.StartDate)
	assert.Equal(t, now.AddDate(0, 0, 1), c.EndDate)
	assert.Equal(t, float64(DefaultMinPrice), c.MinPrice)
	assert.Equal(t, float64(DefaultMaxPrice), c.MaxPrice)
	assert.Equal(t, DefaultMaxMinutesFromCampus, c.MaxMinutesFromCampus)
	assert.False(t, c.Applied)
}

func TestCriteriaSettingsRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	c := FilterCriteria{
		StartDate:            time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:              time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		MinPrice:             850000.5,
		MaxPrice:             1200000,
		MaxMinutesFromCampus: 20,
		Applied:              true,
	}

	assert.Equal(t, c, CriteriaFromSettings(c.Settings(), now, time.UTC))
}

func TestCriteriaFromSettingsKeepsDefaultsForBadValues(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	got := CriteriaFromSettings(map[string]string{
		SettingStartDate:  "next week",
		SettingMinPrice:   "cheap",
		SettingMaxMinutes: "15",
		SettingApplied:    "maybe",
	}, now, time.UTC)

	want := DefaultCriteria(now)
	want.MaxMinutesFromCampus = 15
	assert.Equal(t, want, got)
}

func TestParseOfferType(t *testing.T) {
	tests := []struct {
		in   string
		want OfferType
	}{
		{"entire_place", OfferTypeEntirePlace},
		{" Entire_Place ", OfferTypeEntirePlace},
		{"shared_room", OfferTypeSharedRoom},
		{"", OfferTypeSharedRoom},
		{"castle", OfferTypeSharedRoom},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseOfferType(tt.in), "input %q", tt.in)
	}
}

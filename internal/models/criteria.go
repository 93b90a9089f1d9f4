package models

import (
	"strconv"
	"time"
)

const (
	DefaultMinPrice             = 0
	DefaultMaxPrice             = 10_000_000
	DefaultMaxMinutesFromCampus = 30

	criteriaDateLayout = "2006-01-02"
)

// Setting keys under which criteria are persisted.
const (
	SettingStartDate  = "start_date"
	SettingEndDate    = "end_date"
	SettingMinPrice   = "min_price"
	SettingMaxPrice   = "max_price"
	SettingMaxMinutes = "max_minutes"
	SettingApplied    = "applied"
)

// FilterCriteria narrows the displayed offers.
type FilterCriteria struct {
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	MinPrice             float64   `json:"min_price"`
	MaxPrice             float64   `json:"max_price"`
	MaxMinutesFromCampus int       `json:"max_minutes_from_campus"`
	Applied              bool      `json:"applied"`
}

// CriteriaSetting is one persisted criteria value.
type CriteriaSetting struct {
	ProfileID   string    `db:"profile_id"`
	FilterType  string    `db:"filter_type"`
	FilterValue string    `db:"filter_value"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func DefaultCriteria(now time.Time) FilterCriteria {
	return FilterCriteria{
		StartDate:            now,
		EndDate:              now.AddDate(0, 0, 1),
		MinPrice:             DefaultMinPrice,
		MaxPrice:             DefaultMaxPrice,
		MaxMinutesFromCampus: DefaultMaxMinutesFromCampus,
		Applied:              false,
	}
}

// StartOfDay drops the time of day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Settings flattens the criteria into persisted key/value pairs.
func (c FilterCriteria) Settings() map[string]string {
	return map[string]string{
		SettingStartDate:  c.StartDate.Format(criteriaDateLayout),
		SettingEndDate:    c.EndDate.Format(criteriaDateLayout),
		SettingMinPrice:   strconv.FormatFloat(c.MinPrice, 'f', -1, 64),
		SettingMaxPrice:   strconv.FormatFloat(c.MaxPrice, 'f', -1, 64),
		SettingMaxMinutes: strconv.Itoa(c.MaxMinutesFromCampus),
		SettingApplied:    strconv.FormatBool(c.Applied),
	}
}

// CriteriaFromSettings rebuilds criteria from persisted values. Missing or
// unparsable values keep their defaults.
func CriteriaFromSettings(settings map[string]string, now time.Time, loc *time.Location) FilterCriteria {
	if loc == nil {
		loc = time.Local
	}
	c := DefaultCriteria(now)

	if v, ok := settings[SettingStartDate]; ok {
		if t, err := time.ParseInLocation(criteriaDateLayout, v, loc); err == nil {
			c.StartDate = t
		}
	}
	if v, ok := settings[SettingEndDate]; ok {
		if t, err := time.ParseInLocation(criteriaDateLayout, v, loc); err == nil {
			c.EndDate = t
		}
	}
	if v, ok := settings[SettingMinPrice]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinPrice = f
		}
	}
	if v, ok := settings[SettingMaxPrice]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MaxPrice = f
		}
	}
	if v, ok := settings[SettingMaxMinutes]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxMinutesFromCampus = n
		}
	}
	if v, ok := settings[SettingApplied]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Applied = b
		}
	}

	return c
}

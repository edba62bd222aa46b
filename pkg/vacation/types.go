// Package vacation holds the vacation planner's domain records and the typed
// caches, selection state and cache/source flows built on top of pkg/cache.
package vacation

import (
	"encoding/json"
	"sort"
	"time"
)

// ActivityType identifies which details block an Activity carries.
type ActivityType int

const (
	Accommodation ActivityType = iota
	Flight
	POI
	Restaurant
)

// String returns the display name. Unknown values display as Accommodation.
func (t ActivityType) String() string {
	switch t {
	case Flight:
		return "Flight"
	case POI:
		return "POI"
	case Restaurant:
		return "Restaurant"
	default:
		return "Accommodation"
	}
}

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type AccommodationDetails struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Booking     string      `json:"booking"`
	CheckIn     string      `json:"check_in"`
	Coordinates Coordinates `json:"coordinates"`
}

type FlightDetails struct {
	Name          string `json:"name"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	CheckIn       string `json:"check_in"`
	Gate          string `json:"gate"`
	Terminal      string `json:"terminal"`
	Flight        string `json:"flight"`
}

type POIDetails struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Notes       string      `json:"notes"`
}

type RestaurantDetails struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Address     string      `json:"address"`
}

// Activity is one entry on a day's timeline. Exactly one details block is
// expected to be set, matching ActivityType.
type Activity struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	StartTime     string                `json:"start_time"`
	EndTime       string                `json:"end_time"`
	ActivityType  ActivityType          `json:"activity_type"`
	Accommodation *AccommodationDetails `json:"accommodation,omitempty"`
	Flight        *FlightDetails        `json:"flight,omitempty"`
	POI           *POIDetails           `json:"poi,omitempty"`
	Restaurant    *RestaurantDetails    `json:"restaurant,omitempty"`
}

// Day groups the activities planned for one date of a vacation.
type Day struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

// MarshalJSON always encodes activities as an array, never null.
func (d Day) MarshalJSON() ([]byte, error) {
	type plainDay Day
	if d.Activities == nil {
		d.Activities = []Activity{}
	}
	return json.Marshal(plainDay(d))
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortDays orders days by date, earliest first. Days whose date cannot be
// parsed keep their relative order after all dated days.
func SortDays(days []Day) {
	sort.SliceStable(days, func(i, j int) bool {
		ti, okI := parseDate(days[i].Date)
		tj, okJ := parseDate(days[j].Date)
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI:
			return true
		default:
			return false
		}
	})
}

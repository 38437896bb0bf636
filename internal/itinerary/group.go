// Package itinerary projects a trip's flat child collections into the nested
// groupings the client displays. Everything here is pure: no I/O, no state,
// identical output for identical input.
package itinerary

import (
	"sort"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// DayGroup is one calendar day of the itinerary, its stages grouped by
// destination.
type DayGroup struct {
	// Date is the group key in "YYYY-MM-DD" form.
	Date         string       `json:"date"`
	Destinations []StageGroup `json:"destinations"`
}

// StageGroup holds the stages of one destination, in insertion order.
type StageGroup struct {
	Destination string         `json:"destination"`
	Stages      []domain.Stage `json:"stages"`
}

// AccommodationGroup holds the accommodations of one destination, in
// insertion order.
type AccommodationGroup struct {
	Destination    string                 `json:"destination"`
	Accommodations []domain.Accommodation `json:"accommodations"`
}

// GroupStagesByDateThenDestination groups stages first by date, then by
// destination. Days are ordered ascending — lexicographic comparison is
// chronological because the date format is zero-padded. Destinations within
// a day are ordered ascending by case-sensitive comparison. Stages within a
// leaf keep their relative input order; nothing is re-sorted, dropped, or
// duplicated. An empty destination is a valid group key.
func GroupStagesByDateThenDestination(stages []domain.Stage) []DayGroup {
	byDate := make(map[string]map[string][]domain.Stage)
	for _, stage := range stages {
		byDest, ok := byDate[stage.Date]
		if !ok {
			byDest = make(map[string][]domain.Stage)
			byDate[stage.Date] = byDest
		}
		byDest[stage.Destination] = append(byDest[stage.Destination], stage)
	}

	groups := make([]DayGroup, 0, len(byDate))
	for date, byDest := range byDate {
		day := DayGroup{Date: date, Destinations: make([]StageGroup, 0, len(byDest))}
		for dest, leaf := range byDest {
			day.Destinations = append(day.Destinations, StageGroup{Destination: dest, Stages: leaf})
		}
		sort.Slice(day.Destinations, func(i, j int) bool {
			return day.Destinations[i].Destination < day.Destinations[j].Destination
		})
		groups = append(groups, day)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date < groups[j].Date
	})
	return groups
}

// GroupAccommodationsByDestination groups accommodations by destination,
// keys ordered ascending by case-sensitive comparison, leaf order equal to
// input order.
func GroupAccommodationsByDestination(accommodations []domain.Accommodation) []AccommodationGroup {
	byDest := make(map[string][]domain.Accommodation)
	for _, acc := range accommodations {
		byDest[acc.Destination] = append(byDest[acc.Destination], acc)
	}

	groups := make([]AccommodationGroup, 0, len(byDest))
	for dest, leaf := range byDest {
		groups = append(groups, AccommodationGroup{Destination: dest, Accommodations: leaf})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Destination < groups[j].Destination
	})
	return groups
}

package handler

import (
	"net/http"

	"github.com/tripfolio/tripfolio/backend/internal/itinerary"
)

// itineraryResponse is the display-ready projection of a trip's children.
type itineraryResponse struct {
	Days           []itineraryDay                 `json:"days"`
	Accommodations []itinerary.AccommodationGroup `json:"accommodations"`
}

// itineraryDay decorates a day group with its localized heading.
type itineraryDay struct {
	itinerary.DayGroup
	Label string `json:"label"`
}

// GetItinerary handles GET /trips/{tripID}/itinerary, returning the stages
// grouped by date then destination and the accommodations grouped by
// destination. The optional ?locale= parameter (default "it") localizes the
// day headings.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), owner, tripID)
	if err != nil {
		writeError(w, err)
		return
	}

	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = "it"
	}

	groups := itinerary.GroupStagesByDateThenDestination(trip.Stages)
	days := make([]itineraryDay, len(groups))
	for i, g := range groups {
		days[i] = itineraryDay{
			DayGroup: g,
			Label:    itinerary.FormatGroupDateLabel(g.Date, locale),
		}
	}

	writeJSON(w, http.StatusOK, itineraryResponse{
		Days:           days,
		Accommodations: itinerary.GroupAccommodationsByDestination(trip.Accommodations),
	})
}

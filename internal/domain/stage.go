package domain

// GeoPoint is a resolved map location. It is produced by the client's
// geocoding collaborator and stored as-is; this backend never geocodes.
type GeoPoint struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Stage is a single-day itinerary point within a trip.
//
// Date is a calendar day in "YYYY-MM-DD" form, not a timestamp: the day the
// user picked must survive round-trips unchanged regardless of client and
// server timezones. Destination is a free-text label; it is not required to
// appear in the parent trip's Destinations list.
type Stage struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Destination string   `json:"destination"`
	Location    GeoPoint `json:"location"`
	Date        string   `json:"date"`
	Description string   `json:"description,omitempty"`
}

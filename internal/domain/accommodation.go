package domain

// Accommodation is a date-ranged lodging entry within a trip.
// ID is omitted from the wire form when empty because legacy records were
// written without one; everything created through this backend gets an ID.
type Accommodation struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Destination string   `json:"destination"`
	Location    GeoPoint `json:"location"`
	StartDate   string   `json:"startDate"` // "YYYY-MM-DD", check-in
	EndDate     string   `json:"endDate"`   // "YYYY-MM-DD", check-out
	Link        string   `json:"link,omitempty"`
}

package domain

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationInfo is a resolved geographic reference returned by the geo
// collaborator. Confidence is 0-100; Source names the resolver that
// produced the candidate.
type LocationInfo struct {
	Country     string       `json:"country"`
	State       string       `json:"state,omitempty"`
	District    string       `json:"district,omitempty"`
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Confidence  int          `json:"confidence"`
	Source      string       `json:"source,omitempty"`
}

// Contact is a CRM contact record. CRM contacts are read-mostly: once
// created through the adapter they are never updated by this system.
type Contact struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
	Title        string `json:"title,omitempty"`
}

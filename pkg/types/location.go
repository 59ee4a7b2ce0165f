package types

// Location is a candidate place being scored. The ID is assigned by the store
// on creation and is never reused.
type Location struct {
	ID        int64   `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Address   string  `json:"address" yaml:"address"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// NewLocation carries the caller-supplied fields for creating a location.
type NewLocation struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationChanges is a partial update. A nil field is left untouched.
type LocationChanges struct {
	Name      *string  `json:"name,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// LocationView is the flat read shape: a location with every score recorded
// for it, keyed by criterion ID. Criteria is never nil.
type LocationView struct {
	Location
	Criteria map[string]int `json:"criteria" yaml:"criteria"`
}

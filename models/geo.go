package models

// Address is a reverse-geocoded place.
type Address struct {
	DisplayName string  `json:"displayName"`
	Road        string  `json:"road,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	Postcode    string  `json:"postcode,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"countryCode,omitempty"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

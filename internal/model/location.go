package model

// LocationResolution is the canonical form of a free-text location.
// Either Cities or State is populated; Area narrows a city search to a locality.
type LocationResolution struct {
	Cities []string `json:"cities,omitempty"`
	State  *string  `json:"state,omitempty"`
	Area   *string  `json:"area,omitempty"`
}

// Empty reports whether the resolution carries nothing usable
func (r LocationResolution) Empty() bool {
	return len(r.Cities) == 0 && (r.State == nil || *r.State == "")
}

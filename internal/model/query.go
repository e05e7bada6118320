package model

// WarehouseFilters represents structured warehouse search filters.
// A nil field imposes no constraint.
type WarehouseFilters struct {
	Cities             []string `json:"cities,omitempty"`
	State              *string  `json:"state,omitempty"`
	SizeMin            *int     `json:"min_sqft,omitempty"`
	SizeMax            *int     `json:"max_sqft,omitempty"`
	RateMin            *int     `json:"min_rate_per_sqft,omitempty"`
	RateMax            *int     `json:"max_rate_per_sqft,omitempty"`
	WarehouseType      *string  `json:"warehouse_type,omitempty"`
	Compliances        *string  `json:"compliances,omitempty"`
	MinDocks           *int     `json:"min_docks,omitempty"`
	MinClearHeight     *int     `json:"min_clear_height,omitempty"`
	Availability       *string  `json:"availability,omitempty"`
	Zone               *string  `json:"zone,omitempty"`
	IsBroker           *bool    `json:"is_broker,omitempty"`
	FireNOCRequired    bool     `json:"fire_noc_required,omitempty"`
	LandTypeIndustrial bool     `json:"land_type_industrial,omitempty"`
}

// SearchLogEntry is one row in search_logs
type SearchLogEntry struct {
	Filters        *WarehouseFilters `json:"filters"`
	Page           int               `json:"page"`
	ResultCount    int               `json:"result_count"`
	WarehouseIDs   []int64           `json:"warehouse_ids"`
	ResponseTimeMs int               `json:"response_time_ms"`
}

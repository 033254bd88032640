package api

// NearbyHospital is a hospital annotated with a formatted distance when
// the request carried coordinates.
// swagger:model api.NearbyHospital
type NearbyHospital struct {
	HospitalResponse
	Distance string `json:"distance,omitempty" example:"3.8 km"`
}

// NearbyResponse is the nearby-search envelope. Fallback marks a degraded
// result (random sample, no distance data) and Message explains it.
// swagger:model api.NearbyResponse
type NearbyResponse struct {
	Results  []NearbyHospital `json:"results"`
	Fallback bool             `json:"fallback"`
	Message  string           `json:"message,omitempty"`
}

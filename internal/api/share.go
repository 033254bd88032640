package api

// SearchParams is the composable hospital filter shared by /search,
// /share and /export.
type SearchParams struct {
	Address string `json:"address" query:"address"`
	City    string `json:"city" query:"city"`
	State   string `json:"state" query:"state"`
}

// swagger:model api.ShareRequest
type ShareRequest struct {
	SearchParams SearchParams `json:"searchParams"`
}

// swagger:model api.ShareResponse
type ShareResponse struct {
	ShareableLink string `json:"shareableLink" example:"9f1b2c"`
}

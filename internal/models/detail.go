package models

// DetailResponse is the generic body for messages and errors
// swagger:model DetailResponse
type DetailResponse struct {
	// Human readable message
	// example: Invalid email or password.
	Detail string `json:"detail"`
}

// IndexResponse is returned by the health endpoint
// swagger:model IndexResponse
type IndexResponse struct {
	// example: The setup was successful
	Success string `json:"Success"`
}

package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

type QueueResponse struct {
	Enabled bool  `json:"enabled"`
	Queued  int64 `json:"queued" example:"0"`
}

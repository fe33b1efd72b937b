package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Backend string `json:"backend"`
}

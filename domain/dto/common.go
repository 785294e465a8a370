package dto

type IDRequest struct {
	ID uint `json:"id" validate:"required" params:"id"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	App      string `json:"app"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Events   string `json:"events"`
}

package dto

// SeedResponse reports how many demo samples were written
type SeedResponse struct {
	Count int `json:"count"`
}

// ClearResponse reports how many samples were removed
type ClearResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

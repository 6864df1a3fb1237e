package dto

import "bioez-be/internal/entity"

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}

type SearchResponse struct {
	Query     string                 `json:"query"`
	Databases []entity.DatabaseState `json:"databases"`
}

type DatabaseListResponse struct {
	Databases []string `json:"databases"`
}

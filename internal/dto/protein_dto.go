package dto

import (
	"time"

	"bioez-be/internal/entity"
)

type PredictRequest struct {
	IncludeDomains      *bool    `json:"includeDomains"`
	IncludeStructure    *bool    `json:"includeStructure"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold" validate:"omitempty,min=0,max=100"`
}

// ToOptions returns nil when no option was given so the prediction request
// carries no options object.
func (r PredictRequest) ToOptions() *entity.PredictionOptions {
	if r.IncludeDomains == nil && r.IncludeStructure == nil && r.ConfidenceThreshold == nil {
		return nil
	}
	return &entity.PredictionOptions{
		IncludeDomains:      r.IncludeDomains,
		IncludeStructure:    r.IncludeStructure,
		ConfidenceThreshold: r.ConfidenceThreshold,
	}
}

type DeleteResultResponse struct {
	Id      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ResultListResponse struct {
	Results []entity.PredictionResult `json:"results"`
	History []entity.HistoryEntry     `json:"history"`
}

// ImportResultRequest carries a result produced elsewhere, e.g. exported from
// another workspace.
type ImportResultRequest struct {
	Id          string                       `json:"id" validate:"required,max=128"`
	ProteinName string                       `json:"proteinName" validate:"required"`
	Function    string                       `json:"function"`
	Confidence  float64                      `json:"confidence" validate:"min=0,max=100"`
	Domains     []entity.ProteinDomain       `json:"domains"`
	Structure   string                       `json:"structure"`
	GoTerms     []entity.GoTerm              `json:"goTerms"`
	Literature  []entity.LiteratureReference `json:"literature"`
	CreatedAt   time.Time                    `json:"createdAt"`
}

func (r ImportResultRequest) ToEntity() entity.PredictionResult {
	return entity.PredictionResult{
		Id:          r.Id,
		ProteinName: r.ProteinName,
		Function:    r.Function,
		Confidence:  r.Confidence,
		Domains:     r.Domains,
		Structure:   r.Structure,
		GoTerms:     r.GoTerms,
		Literature:  r.Literature,
		CreatedAt:   r.CreatedAt,
	}
}

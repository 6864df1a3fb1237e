package prediction

import (
	"context"
	"time"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// FixtureClient returns a fixed hemoglobin prediction. It is only wired in development.
type FixtureClient struct {
	now func() time.Time
}

var _ Predictor = &FixtureClient{}

func NewFixtureClient() *FixtureClient {
	return &FixtureClient{now: time.Now}
}

func (f *FixtureClient) Predict(ctx context.Context, req entity.PredictionRequest) (*entity.PredictionResult, error) {
	name := "Hemoglobin Beta Chain"
	if len(req.Sequence) > 20 {
		name = "Unknown Protein"
	}
	return &entity.PredictionResult{
		Id:          "mock-" + uuid.NewString(),
		ProteinName: name,
		Function:    "Oxygen transport protein that carries oxygen from the lungs to tissues and carbon dioxide from tissues back to lungs.",
		Confidence:  97,
		Domains: []entity.ProteinDomain{
			{Name: "Globin domain", Start: 1, End: 146, Confidence: 99},
			{Name: "Heme binding site", Start: 63, End: 99, Confidence: 98},
		},
		Literature: []entity.LiteratureReference{
			{
				Id:      "PMID12345678",
				Title:   "Structure and function of hemoglobin",
				Authors: []string{"Smith J", "Johnson A"},
				Journal: "Journal of Molecular Biology",
				Year:    2023,
				Url:     "https://pubmed.ncbi.nlm.nih.gov/12345678/",
			},
			{
				Id:      "PMID87654321",
				Title:   "Evolutionary conservation of globin proteins",
				Authors: []string{"Lee A", "Wong B", "Garcia C"},
				Journal: "Evolutionary Biology",
				Year:    2022,
				Url:     "https://pubmed.ncbi.nlm.nih.gov/87654321/",
			},
		},
		CreatedAt: f.now().UTC(),
	}, nil
}

// FallbackClient answers from the fixture when the primary call fails.
type FallbackClient struct {
	primary Predictor
	fixture Predictor
	logger  logger.ILogger
}

var _ Predictor = &FallbackClient{}

func NewFallbackClient(primary, fixture Predictor, log logger.ILogger) *FallbackClient {
	return &FallbackClient{primary: primary, fixture: fixture, logger: log}
}

func (f *FallbackClient) Predict(ctx context.Context, req entity.PredictionRequest) (*entity.PredictionResult, error) {
	result, err := f.primary.Predict(ctx, req)
	if err == nil {
		return result, nil
	}
	f.logger.Warn("Prediction", "Prediction failed, serving development fixture", map[string]interface{}{
		"error": err.Error(),
	})
	return f.fixture.Predict(ctx, req)
}

package prediction

import (
	"context"
	"time"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"
	"bioez-be/pkg/bioapi"
)

const serviceName = "Prediction"

// Predictor turns a sequence into a function prediction.
type Predictor interface {
	Predict(ctx context.Context, req entity.PredictionRequest) (*entity.PredictionResult, error)
}

type Client struct {
	transport *bioapi.Transport
}

var _ Predictor = &Client{}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	t := bioapi.NewTransport(serviceName, baseURL, timeout).WithHeader("X-API-Key", apiKey)
	return &Client{transport: t}
}

// Predict posts the sequence to /predict. Results that break the domain or confidence
// invariants are rejected as malformed.
func (c *Client) Predict(ctx context.Context, req entity.PredictionRequest) (*entity.PredictionResult, error) {
	var result entity.PredictionResult
	if _, err := c.transport.PostJSON(ctx, c.transport.URL(nil, "predict"), req, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, apperror.Network(serviceName, err)
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	return &result, nil
}

package prediction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientPredict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("X-API-Key"))

		var req entity.PredictionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "MVLSPADKTN", req.Sequence)
		assert.Equal(t, entity.FormatRaw, req.Format)

		w.Write([]byte(`{
			"id": "pred-1",
			"proteinName": "Hemoglobin",
			"function": "Oxygen transport",
			"confidence": 95,
			"domains": [{"name": "Globin", "start": 1, "end": 146, "confidence": 99}],
			"literature": [],
			"createdAt": "2024-05-01T10:00:00Z"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1", time.Second)
	res, err := c.Predict(context.Background(), entity.PredictionRequest{Sequence: "MVLSPADKTN", Format: entity.FormatRaw})

	require.NoError(t, err)
	assert.Equal(t, "pred-1", res.Id)
	assert.True(t, res.IsReliable())
	assert.Len(t, res.Domains, 1)
}

func TestClientRejectsInvertedDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"p","confidence":50,"domains":[{"name":"x","start":10,"end":2,"confidence":1}]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Predict(context.Background(), entity.PredictionRequest{Sequence: "A", Format: entity.FormatRaw})

	require.Error(t, err)
	assert.True(t, apperror.IsType(err, apperror.NetworkError))
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", time.Second).Predict(context.Background(), entity.PredictionRequest{Sequence: "A", Format: entity.FormatRaw})

	assert.Equal(t, http.StatusInternalServerError, apperror.UpstreamStatus(err))
}

func TestFixtureNamesByLength(t *testing.T) {
	f := NewFixtureClient()

	short, err := f.Predict(context.Background(), entity.PredictionRequest{Sequence: "MVHLTPEEK"})
	require.NoError(t, err)
	long, err := f.Predict(context.Background(), entity.PredictionRequest{Sequence: "MVHLTPEEKSAVTALWGKVNVDEVGGEALGR"})
	require.NoError(t, err)

	assert.Equal(t, "Hemoglobin Beta Chain", short.ProteinName)
	assert.Equal(t, "Unknown Protein", long.ProteinName)
	assert.NotEqual(t, short.Id, long.Id)
	assert.NoError(t, short.Validate())
}

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) Predict(ctx context.Context, req entity.PredictionRequest) (*entity.PredictionResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*entity.PredictionResult)
	return res, args.Error(1)
}

func TestFallbackServesFixtureOnFailure(t *testing.T) {
	ctx := context.Background()
	req := entity.PredictionRequest{Sequence: "MVHL", Format: entity.FormatRaw}

	primary := new(mockPredictor)
	primary.On("Predict", ctx, req).Return(nil, errors.New("connection refused"))

	fb := NewFallbackClient(primary, NewFixtureClient(), logger.NewNopLogger())
	res, err := fb.Predict(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "Hemoglobin Beta Chain", res.ProteinName)
	primary.AssertExpectations(t)
}

func TestFallbackPassesThroughSuccess(t *testing.T) {
	ctx := context.Background()
	req := entity.PredictionRequest{Sequence: "MVHL", Format: entity.FormatRaw}
	want := &entity.PredictionResult{Id: "live"}

	primary := new(mockPredictor)
	primary.On("Predict", ctx, req).Return(want, nil)
	fixture := new(mockPredictor)

	res, err := NewFallbackClient(primary, fixture, logger.NewNopLogger()).Predict(ctx, req)

	require.NoError(t, err)
	assert.Same(t, want, res)
	fixture.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

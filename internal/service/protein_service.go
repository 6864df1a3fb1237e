package service

import (
	"context"
	"time"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/store/protein"
	"bioez-be/pkg/events"
	"bioez-be/pkg/sequence"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "bioez-be/service"

type IProteinService interface {
	Upload(ctx context.Context, ws *Workspace, upload sequence.Upload) (protein.State, error)
	Predict(ctx context.Context, ws *Workspace, opts *entity.PredictionOptions) (*entity.PredictionResult, error)
	Import(ctx context.Context, ws *Workspace, result entity.PredictionResult) (*entity.PredictionResult, error)
}

type proteinService struct {
	publisher IEventPublisher
	logger    logger.ILogger
}

func NewProteinService(publisher IEventPublisher, log logger.ILogger) IProteinService {
	return &proteinService{publisher: publisher, logger: log}
}

// Upload validates the file before it touches the store.
func (s *proteinService) Upload(ctx context.Context, ws *Workspace, upload sequence.Upload) (protein.State, error) {
	decoded, err := sequence.Decode(upload)
	if err != nil {
		return protein.State{}, err
	}
	file := decoded.File
	ws.Protein.SetCurrentProtein(&file, decoded.Sequence, decoded.Format)

	s.logger.Info("PROTEIN", "Protein uploaded", map[string]interface{}{
		"workspace_id": ws.Id,
		"file":         file.Name,
		"format":       decoded.Format,
	})
	return ws.Protein.Snapshot(), nil
}

func (s *proteinService) Predict(ctx context.Context, ws *Workspace, opts *entity.PredictionOptions) (*entity.PredictionResult, error) {
	if !ws.BeginPrediction() {
		return nil, apperror.Conflict("PREDICTION_IN_PROGRESS", "A prediction is already running for this workspace")
	}
	defer ws.EndPrediction()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "ProteinService.Predict")
	defer span.End()
	span.SetAttributes(attribute.String("workspace.id", ws.Id))

	result, err := ws.Protein.PredictProtein(ctx, opts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Float64("prediction.confidence", result.Confidence))

	view := entity.ViewPrediction
	ws.Chat.UpdateContext(entity.ContextPatch{CurrentProteinId: &result.Id, CurrentView: &view})

	_ = s.publisher.Publish(ctx, events.NewWorkspaceEvent(events.TypePredictionCompleted, ws.Id, map[string]interface{}{
		"resultId":    result.Id,
		"proteinName": result.ProteinName,
		"confidence":  result.Confidence,
	}))
	return result, nil
}

// Import stores a result that did not come from this workspace's prediction
// call and makes it current.
func (s *proteinService) Import(ctx context.Context, ws *Workspace, result entity.PredictionResult) (*entity.PredictionResult, error) {
	if err := result.Validate(); err != nil {
		return nil, apperror.Validation("INVALID_RESULT", err.Error())
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}
	ws.Protein.SetPredictionResult(result)
	ws.Chat.UpdateContext(entity.ContextPatch{CurrentProteinId: &result.Id})

	s.logger.Info("PROTEIN", "Prediction result imported", map[string]interface{}{
		"workspace_id": ws.Id,
		"result_id":    result.Id,
	})
	return &result, nil
}

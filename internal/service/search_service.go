package service

import (
	"context"
	"strings"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/logger"
	"bioez-be/pkg/biosearch"
	"bioez-be/pkg/events"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type ISearchService interface {
	Search(ctx context.Context, ws *Workspace, query string) ([]entity.DatabaseState, error)
	Databases() []string
}

type searchService struct {
	orchestrator *biosearch.Orchestrator
	publisher    IEventPublisher
	logger       logger.ILogger
}

func NewSearchService(o *biosearch.Orchestrator, publisher IEventPublisher, log logger.ILogger) ISearchService {
	return &searchService{orchestrator: o, publisher: publisher, logger: log}
}

type searchProgress struct {
	Query     string                 `json:"query"`
	Databases []entity.DatabaseState `json:"databases"`
}

func (s *searchService) Databases() []string {
	return s.orchestrator.Databases()
}

// Search records the query in the workspace chat context and runs every
// configured database, streaming progress to the workspace.
func (s *searchService) Search(ctx context.Context, ws *Workspace, query string) ([]entity.DatabaseState, error) {
	query = strings.TrimSpace(query)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "SearchService.Search")
	defer span.End()
	span.SetAttributes(attribute.String("search.query", query))

	if query != "" {
		view := entity.ViewSearch
		ws.Chat.UpdateContext(entity.ContextPatch{CurrentDatabaseSearch: &query, CurrentView: &view})
	}

	states, err := s.orchestrator.Run(ctx, query, func(states []entity.DatabaseState) {
		_ = s.publisher.Publish(ctx, events.NewWorkspaceEvent(events.TypeSearchUpdated, ws.Id, searchProgress{
			Query:     query,
			Databases: states,
		}))
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	failed := 0
	for _, st := range states {
		if st.Error != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("search.failed", failed))
	s.logger.Info("SEARCH", "Search finished", map[string]interface{}{
		"workspace_id": ws.Id,
		"query":        query,
		"databases":    len(states),
		"failed":       failed,
	})
	return states, nil
}

package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"bioez-be/internal/constant"
	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/repository/contract"
	"bioez-be/internal/store/chat"
	"bioez-be/internal/store/persist"
	"bioez-be/internal/store/protein"
	"bioez-be/pkg/bioapi/prediction"
	"bioez-be/pkg/events"
	"bioez-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// Workspace is one client's pair of stores.
type Workspace struct {
	Id      string
	Protein *protein.Store
	Chat    *chat.Store

	predicting atomic.Bool
}

// BeginPrediction claims the workspace's prediction slot. It returns false
// while another prediction is running.
func (w *Workspace) BeginPrediction() bool {
	return w.predicting.CompareAndSwap(false, true)
}

func (w *Workspace) EndPrediction() {
	w.predicting.Store(false)
}

type IWorkspaceService interface {
	Get(ctx context.Context, workspaceID string) (*Workspace, error)
}

type workspaceService struct {
	workspaces *cache.Cache
	mu         sync.Mutex

	repo      contract.StateRepository
	predictor prediction.Predictor
	provider  llm.LLMProvider
	publisher IEventPublisher
	logger    logger.ILogger
}

// NewWorkspaceService keeps workspaces in memory until they have been idle
// for ttl. Evicted workspaces are rebuilt from storage on next use.
func NewWorkspaceService(
	repo contract.StateRepository,
	predictor prediction.Predictor,
	provider llm.LLMProvider,
	publisher IEventPublisher,
	ttl time.Duration,
	log logger.ILogger,
) IWorkspaceService {
	return &workspaceService{
		workspaces: cache.New(ttl, ttl/2+time.Minute),
		repo:       repo,
		predictor:  predictor,
		provider:   provider,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *workspaceService) Get(ctx context.Context, workspaceID string) (*Workspace, error) {
	if workspaceID == "" {
		return nil, apperror.Validation("MISSING_WORKSPACE", "Workspace id is required")
	}
	if x, ok := s.workspaces.Get(workspaceID); ok {
		s.workspaces.SetDefault(workspaceID, x)
		return x.(*Workspace), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if x, ok := s.workspaces.Get(workspaceID); ok {
		return x.(*Workspace), nil
	}

	ws := &Workspace{Id: workspaceID}
	ws.Protein = protein.NewStore(
		s.predictor,
		persist.NewWriter(s.repo, persist.Key(constant.ProteinStorageName, workspaceID), s.logger),
		s.logger,
	)
	ws.Chat = chat.NewStore(
		s.provider,
		persist.NewWriter(s.repo, persist.Key(constant.ChatStorageName, workspaceID), s.logger),
		s.logger,
	)

	if err := ws.Protein.Restore(ctx); err != nil {
		s.logger.Warn("WORKSPACE", "Failed to restore protein state", map[string]interface{}{
			"workspace_id": workspaceID,
			"error":        err,
		})
	}
	if err := ws.Chat.Restore(ctx); err != nil {
		s.logger.Warn("WORKSPACE", "Failed to restore chat state", map[string]interface{}{
			"workspace_id": workspaceID,
			"error":        err,
		})
	}

	ws.Protein.Subscribe(func(st protein.State) {
		_ = s.publisher.Publish(context.Background(), events.NewWorkspaceEvent(events.TypeProteinUpdated, workspaceID, st))
	})
	ws.Chat.Subscribe(func(st chat.State) {
		_ = s.publisher.Publish(context.Background(), events.NewWorkspaceEvent(events.TypeChatUpdated, workspaceID, st))
	})

	s.workspaces.SetDefault(workspaceID, ws)
	s.logger.Info("WORKSPACE", "Workspace opened", map[string]interface{}{"workspace_id": workspaceID})
	return ws, nil
}

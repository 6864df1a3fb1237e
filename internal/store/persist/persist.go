// Package persist converts store state to and from the stored envelope. The
// projection and codec functions are pure; Writer adds the storage call.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/repository/contract"
)

var ErrUnsupportedVersion = errors.New("unsupported persisted state version")

type Envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

type ProteinState struct {
	PredictionResults []entity.PredictionResult `json:"predictionResults"`
	PredictionHistory []entity.HistoryEntry     `json:"predictionHistory"`
}

type ChatState struct {
	Messages []entity.ChatMessage `json:"messages"`
}

func Key(storageName, workspaceID string) string {
	return storageName + ":" + workspaceID
}

// ProjectProtein keeps every result and at most MaxPredictionHistory history entries.
func ProjectProtein(results []entity.PredictionResult, history []entity.HistoryEntry) ProteinState {
	if len(history) > constant.MaxPredictionHistory {
		history = history[:constant.MaxPredictionHistory]
	}
	return ProteinState{
		PredictionResults: append([]entity.PredictionResult{}, results...),
		PredictionHistory: append([]entity.HistoryEntry{}, history...),
	}
}

// ProjectChat keeps the most recent MaxPersistedMessages messages.
func ProjectChat(messages []entity.ChatMessage) ChatState {
	if n := len(messages); n > constant.MaxPersistedMessages {
		messages = messages[n-constant.MaxPersistedMessages:]
	}
	return ChatState{Messages: append([]entity.ChatMessage{}, messages...)}
}

func Encode(state interface{}) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return json.Marshal(Envelope{State: raw, Version: constant.PersistVersion})
}

func decode(data []byte, out interface{}) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Version != constant.PersistVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if len(env.State) == 0 || string(env.State) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.State, out); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	return nil
}

// DecodeProtein returns an empty state for empty input.
func DecodeProtein(data []byte) (ProteinState, error) {
	var s ProteinState
	if len(data) == 0 {
		return s, nil
	}
	if err := decode(data, &s); err != nil {
		return ProteinState{}, err
	}
	return ProjectProtein(s.PredictionResults, s.PredictionHistory), nil
}

func DecodeChat(data []byte) (ChatState, error) {
	var s ChatState
	if len(data) == 0 {
		return s, nil
	}
	if err := decode(data, &s); err != nil {
		return ChatState{}, err
	}
	return ProjectChat(s.Messages), nil
}

// Writer saves projections for one key. Write holds its own lock while it
// takes the projection, so a later write always carries the newer state.
type Writer struct {
	repo   contract.StateRepository
	key    string
	logger logger.ILogger
	mu     sync.Mutex
}

func NewWriter(repo contract.StateRepository, key string, log logger.ILogger) *Writer {
	return &Writer{repo: repo, key: key, logger: log}
}

func (w *Writer) Key() string { return w.key }

func (w *Writer) Write(ctx context.Context, project func() interface{}) error {
	if w == nil || w.repo == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	data, err := Encode(project())
	if err == nil {
		err = w.repo.Save(ctx, w.key, data)
	}
	if err != nil && w.logger != nil {
		w.logger.Error("PERSIST", "Failed to save state", map[string]interface{}{
			"key":   w.key,
			"error": err,
		})
	}
	return err
}

func (w *Writer) Read(ctx context.Context) ([]byte, error) {
	if w == nil || w.repo == nil {
		return nil, nil
	}
	return w.repo.Load(ctx, w.key)
}

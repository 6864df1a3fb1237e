// Package protein holds the per-workspace protein session: the uploaded
// sequence, the prediction in flight and the results produced so far.
package protein

import (
	"context"
	"strings"
	"sync"
	"time"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"
	"bioez-be/internal/pkg/logger"
	"bioez-be/internal/store/persist"
	"bioez-be/pkg/bioapi/prediction"

	"github.com/google/uuid"
)

const (
	CodeMissingSequence = "MISSING_SEQUENCE"

	persistTimeout = 5 * time.Second
)

type State struct {
	CurrentProtein    entity.ProteinSession     `json:"currentProtein"`
	IsPredicting      bool                      `json:"isPredicting"`
	PredictionError   *string                   `json:"predictionError"`
	PredictionResult  *entity.PredictionResult  `json:"predictionResult"`
	PredictionResults []entity.PredictionResult `json:"predictionResults"`
	PredictionHistory []entity.HistoryEntry     `json:"predictionHistory"`
}

func (s State) clone() State {
	out := s
	if s.CurrentProtein.File != nil {
		f := *s.CurrentProtein.File
		out.CurrentProtein.File = &f
	}
	if s.PredictionError != nil {
		e := *s.PredictionError
		out.PredictionError = &e
	}
	if s.PredictionResult != nil {
		r := *s.PredictionResult
		out.PredictionResult = &r
	}
	out.PredictionResults = append([]entity.PredictionResult{}, s.PredictionResults...)
	out.PredictionHistory = append([]entity.HistoryEntry{}, s.PredictionHistory...)
	return out
}

type Observer func(State)

type Store struct {
	mu       sync.RWMutex
	notifyMu sync.Mutex
	state    State

	predictor prediction.Predictor
	writer    *persist.Writer
	logger    logger.ILogger
	observers []Observer
	now       func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

func NewStore(predictor prediction.Predictor, writer *persist.Writer, log logger.ILogger, opts ...Option) *Store {
	s := &Store{
		predictor: predictor,
		writer:    writer,
		logger:    log,
		now:       time.Now,
		state: State{
			PredictionResults: []entity.PredictionResult{},
			PredictionHistory: []entity.HistoryEntry{},
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Restore loads persisted results and history. A missing entry is not an error.
func (s *Store) Restore(ctx context.Context) error {
	data, err := s.writer.Read(ctx)
	if err != nil {
		return err
	}
	saved, err := persist.DecodeProtein(data)
	if err != nil {
		return err
	}
	s.update(func(st *State) {
		st.PredictionResults = saved.PredictionResults
		st.PredictionHistory = saved.PredictionHistory
	}, false)
	return nil
}

func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// update applies fn atomically, then notifies observers in update order and
// optionally persists the latest projection.
func (s *Store) update(fn func(*State), save bool) State {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	observers := append([]Observer(nil), s.observers...)
	s.notifyMu.Lock()
	s.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	s.notifyMu.Unlock()

	if save {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		_ = s.writer.Write(ctx, func() interface{} {
			cur := s.Snapshot()
			return persist.ProjectProtein(cur.PredictionResults, cur.PredictionHistory)
		})
	}
	return snap
}

func (s *Store) SetCurrentProtein(file *entity.ProteinFile, sequence string, format entity.SequenceFormat) {
	s.update(func(st *State) {
		st.CurrentProtein = entity.ProteinSession{File: file, Sequence: sequence, Format: format}
		st.PredictionError = nil
	}, false)
}

func (s *Store) ClearCurrentProtein() {
	s.update(func(st *State) {
		st.CurrentProtein = entity.ProteinSession{}
		st.PredictionError = nil
	}, false)
}

// PredictProtein sends the current sequence to the prediction service. A
// missing sequence fails before any network call.
func (s *Store) PredictProtein(ctx context.Context, opts *entity.PredictionOptions) (*entity.PredictionResult, error) {
	current := s.Snapshot().CurrentProtein
	if strings.TrimSpace(current.Sequence) == "" || !current.Format.Valid() {
		msg := constant.MissingSequenceMessage
		s.update(func(st *State) { st.PredictionError = &msg }, false)
		return nil, apperror.Validation(CodeMissingSequence, msg)
	}

	s.update(func(st *State) {
		st.IsPredicting = true
		st.PredictionError = nil
	}, false)

	result, err := s.predictor.Predict(ctx, entity.PredictionRequest{
		Sequence: current.Sequence,
		Format:   current.Format,
		Options:  opts,
	})
	if err != nil {
		msg := err.Error()
		s.update(func(st *State) {
			st.IsPredicting = false
			st.PredictionError = &msg
		}, false)
		s.logger.Warn("PROTEIN_STORE", "Prediction failed", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}

	stamp := result.CreatedAt
	if stamp.IsZero() {
		stamp = s.now()
	}
	entry := entity.HistoryEntry{
		Id:          uuid.NewString(),
		ProteinName: result.ProteinName,
		Timestamp:   stamp.UTC(),
		ResultId:    result.Id,
	}
	s.update(func(st *State) {
		st.IsPredicting = false
		st.PredictionResult = result
		st.PredictionResults = prependResult(st.PredictionResults, *result)
		st.PredictionHistory = prependHistory(st.PredictionHistory, entry)
	}, true)

	out := *result
	return &out, nil
}

// SetPredictionResult records a result obtained elsewhere and makes it current.
func (s *Store) SetPredictionResult(result entity.PredictionResult) {
	s.update(func(st *State) {
		r := result
		st.PredictionResult = &r
		st.PredictionResults = prependResult(st.PredictionResults, result)
	}, true)
}

// LoadResultByID makes a stored result current.
func (s *Store) LoadResultByID(id string) (*entity.PredictionResult, error) {
	var found *entity.PredictionResult
	s.update(func(st *State) {
		for i := range st.PredictionResults {
			if st.PredictionResults[i].Id == id {
				r := st.PredictionResults[i]
				found = &r
				st.PredictionResult = &r
				return
			}
		}
	}, false)
	if found == nil {
		return nil, apperror.NotFound("RESULT_NOT_FOUND", "Prediction result not found").WithDetail("id", id)
	}
	out := *found
	return &out, nil
}

// DeleteResultByID removes the result and every history entry pointing at it.
// It reports whether anything was removed.
func (s *Store) DeleteResultByID(id string) bool {
	removed := false
	s.update(func(st *State) {
		results := st.PredictionResults[:0:0]
		for _, r := range st.PredictionResults {
			if r.Id == id {
				removed = true
				continue
			}
			results = append(results, r)
		}
		history := st.PredictionHistory[:0:0]
		for _, h := range st.PredictionHistory {
			if h.ResultId == id {
				removed = true
				continue
			}
			history = append(history, h)
		}
		st.PredictionResults = results
		st.PredictionHistory = history
		if st.PredictionResult != nil && st.PredictionResult.Id == id {
			st.PredictionResult = nil
		}
	}, true)
	return removed
}

// ClearResults drops the results and the current result. History is kept.
func (s *Store) ClearResults() {
	s.update(func(st *State) {
		st.PredictionResult = nil
		st.PredictionResults = []entity.PredictionResult{}
	}, true)
}

func prependResult(results []entity.PredictionResult, r entity.PredictionResult) []entity.PredictionResult {
	out := make([]entity.PredictionResult, 0, len(results)+1)
	out = append(out, r)
	for _, existing := range results {
		if existing.Id != r.Id {
			out = append(out, existing)
		}
	}
	return out
}

func prependHistory(history []entity.HistoryEntry, e entity.HistoryEntry) []entity.HistoryEntry {
	out := make([]entity.HistoryEntry, 0, len(history)+1)
	out = append(out, e)
	out = append(out, history...)
	if len(out) > constant.MaxPredictionHistory {
		out = out[:constant.MaxPredictionHistory]
	}
	return out
}

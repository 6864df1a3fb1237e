package biosearch

import (
	"context"
	"strings"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"
)

const CodeEmptyQuery = "EMPTY_QUERY"

// Observer receives a full copy of the per-database states after the reset
// and after every transition.
type Observer func(states []entity.DatabaseState)

// Orchestrator queries its sources one after another.
type Orchestrator struct {
	sources []Source
	delay   DelayPolicy
	limit   int
}

func NewOrchestrator(sources []Source, delay DelayPolicy, limit int) *Orchestrator {
	if delay == nil {
		delay = NoDelay{}
	}
	return &Orchestrator{sources: sources, delay: delay, limit: limit}
}

func (o *Orchestrator) Databases() []string {
	names := make([]string, len(o.sources))
	for i, s := range o.sources {
		names[i] = s.Database()
	}
	return names
}

// Run searches every source for query. Source failures are recorded in the
// returned states; the only error returned is for a blank query.
func (o *Orchestrator) Run(ctx context.Context, query string, observe Observer) ([]entity.DatabaseState, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation(CodeEmptyQuery, "Search query must not be empty")
	}
	if observe == nil {
		observe = func([]entity.DatabaseState) {}
	}

	states := make([]entity.DatabaseState, len(o.sources))
	for i, s := range o.sources {
		states[i] = entity.DatabaseState{Database: s.Database(), Results: []entity.SearchResult{}, IsLoading: true}
	}
	observe(copyStates(states))

	for i, src := range o.sources {
		if i > 0 {
			if err := o.delay.Wait(ctx); err != nil {
				failRemaining(states[i:], err)
				observe(copyStates(states))
				return states, nil
			}
		} else if err := ctx.Err(); err != nil {
			failRemaining(states, err)
			observe(copyStates(states))
			return states, nil
		}

		results, err := src.Search(ctx, query, o.limit)
		if err != nil {
			msg := err.Error()
			states[i] = entity.DatabaseState{Database: src.Database(), Results: []entity.SearchResult{}, Error: &msg}
		} else {
			if o.limit > 0 && len(results) > o.limit {
				results = results[:o.limit]
			}
			if results == nil {
				results = []entity.SearchResult{}
			}
			states[i] = entity.DatabaseState{Database: src.Database(), Results: results}
		}
		observe(copyStates(states))
	}
	return states, nil
}

func failRemaining(states []entity.DatabaseState, err error) {
	msg := err.Error()
	for i := range states {
		m := msg
		states[i].IsLoading = false
		states[i].Results = []entity.SearchResult{}
		states[i].Error = &m
	}
}

func copyStates(states []entity.DatabaseState) []entity.DatabaseState {
	out := make([]entity.DatabaseState, len(states))
	for i, s := range states {
		out[i] = s
		out[i].Results = append([]entity.SearchResult(nil), s.Results...)
		if out[i].Results == nil {
			out[i].Results = []entity.SearchResult{}
		}
		if s.Error != nil {
			e := *s.Error
			out[i].Error = &e
		}
	}
	return out
}

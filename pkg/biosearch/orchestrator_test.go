package biosearch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name    string
	results []entity.SearchResult
	err     error
	calls   *[]string
	mu      *sync.Mutex
}

func (s stubSource) Database() string { return s.name }

func (s stubSource) Search(ctx context.Context, query string, limit int) ([]entity.SearchResult, error) {
	if s.calls != nil {
		s.mu.Lock()
		*s.calls = append(*s.calls, s.name)
		s.mu.Unlock()
	}
	return s.results, s.err
}

type recordingDelay struct {
	waits int
	err   error
}

func (d *recordingDelay) Wait(ctx context.Context) error {
	d.waits++
	return d.err
}

func manyResults(n int) []entity.SearchResult {
	out := make([]entity.SearchResult, n)
	for i := range out {
		out[i] = entity.SearchResult{Id: string(rune('a' + i))}
	}
	return out
}

func TestRunRejectsBlankQuery(t *testing.T) {
	o := NewOrchestrator([]Source{stubSource{name: "rcsb"}}, NoDelay{}, 10)

	_, err := o.Run(context.Background(), "   ", nil)

	assert.True(t, apperror.IsValidation(err))
}

func TestRunRecordsFailuresIndependently(t *testing.T) {
	var calls []string
	mu := &sync.Mutex{}
	sources := []Source{
		stubSource{name: "rcsb", results: manyResults(2), calls: &calls, mu: mu},
		stubSource{name: "uniprot", err: errors.New("UniProt API error: 500"), calls: &calls, mu: mu},
		stubSource{name: "ncbi", results: nil, calls: &calls, mu: mu},
	}
	delay := &recordingDelay{}

	states, err := NewOrchestrator(sources, delay, 10).Run(context.Background(), "hemoglobin", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"rcsb", "uniprot", "ncbi"}, calls)
	assert.Equal(t, 2, delay.waits)

	assert.Len(t, states[0].Results, 2)
	assert.Nil(t, states[0].Error)

	require.NotNil(t, states[1].Error)
	assert.Equal(t, "UniProt API error: 500", *states[1].Error)
	assert.Empty(t, states[1].Results)

	// zero hits is an empty result, not an error
	assert.NotNil(t, states[2].Results)
	assert.Empty(t, states[2].Results)
	assert.Nil(t, states[2].Error)

	for _, s := range states {
		assert.False(t, s.IsLoading)
	}
}

func TestRunTruncatesToLimit(t *testing.T) {
	states, err := NewOrchestrator([]Source{stubSource{name: "rcsb", results: manyResults(15)}}, NoDelay{}, 10).
		Run(context.Background(), "kinase", nil)

	require.NoError(t, err)
	assert.Len(t, states[0].Results, 10)
}

func TestRunNotifiesAfterResetAndEachTransition(t *testing.T) {
	sources := []Source{
		stubSource{name: "rcsb", results: manyResults(1)},
		stubSource{name: "uniprot", results: manyResults(1)},
	}
	var snapshots [][]entity.DatabaseState

	_, err := NewOrchestrator(sources, NoDelay{}, 10).Run(context.Background(), "insulin", func(s []entity.DatabaseState) {
		snapshots = append(snapshots, s)
	})

	require.NoError(t, err)
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[0][0].IsLoading)
	assert.True(t, snapshots[0][1].IsLoading)
	assert.False(t, snapshots[1][0].IsLoading)
	assert.True(t, snapshots[1][1].IsLoading)
	assert.False(t, snapshots[2][1].IsLoading)
}

func TestRunCancelledDuringDelayFailsRemaining(t *testing.T) {
	var calls []string
	mu := &sync.Mutex{}
	sources := []Source{
		stubSource{name: "rcsb", results: manyResults(1), calls: &calls, mu: mu},
		stubSource{name: "uniprot", calls: &calls, mu: mu},
		stubSource{name: "ncbi", calls: &calls, mu: mu},
	}

	states, err := NewOrchestrator(sources, &recordingDelay{err: context.Canceled}, 10).
		Run(context.Background(), "insulin", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"rcsb"}, calls)
	assert.Nil(t, states[0].Error)
	for _, s := range states[1:] {
		require.NotNil(t, s.Error)
		assert.Equal(t, context.Canceled.Error(), *s.Error)
		assert.False(t, s.IsLoading)
	}
}

func TestFixedDelayWaits(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedDelay{Interval: 20 * time.Millisecond}.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, FixedDelay{Interval: time.Hour}.Wait(ctx), context.Canceled)
}

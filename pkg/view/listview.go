package view

import (
	"context"
	"sync"

	"github.com/Sternrassler/character-table/pkg/characters"
	"github.com/Sternrassler/character-table/pkg/logging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// CharacterFetcher produces a character list result.
// *characters.Fetcher implements it.
type CharacterFetcher interface {
	FetchCharacters(ctx context.Context) characters.Result
}

// ListView is one instance of the character list view. It starts in the
// loading state and moves to error, empty or populated when its fetch
// completes. At most one fetch is in flight per instance.
type ListView struct {
	id      string
	fetcher CharacterFetcher
	logger  zerolog.Logger

	group singleflight.Group

	mu     sync.RWMutex
	result characters.Result
	closed bool
}

// NewListView creates a view instance in the loading state.
func NewListView(fetcher CharacterFetcher) *ListView {
	if fetcher == nil {
		panic("character fetcher cannot be nil")
	}
	id := uuid.NewString()
	return &ListView{
		id:      id,
		fetcher: fetcher,
		logger:  logging.NewLogger("view").With().Str("view_id", id).Logger(),
		result:  characters.Pending{},
	}
}

// ID returns the instance identifier.
func (v *ListView) ID() string {
	return v.id
}

// Load runs a fetch cycle and returns the resulting model. Concurrent calls
// share the fetch already in flight. After Close, results are discarded
// and the last model is returned.
func (v *ListView) Load(ctx context.Context) Model {
	res, _, _ := v.group.Do("fetch", func() (any, error) {
		v.set(characters.Pending{})
		result := v.fetcher.FetchCharacters(ctx)
		v.set(result)
		return result, nil
	})

	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return ModelFor(v.result)
	}
	return ModelFor(res.(characters.Result))
}

// Start runs Load in the background. The returned channel receives the
// resulting model and is then closed.
func (v *ListView) Start(ctx context.Context) <-chan Model {
	done := make(chan Model, 1)
	go func() {
		defer close(done)
		done <- v.Load(ctx)
	}()
	return done
}

// Model returns the current model.
func (v *ListView) Model() Model {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ModelFor(v.result)
}

// State returns the current state.
func (v *ListView) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return StateFor(v.result)
}

// Close tears the view down. A fetch still in flight completes, but its
// result is dropped.
func (v *ListView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

func (v *ListView) set(result characters.Result) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		v.logger.Debug().Msg("View closed, discarding result")
		return
	}

	from := StateFor(v.result)
	v.result = result
	to := StateFor(result)
	if from != to {
		v.logger.Debug().
			Str("from", from.String()).
			Str("state", to.String()).
			Msg("View state changed")
	}
}

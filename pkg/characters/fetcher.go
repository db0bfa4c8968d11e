package characters

import (
	"context"
	"errors"
	"time"

	"github.com/Sternrassler/character-table/pkg/graphql"
	"github.com/Sternrassler/character-table/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var characterFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "character_fetches_total",
	Help: "Total character list fetches by result",
}, []string{"result"}) // "succeeded", "failed"

// Doer executes a GraphQL request and decodes its data into out.
// *graphql.Client implements it.
type Doer interface {
	Do(ctx context.Context, req graphql.Request, out any) error
}

// Fetcher requests the fixed character list.
type Fetcher struct {
	client Doer
	logger zerolog.Logger
}

// NewFetcher creates a fetcher on top of client.
func NewFetcher(client Doer) *Fetcher {
	if client == nil {
		panic("graphql client cannot be nil")
	}
	return &Fetcher{
		client: client,
		logger: logging.NewLogger("characters"),
	}
}

// FetchCharacters issues one GetCharacters request and returns Failed or
// Succeeded. It never returns Pending.
//
// A response whose data does not have the expected shape is reported as
// Succeeded with no characters.
func (f *Fetcher) FetchCharacters(ctx context.Context) Result {
	start := time.Now()

	var data getCharactersData
	err := f.client.Do(ctx, graphql.Request{
		OperationName: OperationName,
		Query:         GetCharactersQuery,
	}, &data)

	switch {
	case err == nil:
	case errors.Is(err, graphql.ErrMalformedData):
		f.logger.Warn().Err(err).Msg("Malformed payload, treating as empty")
		characterFetchesTotal.WithLabelValues("succeeded").Inc()
		return Succeeded{}
	default:
		f.logger.Error().
			Err(err).
			Str("error_class", string(graphql.ClassOf(err))).
			Dur("duration", time.Since(start)).
			Msg("Character fetch failed")
		characterFetchesTotal.WithLabelValues("failed").Inc()
		return Failed{Reason: err}
	}

	list := data.list()
	f.logger.Info().
		Int("rows", len(list)).
		Dur("duration", time.Since(start)).
		Msg("Fetched characters")
	characterFetchesTotal.WithLabelValues("succeeded").Inc()

	return Succeeded{Characters: list}
}

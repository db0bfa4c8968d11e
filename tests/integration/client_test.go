package integration

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/Sternrassler/character-table/internal/testutil"
	"github.com/Sternrassler/character-table/pkg/cache"
	"github.com/Sternrassler/character-table/pkg/characters"
	"github.com/Sternrassler/character-table/pkg/graphql"
	"github.com/Sternrassler/character-table/pkg/view"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

// testTransport redirects requests for the public endpoint to the mock server.
type testTransport struct {
	mockServer *testutil.MockGraphQL
}

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mockURL, err := url.Parse(t.mockServer.URL())
	if err != nil {
		return nil, err
	}
	req.URL.Scheme = mockURL.Scheme
	req.URL.Host = mockURL.Host
	return http.DefaultTransport.RoundTrip(req)
}

// newRedisClient creates a GraphQL client for the public endpoint, backed by
// a Redis cache and routed to mock.
func newRedisClient(t *testing.T, redisClient *redis.Client, mock *testutil.MockGraphQL, ttl time.Duration) *graphql.Client {
	t.Helper()

	cfg := graphql.DefaultConfig(characters.DefaultEndpoint, "TestApp/1.0.0 (integration@test.com)")
	cfg.Cache = cache.NewManager(cache.NewRedisStore(redisClient))
	cfg.CacheTTL = ttl

	c, err := graphql.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	c.SetHTTPClient(&http.Client{
		Transport: &testTransport{mockServer: mock},
		Timeout:   30 * time.Second,
	})
	return c
}

// TestFullRequestFlow tests the complete flow: Cache Miss → GraphQL → Cache Store → View.
func TestFullRequestFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockGraphQL()
	defer mock.Close()
	mock.SetResponse(characters.OperationName, testutil.NewDataResponse(testutil.ThreeCharactersPayload))

	c := newRedisClient(t, redisClient, mock, time.Minute)

	v := view.NewListView(characters.NewFetcher(c))
	defer v.Close()

	model := v.Load(context.Background())
	if model.State != view.StatePopulated {
		t.Fatalf("State = %s, want populated", model.State)
	}
	if len(model.Rows) != 3 {
		t.Fatalf("Rows = %d, want 3", len(model.Rows))
	}

	want := [][]string{
		{"Rick Sanchez", "Human", "Earth", "Citadel of Ricks"},
		{"Morty Smith", "Human", "", "Earth (Replacement Dimension)"},
		{"Abadango Cluster Princess", "Alien", "", ""},
	}
	for i, row := range model.Rows {
		for j, cell := range row.Cells() {
			if cell != want[i][j] {
				t.Errorf("Rows[%d].Cells()[%d] = %q, want %q", i, j, cell, want[i][j])
			}
		}
	}

	last := mock.LastRequest()
	if last.OperationName != characters.OperationName {
		t.Errorf("OperationName = %q, want %q", last.OperationName, characters.OperationName)
	}
	if got := last.Header.Get("User-Agent"); got != "TestApp/1.0.0 (integration@test.com)" {
		t.Errorf("User-Agent = %q", got)
	}

	keys, err := redisClient.Keys(context.Background(), "gql:*").Result()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("cached keys = %v, want 1", keys)
	}
}

// TestCacheSharedAcrossClients tests that a second process reuses the Redis entry.
func TestCacheSharedAcrossClients(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockGraphQL()
	defer mock.Close()
	mock.SetResponse(characters.OperationName, testutil.NewDataResponse(testutil.RickSanchezPayload))

	ctx := context.Background()

	first := characters.NewFetcher(newRedisClient(t, redisClient, mock, time.Minute))
	if _, ok := first.FetchCharacters(ctx).(characters.Succeeded); !ok {
		t.Fatal("first fetch should succeed")
	}

	second := characters.NewFetcher(newRedisClient(t, redisClient, mock, time.Minute))
	result, ok := second.FetchCharacters(ctx).(characters.Succeeded)
	if !ok {
		t.Fatal("second fetch should succeed")
	}
	if len(result.Characters) != 1 || result.Characters[0].Name != "Rick Sanchez" {
		t.Errorf("Characters = %+v", result.Characters)
	}

	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("GraphQL requests = %d, want 1", got)
	}
}

// TestFailureNotCached tests that failed responses are fetched again.
func TestFailureNotCached(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockGraphQL()
	defer mock.Close()
	mock.SetResponse(characters.OperationName, testutil.NewServerErrorResponse())

	fetcher := characters.NewFetcher(newRedisClient(t, redisClient, mock, time.Minute))
	ctx := context.Background()

	if _, ok := fetcher.FetchCharacters(ctx).(characters.Failed); !ok {
		t.Fatal("fetch should fail on 500")
	}

	mock.SetResponse(characters.OperationName, testutil.NewDataResponse(testutil.RickSanchezPayload))

	if _, ok := fetcher.FetchCharacters(ctx).(characters.Succeeded); !ok {
		t.Fatal("fetch should succeed after recovery")
	}

	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("GraphQL requests = %d, want 2", got)
	}
}

// TestNoRetry tests that a failing request is made exactly once.
func TestNoRetry(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockGraphQL()
	defer mock.Close()
	mock.SetResponse(characters.OperationName, testutil.NewRateLimitResponse())

	v := view.NewListView(characters.NewFetcher(newRedisClient(t, redisClient, mock, time.Minute)))
	defer v.Close()

	if state := v.Load(context.Background()).State; state != view.StateError {
		t.Errorf("State = %s, want error", state)
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("GraphQL requests = %d, want 1", got)
	}
}

// TestCacheExpiration tests that expired entries trigger a new request.
func TestCacheExpiration(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockGraphQL()
	defer mock.Close()
	mock.SetResponse(characters.OperationName, testutil.NewDataResponse(testutil.EmptyResultsPayload))

	fetcher := characters.NewFetcher(newRedisClient(t, redisClient, mock, time.Second))
	ctx := context.Background()

	fetcher.FetchCharacters(ctx)
	fetcher.FetchCharacters(ctx)
	if got := mock.GetRequestCount(); got != 1 {
		t.Fatalf("GraphQL requests before expiry = %d, want 1", got)
	}

	time.Sleep(1500 * time.Millisecond)

	fetcher.FetchCharacters(ctx)
	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("GraphQL requests after expiry = %d, want 2", got)
	}
}

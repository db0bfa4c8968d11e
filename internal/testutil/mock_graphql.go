// Package testutil provides testing utilities for the character table.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// GraphQLPath is the path the mock endpoint serves.
const GraphQLPath = "/graphql"

// MockResponse defines the behavior for a mock GraphQL response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is a decoded GraphQL request received by the mock.
type RecordedRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	Header        http.Header    `json:"-"`
}

// MockGraphQL is a configurable mock GraphQL server for testing.
type MockGraphQL struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	requestCount int
	lastRequest  *RecordedRequest
}

// NewMockGraphQL creates a new mock GraphQL server.
func NewMockGraphQL() *MockGraphQL {
	mock := &MockGraphQL{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != GraphQLPath {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req RecordedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":[{"message":"invalid request body"}]}`))
			return
		}
		req.Header = r.Header.Clone()

		mock.mu.Lock()
		mock.requestCount++
		mock.lastRequest = &req
		handler, exists := mock.handlers[req.OperationName]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock GraphQL endpoint URL.
func (m *MockGraphQL) URL() string {
	return m.server.URL + GraphQLPath
}

// Close shuts down the mock server.
func (m *MockGraphQL) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockGraphQL) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.lastRequest = nil
}

// SetHandler sets a custom handler for an operation name.
func (m *MockGraphQL) SetHandler(operation string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[operation] = handler
}

// SetResponse configures a simple response for an operation name.
func (m *MockGraphQL) SetResponse(operation string, resp MockResponse) {
	m.SetHandler(operation, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of GraphQL requests made to the server.
func (m *MockGraphQL) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// LastRequest returns the most recent decoded request, or nil.
func (m *MockGraphQL) LastRequest() *RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequest
}

// defaultHandler answers unknown operations like a GraphQL server would.
func (m *MockGraphQL) defaultHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"data":null,"errors":[{"message":"unknown operation"}]}`))
}

// NewDataResponse creates a 200 OK response whose body is the given envelope.
func NewDataResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewGraphQLErrorResponse creates a 200 OK response carrying a GraphQL error.
func NewGraphQLErrorResponse(message string) MockResponse {
	msg, _ := json.Marshal(message)
	return NewDataResponse(`{"data":null,"errors":[{"message":` + string(msg) + `}]}`)
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
			"Retry-After":  "30",
		},
	}
}

// Canned GetCharacters payloads.
const (
	// RickSanchezPayload holds a single fully populated character.
	RickSanchezPayload = `{"data":{"characters":{"__typename":"Characters","results":[` +
		`{"__typename":"Character","id":"1","name":"Rick Sanchez","species":"Human",` +
		`"image":"https://rickandmortyapi.com/api/character/avatar/1.jpeg",` +
		`"origin":{"__typename":"Location","id":"1","name":"Earth"},` +
		`"location":{"__typename":"Location","id":"3","name":"Citadel of Ricks"}}]}}}`

	// ThreeCharactersPayload holds three characters, one without origin and location.
	ThreeCharactersPayload = `{"data":{"characters":{"results":[` +
		`{"id":"1","name":"Rick Sanchez","species":"Human","origin":{"id":"1","name":"Earth"},"location":{"id":"3","name":"Citadel of Ricks"}},` +
		`{"id":"2","name":"Morty Smith","species":"Human","origin":null,"location":{"id":"20","name":"Earth (Replacement Dimension)"}},` +
		`{"id":"6","name":"Abadango Cluster Princess","species":"Alien"}]}}}`

	// EmptyResultsPayload holds an empty result list.
	EmptyResultsPayload = `{"data":{"characters":{"results":[]}}}`

	// MissingResultsPayload lacks the results field.
	MissingResultsPayload = `{"data":{"characters":null}}`
)

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// keyPrefix namespaces all cache keys in a shared store.
const keyPrefix = "gql"

// CacheKey identifies a cached GraphQL response.
type CacheKey struct {
	// Operation is the GraphQL operation name (e.g., "GetCharacters")
	Operation string

	// Query is the full query document
	Query string

	// Variables are the operation variables (nil when the query takes none)
	Variables map[string]any
}

// String generates a deterministic cache key string.
// Format: gql:operation:sha256(query)[:vars-json]
//
// Example:
//
//	gql:GetCharacters:3f1c...e9
func (k CacheKey) String() string {
	parts := []string{keyPrefix}

	if op := strings.TrimSpace(k.Operation); op != "" {
		parts = append(parts, op)
	}

	sum := sha256.Sum256([]byte(normalizeQuery(k.Query)))
	parts = append(parts, hex.EncodeToString(sum[:]))

	// encoding/json sorts map keys, which keeps the encoding canonical
	if len(k.Variables) > 0 {
		if vars, err := json.Marshal(k.Variables); err == nil {
			parts = append(parts, string(vars))
		}
	}

	return strings.Join(parts, ":")
}

// normalizeQuery collapses whitespace so formatting changes in the query
// document do not produce a different key.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

package characters

// OperationName is the name of the only operation this package issues.
const OperationName = "GetCharacters"

// DefaultEndpoint is the public Rick and Morty GraphQL API.
const DefaultEndpoint = "https://rickandmortyapi.com/graphql"

// GetCharactersQuery is the fixed query document. It takes no variables.
const GetCharactersQuery = `query GetCharacters {
  characters {
    __typename
    results {
      id
      __typename
      name
      species
      image
      origin {
        id
        __typename
        name
      }
      location {
        id
        __typename
        name
      }
    }
  }
}`

// getCharactersData mirrors the data field of a GetCharacters response.
// Pointers distinguish absent or null fields from empty ones.
type getCharactersData struct {
	Characters *struct {
		Results []*Character `json:"results"`
	} `json:"characters"`
}

// list flattens the payload. Absent levels and null entries yield nothing.
func (d getCharactersData) list() []Character {
	if d.Characters == nil {
		return nil
	}

	out := make([]Character, 0, len(d.Characters.Results))
	for _, c := range d.Characters.Results {
		if c == nil {
			continue
		}
		out = append(out, *c)
	}
	return out
}

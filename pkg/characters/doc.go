// Package characters fetches the character list from the Rick and Morty
// GraphQL API and reports the outcome as a tri-state Result.
//
// Example usage:
//
//	client, _ := graphql.New(graphql.DefaultConfig(characters.DefaultEndpoint, "my-app/1.0"))
//	fetcher := characters.NewFetcher(client)
//
//	switch r := fetcher.FetchCharacters(ctx).(type) {
//	case characters.Failed:
//		log.Error().Err(r.Reason).Msg("fetch failed")
//	case characters.Succeeded:
//		for _, c := range r.Characters {
//			fmt.Println(c.Name)
//		}
//	}
//
// The fetcher never retries. Callers re-invoke FetchCharacters to retry.
package characters

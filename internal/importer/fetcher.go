package importer

import "context"

// Fetcher: источник JSON; в проде это *fetch.Client.
type Fetcher interface {
	GetJSON(ctx context.Context, url string) ([]byte, error)
}

package providers

import (
	"fmt"

	"ghsecaudit/internal/fetcher"
)

// perPage is the largest page size the REST listings accept.
const perPage = 100

// Source fetches the typed inputs of an audit. Every request goes through the
// Fetcher, so retries and rate-limit suspension apply uniformly.
type Source struct {
	f *fetcher.Fetcher
}

func NewSource(f *fetcher.Fetcher) (*Source, error) {
	if f == nil || f.GitHub() == nil {
		return nil, fmt.Errorf("providers: nil fetcher or GitHub client")
	}
	return &Source{f: f}, nil
}

package ocr

import (
	"context"
	"fmt"

	"github.com/tsawler/sectioner/logging"
)

// PageFetcher retrieves one page of results for an OCR job.
// An empty nextToken requests the first page.
type PageFetcher interface {
	FetchPage(ctx context.Context, jobID, nextToken string) (*PageResult, error)
}

// PageFetcherFunc adapts a function to the PageFetcher interface
type PageFetcherFunc func(ctx context.Context, jobID, nextToken string) (*PageResult, error)

// FetchPage calls f
func (f PageFetcherFunc) FetchPage(ctx context.Context, jobID, nextToken string) (*PageResult, error) {
	return f(ctx, jobID, nextToken)
}

// Collect follows NextToken until the service reports no more pages and
// returns every page result in the order received.
func Collect(ctx context.Context, fetcher PageFetcher, jobID string) ([]PageResult, error) {
	var results []PageResult
	seen := make(map[string]bool)
	token := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetcher.FetchPage(ctx, jobID, token)
		if err != nil {
			return nil, fmt.Errorf("fetching results for job %s: %w", jobID, err)
		}
		if page == nil {
			break
		}
		results = append(results, *page)

		if page.NextToken == "" {
			break
		}
		if seen[page.NextToken] {
			return nil, fmt.Errorf("job %s: next token %q repeated", jobID, page.NextToken)
		}
		seen[page.NextToken] = true
		token = page.NextToken
	}

	if len(results) == 0 {
		return nil, ErrNoPages
	}

	logging.Logger().Debug("collected OCR results",
		"job", jobID,
		"results", len(results))

	return results, nil
}

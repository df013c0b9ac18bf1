package explorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"placebrief/internal/places"
	"placebrief/internal/report"
	"placebrief/internal/summarizer"
	"runtime"
	"sync"
)

const exploreMaxConcurrencyGrowthFactor = 4

// Searcher is the subset of the places client the explorer needs.
type Searcher interface {
	SearchPlaces(
		ctx context.Context,
		query string,
		bias *places.LocationBias,
		maxResults int,
	) (*places.PlacesResponse, error)
}

type Explorer struct {
	searcher   Searcher
	summarizer summarizer.Summarizer
	bias       *places.LocationBias
	maxResults int
	log        *slog.Logger
}

// New builds an explorer. A nil summarizer disables AI summaries.
func New(
	searcher Searcher,
	s summarizer.Summarizer,
	bias *places.LocationBias,
	maxResults int,
	log *slog.Logger,
) *Explorer {
	return &Explorer{
		searcher:   searcher,
		summarizer: s,
		bias:       bias,
		maxResults: maxResults,
		log:        log,
	}
}

// Explore fetches places for query and attaches a summary when one can be
// produced. Only places search failures are returned.
func (e *Explorer) Explore(ctx context.Context, query string) (*report.Report, error) {
	resp, err := e.searcher.SearchPlaces(ctx, query, e.bias, e.maxResults)
	if err != nil {
		return nil, fmt.Errorf("search places (query = %s): %w", query, err)
	}

	if len(resp.Places) == 0 {
		e.log.WarnContext(ctx, "No places found in the response",
			"query", query,
			"response", resp)
	} else {
		e.log.InfoContext(ctx, "Places are found",
			"query", query,
			"placeCount", len(resp.Places))
	}

	r := report.New(query, resp, nil)
	r.Summary = e.SummarizeWithAI(ctx, r.Places())

	return r, nil
}

// SummarizeWithAI returns nil instead of an error whenever a summary is
// unavailable: disabled, nothing to summarize, or any summarizer failure.
func (e *Explorer) SummarizeWithAI(ctx context.Context, ps []places.Place) *summarizer.LocationSummary {
	if e.summarizer == nil || len(ps) == 0 {
		return nil
	}

	summary, err := e.summarizer.Summarize(ctx, ps)
	if err != nil {
		e.log.WarnContext(ctx, "Failed to summarize places so summary is skipped",
			"error", err,
			"placeCount", len(ps))

		return nil
	}
	if summary == nil {
		e.log.WarnContext(ctx, "Summarizer returned no summary so summary is skipped",
			"placeCount", len(ps))

		return nil
	}

	e.log.InfoContext(ctx, "Places are summarized",
		"placeCount", len(ps),
		"rating", summary.Rating)

	return summary
}

// ExploreAll runs Explore for every query concurrently. The returned slice is
// aligned with queries; failed queries leave a nil entry and contribute to
// the joined error.
func (e *Explorer) ExploreAll(ctx context.Context, queries []string) ([]*report.Report, error) {
	reports := make([]*report.Report, len(queries))
	if len(queries) == 0 {
		return reports, nil
	}

	var wg sync.WaitGroup

	concurrency := min(runtime.NumCPU()*exploreMaxConcurrencyGrowthFactor, len(queries))
	semCh := make(chan struct{}, concurrency)
	errs := make([]error, len(queries))

	for i, query := range queries {
		wg.Add(1)
		semCh <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-semCh }()

			r, err := e.Explore(ctx, query)
			if err != nil {
				errs[i] = fmt.Errorf("explore: %w", err)
				return
			}

			reports[i] = r
		}()
	}

	wg.Wait()

	return reports, errors.Join(errs...)
}

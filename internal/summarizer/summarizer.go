package summarizer

import (
	"context"
	"placebrief/internal/places"
)

// Summarizer produces a single summary for a set of places.
type Summarizer interface {
	Summarize(ctx context.Context, places []places.Place) (*LocationSummary, error)
}

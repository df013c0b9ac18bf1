package report

import (
	"fmt"
	"io"
	"placebrief/internal/places"
	"placebrief/internal/summarizer"
	"strconv"
	"strings"
)

const (
	placeSeparator   = "-------------------"
	summarySeparator = "==================="
	noNameFallback   = "No name available"
)

// Report is everything shown for one query: paired places and an optional
// summary.
type Report struct {
	Query   string
	Results []places.Result
	Summary *summarizer.LocationSummary
}

func New(query string, resp *places.PlacesResponse, summary *summarizer.LocationSummary) *Report {
	return &Report{
		Query:   query,
		Results: resp.Results(),
		Summary: summary,
	}
}

// Places returns the places of the report in order.
func (r *Report) Places() []places.Place {
	ps := make([]places.Place, 0, len(r.Results))
	for _, result := range r.Results {
		ps = append(ps, result.Place)
	}
	return ps
}

// WriteText renders the report for a terminal.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Results for %q\n", r.Query)

	if len(r.Results) == 0 {
		b.WriteString("No places found in the response\n")
	}

	for i, result := range r.Results {
		writePlaceText(&b, i, result)
	}

	if r.Summary != nil {
		writeSummaryText(&b, r.Summary)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func displayName(place places.Place) string {
	if name := strings.TrimSpace(place.DisplayName.Text); name != "" {
		return name
	}
	return noNameFallback
}

func writePlaceText(b *strings.Builder, index int, result places.Result) {
	place := result.Place

	b.WriteString("\n" + placeSeparator + "\n")
	fmt.Fprintf(b, "Place %d: %s\n", index+1, displayName(place))

	if overview := place.Overview(); overview != "" {
		b.WriteString("\nOverview:\n")
		b.WriteString(overview + "\n")
	}

	if description := place.Description(); description != "" {
		b.WriteString("\nDetailed Description:\n")
		b.WriteString(description + "\n")
	}

	if place.AreaSummary != nil {
		b.WriteString("\nArea Information:\n")
		for _, block := range place.AreaSummary.ContentBlocks {
			fmt.Fprintf(b, "\n%s:\n", strings.ToUpper(block.Topic))
			b.WriteString(block.Content.Text + "\n")
		}
	}

	if review, ok := result.Context.TopReview(); ok {
		b.WriteString("\nTop Review:\n")
		b.WriteString(`"` + review.Text.Text + `"` + "\n")
	}
}

func writeSummaryText(b *strings.Builder, s *summarizer.LocationSummary) {
	b.WriteString("\n" + summarySeparator + "\n")
	b.WriteString("AI Summary:\n")
	b.WriteString(s.Overview + "\n")

	writeListText(b, "Highlights", s.Highlights)
	writeListText(b, "Best For", s.BestFor)

	if s.PriceRange != "" {
		fmt.Fprintf(b, "\nPrice Range: %s\n", s.PriceRange)
	}

	writeListText(b, "Warnings", s.Warnings)

	fmt.Fprintf(b, "\nRating: %s/5\n", formatRating(s.Rating))
}

func writeListText(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s:\n", title)
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}

func formatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}

package report_test

import (
	"bytes"
	"placebrief/internal/places"
	"placebrief/internal/report"
	"placebrief/internal/summarizer"
	"strings"
	"testing"
)

func academyResponse() *places.PlacesResponse {
	return &places.PlacesResponse{
		Places: []places.Place{
			{
				ID:          "a",
				DisplayName: places.LocalizedText{Text: "Mountain View Academy", LanguageCode: "en"},
				GenerativeSummary: &places.GenerativeSummary{
					Overview: &places.LocalizedText{Text: "A top school", LanguageCode: "en"},
				},
			},
		},
	}
}

func TestWriteTextSinglePlaceWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteText(&buf, report.New("Schools", academyResponse(), nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()

	if !strings.Contains(out, "Place 1: Mountain View Academy\n") {
		t.Fatalf("missing place header:\n%s", out)
	}
	if !strings.Contains(out, "\nOverview:\nA top school\n") {
		t.Fatalf("missing overview section:\n%s", out)
	}
	if strings.Contains(out, "Top Review") {
		t.Fatalf("expected no top review line:\n%s", out)
	}
	if strings.Contains(out, "Detailed Description") || strings.Contains(out, "Area Information") {
		t.Fatalf("expected absent sections to be skipped:\n%s", out)
	}
	if strings.Contains(out, "AI Summary") {
		t.Fatalf("expected no summary section:\n%s", out)
	}
}

func TestWriteTextFullPlace(t *testing.T) {
	resp := &places.PlacesResponse{
		Places: []places.Place{
			{
				GenerativeSummary: &places.GenerativeSummary{
					Description: &places.LocalizedText{Text: "Long form"},
				},
				AreaSummary: &places.AreaSummary{
					ContentBlocks: []places.ContentBlock{
						{Topic: "overview", Content: places.LocalizedText{Text: "Leafy suburb"}},
					},
				},
			},
		},
		ContextualContents: []places.ContextualContent{
			{Reviews: []places.Review{
				{Text: places.LocalizedText{Text: "Great teachers"}},
				{Text: places.LocalizedText{Text: "Second review"}},
			}},
		},
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf, report.New("Schools", resp, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Place 1: No name available\n",
		"\nDetailed Description:\nLong form\n",
		"\nArea Information:\n",
		"\nOVERVIEW:\nLeafy suburb\n",
		"\nTop Review:\n\"Great teachers\"\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Second review") {
		t.Fatalf("expected only the first review:\n%s", out)
	}
}

func TestWriteTextNoPlaces(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteText(&buf, report.New("Parks", &places.PlacesResponse{}, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), "No places found in the response") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteTextSummary(t *testing.T) {
	summary := &summarizer.LocationSummary{
		Overview:   "Quiet area",
		Highlights: []string{"Good schools"},
		BestFor:    []string{"Families"},
		PriceRange: "$$",
		Rating:     4.5,
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf, report.New("Schools", academyResponse(), summary)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"AI Summary:\nQuiet area\n",
		"\nHighlights:\n- Good schools\n",
		"\nBest For:\n- Families\n",
		"\nPrice Range: $$\n",
		"\nRating: 4.5/5\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warnings") {
		t.Fatalf("expected empty warnings to be skipped:\n%s", out)
	}
}

func TestReportPlaces(t *testing.T) {
	r := report.New("Schools", academyResponse(), nil)

	ps := r.Places()
	if len(ps) != 1 || ps[0].ID != "a" {
		t.Fatalf("unexpected places: %+v", ps)
	}
}

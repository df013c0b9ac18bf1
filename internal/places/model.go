package places

import (
	"errors"
	"fmt"
)

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Rectangle struct {
	Low  LatLng `json:"low"`
	High LatLng `json:"high"`
}

// LocationBias narrows a text search to a rectangle.
type LocationBias struct {
	Rectangle Rectangle `json:"rectangle"`
}

// NewRectangleBias builds a bias from the south-west and north-east corners.
func NewRectangleBias(low, high LatLng) LocationBias {
	return LocationBias{Rectangle: Rectangle{Low: low, High: high}}
}

// Validate reports whether the rectangle is well-formed: both corners are
// valid coordinates and low does not exceed high on either axis.
func (b LocationBias) Validate() error {
	low, high := b.Rectangle.Low, b.Rectangle.High

	var errs []error
	corners := []struct {
		name string
		p    LatLng
	}{{"low", low}, {"high", high}}

	for _, c := range corners {
		name, p := c.name, c.p
		if p.Latitude < -90 || p.Latitude > 90 {
			errs = append(errs, fmt.Errorf("%s latitude out of range (latitude = %v)", name, p.Latitude))
		}
		if p.Longitude < -180 || p.Longitude > 180 {
			errs = append(errs, fmt.Errorf("%s longitude out of range (longitude = %v)", name, p.Longitude))
		}
	}

	if low.Latitude > high.Latitude {
		errs = append(errs, fmt.Errorf(
			"low latitude exceeds high latitude (low = %v, high = %v)",
			low.Latitude,
			high.Latitude,
		))
	}
	if low.Longitude > high.Longitude {
		errs = append(errs, fmt.Errorf(
			"low longitude exceeds high longitude (low = %v, high = %v)",
			low.Longitude,
			high.Longitude,
		))
	}

	return errors.Join(errs...)
}

type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

type GenerativeSummary struct {
	Overview    *LocalizedText `json:"overview,omitempty"`
	Description *LocalizedText `json:"description,omitempty"`
}

type ContentBlock struct {
	Topic      string        `json:"topic"`
	Content    LocalizedText `json:"content"`
	References References    `json:"references"`
}

type References struct {
	Places []string `json:"places,omitempty"`
}

type AreaSummary struct {
	ContentBlocks  []ContentBlock `json:"contentBlocks"`
	FlagContentURI string         `json:"flagContentUri,omitempty"`
}

type Place struct {
	ID                string             `json:"id"`
	DisplayName       LocalizedText      `json:"displayName"`
	GenerativeSummary *GenerativeSummary `json:"generativeSummary,omitempty"`
	AreaSummary       *AreaSummary       `json:"areaSummary,omitempty"`
}

// Overview returns the generative overview text or an empty string.
func (p Place) Overview() string {
	if p.GenerativeSummary == nil || p.GenerativeSummary.Overview == nil {
		return ""
	}
	return p.GenerativeSummary.Overview.Text
}

// Description returns the generative description text or an empty string.
func (p Place) Description() string {
	if p.GenerativeSummary == nil || p.GenerativeSummary.Description == nil {
		return ""
	}
	return p.GenerativeSummary.Description.Text
}

type AuthorAttribution struct {
	DisplayName string `json:"displayName"`
	URI         string `json:"uri,omitempty"`
	PhotoURI    string `json:"photoUri,omitempty"`
}

type Review struct {
	Name              string            `json:"name"`
	Rating            float64           `json:"rating"`
	Text              LocalizedText     `json:"text"`
	AuthorAttribution AuthorAttribution `json:"authorAttribution"`
}

type Photo struct {
	Name               string              `json:"name"`
	WidthPx            int                 `json:"widthPx"`
	HeightPx           int                 `json:"heightPx"`
	AuthorAttributions []AuthorAttribution `json:"authorAttributions"`
}

type TextRange struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

type HighlightedText struct {
	Text                  string      `json:"text"`
	HighlightedTextRanges []TextRange `json:"highlightedTextRanges,omitempty"`
}

type ReviewJustification struct {
	HighlightedText HighlightedText `json:"highlightedText"`
	Review          Review          `json:"review"`
}

type BusinessAvailabilityAttributesJustification struct {
	DineIn bool `json:"dineIn"`
}

type Justification struct {
	ReviewJustification                         *ReviewJustification                         `json:"reviewJustification,omitempty"`
	BusinessAvailabilityAttributesJustification *BusinessAvailabilityAttributesJustification `json:"businessAvailabilityAttributesJustification,omitempty"`
}

type ContextualContent struct {
	Reviews        []Review        `json:"reviews,omitempty"`
	Photos         []Photo         `json:"photos,omitempty"`
	Justifications []Justification `json:"justifications,omitempty"`
}

// TopReview returns the first review, if any.
func (c *ContextualContent) TopReview() (Review, bool) {
	if c == nil || len(c.Reviews) == 0 {
		return Review{}, false
	}
	return c.Reviews[0], true
}

// PlacesResponse is the searchText envelope. ContextualContents is parallel
// to Places; use Results to consume both.
type PlacesResponse struct {
	Places             []Place             `json:"places"`
	ContextualContents []ContextualContent `json:"contextualContents,omitempty"`
}

// Result pairs a place with the contextual content returned at the same
// position, or nil when the server returned none for it.
type Result struct {
	Place   Place
	Context *ContextualContent
}

func (r *PlacesResponse) Results() []Result {
	if r == nil {
		return nil
	}

	results := make([]Result, 0, len(r.Places))
	for i, place := range r.Places {
		result := Result{Place: place}
		if i < len(r.ContextualContents) {
			result.Context = &r.ContextualContents[i]
		}
		results = append(results, result)
	}

	return results
}

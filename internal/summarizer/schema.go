package summarizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"sync"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaLocation = "https://placebrief.local/schemas/location_summary.json"

// LocationSummary is the single source of the analyze_location contract: the
// tool parameters sent to the model and the local validator are both
// reflected from these tags.
type LocationSummary struct {
	Overview   string   `json:"overview"             jsonschema:"description=Short overview of the area based on the places"`
	Highlights []string `json:"highlights"           jsonschema:"description=Key highlights and notable features"`
	PriceRange string   `json:"priceRange,omitempty" jsonschema:"description=General price range if applicable"`
	BestFor    []string `json:"bestFor"              jsonschema:"description=Types of visitors or activities the area suits best"`
	Warnings   []string `json:"warnings,omitempty"   jsonschema:"description=Important warnings or considerations"`
	Rating     float64  `json:"rating"               jsonschema:"minimum=1,maximum=5,description=Overall rating from 1 to 5"`
}

type compiledSchema struct {
	raw       []byte
	validator *validator.Schema
}

//nolint:gochecknoglobals // Reflected once and immutable afterwards.
var summarySchema = sync.OnceValues(compileSchema)

func compileSchema() (*compiledSchema, error) {
	reflector := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	raw, err := json.Marshal(reflector.Reflect(&LocationSummary{}))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	doc, err := validator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := validator.NewCompiler()
	if err = c.AddResource(schemaLocation, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	sch, err := c.Compile(schemaLocation)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &compiledSchema{raw: raw, validator: sch}, nil
}

// SchemaJSON returns the reflected JSON Schema document.
func SchemaJSON() ([]byte, error) {
	s, err := summarySchema()
	if err != nil {
		return nil, err
	}

	return bytes.Clone(s.raw), nil
}

// ToolParameters returns the schema in the shape expected for function tool
// parameters, without the meta keys.
func ToolParameters() (map[string]any, error) {
	s, err := summarySchema()
	if err != nil {
		return nil, err
	}

	var params map[string]any
	if err = json.Unmarshal(s.raw, &params); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	maps.DeleteFunc(params, func(k string, _ any) bool {
		return k == "$schema" || k == "$id"
	})

	return params, nil
}

// ValidateSummary parses raw tool arguments, checks them against the schema
// and decodes the accepted payload.
func ValidateSummary(raw []byte) (*LocationSummary, error) {
	s, err := summarySchema()
	if err != nil {
		return nil, err
	}

	inst, err := validator.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	if err = s.validator.Validate(inst); err != nil {
		return nil, fmt.Errorf("validate arguments: %w", err)
	}

	var summary LocationSummary
	if err = json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	return &summary, nil
}

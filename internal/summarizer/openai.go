package summarizer

import (
	"context"
	"errors"
	"fmt"
	"placebrief/internal/places"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	DefaultModel        = "gpt-4o-mini"
	AnalyzeLocationTool = "analyze_location"

	toolDescription = "Analyze a set of places and summarize the area they describe."

	systemPrompt = `You are a local area analyst. You receive descriptions of nearby points of interest and produce a structured JSON assessment of the area.

Rules:
- Base every statement on the provided places only.
- Keep the overview to two or three sentences.
- Highlights and bestFor are short phrases.
- Add warnings only when the descriptions support them.
- Rating is a number from 1 to 5.`
)

// OpenAISummarizer calls OpenAI's Chat Completions API with a forced
// analyze_location tool call.
type OpenAISummarizer struct {
	client openai.Client
	model  string
}

// NewOpenAISummarizer builds a new summarizer instance. SDK retries are
// disabled; extra request options are applied after the defaults.
func NewOpenAISummarizer(
	apiKey string,
	model string,
	opts ...option.RequestOption,
) (*OpenAISummarizer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("API key is empty")
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &OpenAISummarizer{
		client: openai.NewClient(clientOpts...),
		model:  model,
	}, nil
}

// Summarize asks the model for a LocationSummary of the given places and
// returns it only if it satisfies the schema.
func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	ps []places.Place,
) (*LocationSummary, error) {
	prompt := BuildPrompt(ps)
	if prompt == "" {
		return nil, errors.New("prompt is empty")
	}

	params, err := ToolParameters()
	if err != nil {
		return nil, fmt.Errorf("build tool parameters: %w", err)
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		Tools: []openai.ChatCompletionToolUnionParam{
			openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
				Name:        AnalyzeLocationTool,
				Description: openai.String(toolDescription),
				Parameters:  shared.FunctionParameters(params),
			}),
		},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfFunctionToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{
					Name: AnalyzeLocationTool,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("completion has no choices")
	}

	choice := completion.Choices[0]
	for _, call := range choice.Message.ToolCalls {
		if call.Function.Name != AnalyzeLocationTool {
			continue
		}

		summary, validateErr := ValidateSummary([]byte(call.Function.Arguments))
		if validateErr != nil {
			return nil, fmt.Errorf("validate summary: %w", validateErr)
		}

		return summary, nil
	}

	return nil, fmt.Errorf(
		"tool call is missing (tool = %s, finishReason = %s, toolCallCount = %d)",
		AnalyzeLocationTool,
		choice.FinishReason,
		len(choice.Message.ToolCalls),
	)
}

package summarizer

import (
	"placebrief/internal/places"
	"strings"
)

// BuildPrompt flattens places into the user message: one paragraph per place
// with its name, generative texts and area summary blocks.
func BuildPrompt(ps []places.Place) string {
	paragraphs := make([]string, 0, len(ps))

	for _, place := range ps {
		var lines []string

		if name := strings.TrimSpace(place.DisplayName.Text); name != "" {
			lines = append(lines, name)
		}
		if overview := strings.TrimSpace(place.Overview()); overview != "" {
			lines = append(lines, overview)
		}
		if description := strings.TrimSpace(place.Description()); description != "" {
			lines = append(lines, description)
		}

		if place.AreaSummary != nil {
			for _, block := range place.AreaSummary.ContentBlocks {
				text := strings.TrimSpace(block.Content.Text)
				if text == "" {
					continue
				}
				lines = append(lines, strings.ToUpper(block.Topic)+": "+text)
			}
		}

		if len(lines) == 0 {
			continue
		}
		paragraphs = append(paragraphs, strings.Join(lines, "\n"))
	}

	return strings.Join(paragraphs, "\n\n")
}

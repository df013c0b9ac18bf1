package report

import (
	"fmt"
	"placebrief/internal/markdown"
	"placebrief/internal/places"
	"placebrief/internal/summarizer"
	"strings"
	"unicode/utf8"
)

const TelegramMessageMaxLength = 4096

// TelegramMessages renders the report as MarkdownV2 messages, each within
// the Telegram length limit. Messages break between lines; only a single line
// longer than a whole message is truncated.
func TelegramMessages(r *Report) []string {
	header := fmt.Sprintf("📍 %s\n\n", markdown.Bold(r.Query))
	continuedHeader := fmt.Sprintf("📍 %s\n\n", markdown.Bold(r.Query+" (continue)"))
	maxLineLength := TelegramMessageMaxLength - max(len(header), len(continuedHeader))

	var lines []string
	if len(r.Results) == 0 {
		lines = append(lines, markdown.Italic("No places found")+"\n")
	}
	for i, result := range r.Results {
		lines = append(lines, placeMarkdown(i, result)...)
		lines = append(lines, "\n")
	}
	if r.Summary != nil {
		lines = append(lines, summaryMarkdown(r.Summary)...)
	}

	var messages []string
	var current strings.Builder
	current.WriteString(header)
	headerLength := current.Len()

	for _, line := range lines {
		if len(line) > maxLineLength {
			line = truncateLine(line, maxLineLength)
		}

		if current.Len()+len(line) > TelegramMessageMaxLength && current.Len() > headerLength {
			messages = append(messages, strings.TrimSpace(current.String()))
			current.Reset()
			current.WriteString(continuedHeader)
			headerLength = current.Len()
		}

		current.WriteString(line)
	}

	if strings.TrimSpace(current.String()[headerLength:]) != "" {
		messages = append(messages, strings.TrimSpace(current.String()))
	}

	return messages
}

func placeMarkdown(index int, result places.Result) []string {
	place := result.Place

	lines := []string{
		markdown.Bold(fmt.Sprintf("%d. %s", index+1, displayName(place))) + "\n",
	}

	if overview := place.Overview(); overview != "" {
		lines = append(lines, markdown.EscapeV2(overview)+"\n")
	}

	if description := place.Description(); description != "" {
		lines = append(lines, markdown.EscapeV2(description)+"\n")
	}

	if place.AreaSummary != nil {
		for _, block := range place.AreaSummary.ContentBlocks {
			lines = append(lines,
				markdown.Italic(strings.ToUpper(block.Topic))+" "+markdown.EscapeV2(block.Content.Text)+"\n")
		}
	}

	if review, ok := result.Context.TopReview(); ok {
		lines = append(lines, markdown.Quote(review.Text.Text)+"\n")
	}

	return lines
}

func summaryMarkdown(s *summarizer.LocationSummary) []string {
	lines := []string{
		"✨ " + markdown.Bold("Summary") + "\n",
		markdown.EscapeV2(s.Overview) + "\n",
	}

	lines = appendListMarkdown(lines, "Highlights", s.Highlights)
	lines = appendListMarkdown(lines, "Best for", s.BestFor)

	if s.PriceRange != "" {
		lines = append(lines, markdown.Italic("Price range")+" "+markdown.EscapeV2(s.PriceRange)+"\n")
	}

	lines = appendListMarkdown(lines, "Warnings", s.Warnings)

	return append(lines, "⭐ "+markdown.EscapeV2(formatRating(s.Rating)+"/5")+"\n")
}

func appendListMarkdown(lines []string, title string, items []string) []string {
	if len(items) == 0 {
		return lines
	}

	lines = append(lines, markdown.Italic(title)+"\n")
	for _, item := range items {
		lines = append(lines, "– "+markdown.EscapeV2(item)+"\n")
	}

	return lines
}

// truncateLine shortens one rendered line to at most limit bytes, keeping the
// trailing newline and closing any bold or italic entity the cut left open.
func truncateLine(line string, limit int) string {
	const maxOpenEntities = 2

	body := strings.TrimSuffix(line, "\n")
	cut := truncateEscaped(body, limit-1-maxOpenEntities)

	type entity struct {
		marker byte
		pos    int
	}

	var open []entity
	for i := 0; i < len(cut); i++ {
		switch c := cut[i]; c {
		case '\\':
			i++
		case '*', '_':
			if len(open) > 0 && open[len(open)-1].marker == c {
				open = open[:len(open)-1]
			} else {
				open = append(open, entity{marker: c, pos: i})
			}
		}
	}

	for len(open) > 0 && open[len(open)-1].pos == len(cut)-1 {
		cut = cut[:len(cut)-1]
		open = open[:len(open)-1]
	}

	var b strings.Builder
	b.WriteString(cut)
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteByte(open[i].marker)
	}
	b.WriteString("\n")

	return b.String()
}

// truncateEscaped cuts s to at most limit bytes on a rune boundary without
// leaving a dangling escape character.
func truncateEscaped(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 0 {
		return ""
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	s = s[:cut]

	trailing := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		trailing++
	}
	if trailing%2 == 1 {
		s = s[:len(s)-1]
	}

	return s
}

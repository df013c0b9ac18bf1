package markdown

import "strings"

// Taken from https://core.telegram.org/bots/api#markdownv2-style.
const specialChars = `_*[]()~` + "`" + `>#+-=|{}.!\`

//nolint:gochecknoglobals // Lookup table meant to be immutable.
var lookup = func() [256]bool {
	var m [256]bool
	for i := range len(specialChars) {
		m[specialChars[i]] = true
	}
	return m
}()

// EscapeV2 escapes text for Telegram MarkdownV2 outside of code entities.
func EscapeV2(input string) string {
	charsToEscape := 0
	for i := range len(input) {
		if lookup[input[i]] {
			charsToEscape++
		}
	}

	if charsToEscape == 0 {
		return input
	}

	var b strings.Builder
	b.Grow(len(input) + charsToEscape)

	for i := range len(input) {
		c := input[i]
		if lookup[c] {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

func Bold(text string) string {
	return "*" + EscapeV2(text) + "*"
}

func Italic(text string) string {
	return "_" + EscapeV2(text) + "_"
}

// Quote renders every line of text as a block quotation.
func Quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = ">" + EscapeV2(line)
	}
	return strings.Join(lines, "\n")
}

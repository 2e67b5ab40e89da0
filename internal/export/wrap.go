package export

import (
	"strings"
)

// MeasureFunc returns the rendered width of text in the current font.
type MeasureFunc func(text string) float64

// Wrap greedily packs the words of each paragraph of text into lines no wider
// than maxWidth. A word wider than maxWidth on its own is split between
// characters.
//
// A single line that already fits is returned unchanged. Otherwise words are
// separated by single spaces and empty paragraphs produce no lines.
func Wrap(text string, maxWidth float64, measure MeasureFunc) []string {
	if !strings.Contains(text, "\n") && measure(text) <= maxWidth {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		current := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= maxWidth {
				current = candidate
				continue
			}

			if measure(word) <= maxWidth {
				lines = append(lines, current)
				current = word
				continue
			}

			if current != "" {
				lines = append(lines, current)
			}
			current = ""
			for _, char := range word {
				next := current + string(char)
				if current != "" && measure(next) > maxWidth {
					lines = append(lines, current)
					next = string(char)
				}
				current = next
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

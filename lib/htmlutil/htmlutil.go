package htmlutil

import (
	"regexp"
)

var breakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// ReplaceBreaks turns <br> tags into newlines so that the text of a fragment
// keeps its line structure.
func ReplaceBreaks(fragment string) string {
	return breakTag.ReplaceAllString(fragment, "\n")
}

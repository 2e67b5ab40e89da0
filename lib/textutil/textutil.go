package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseWhitespace replaces every run of whitespace with a single space and trims the result.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// ExamCodeMatcher returns a predicate reporting whether a title mentions
// "Exam <code>" as a whole token, so that "Exam AZ-104" does not match a title
// for "Exam AZ-1040". An empty code matches nothing.
func ExamCodeMatcher(code string) func(title string) bool {
	if code == "" {
		return func(string) bool { return false }
	}
	pattern := regexp.MustCompile(`(?:^|\s)Exam ` + regexp.QuoteMeta(code) + `(?:\s|$)`)
	return func(title string) bool {
		return pattern.MatchString(CollapseWhitespace(title))
	}
}

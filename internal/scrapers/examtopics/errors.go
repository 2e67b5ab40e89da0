package examtopics

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when the site does not know the exam code.
type NotFoundError struct {
	Code string
	// Suggestions holds exam codes listed by the search page that look like
	// Code, closest first.
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("exam %s not found", e.Code)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// StructureError is returned when a page that was fetched successfully does
// not have the shape the scraper expects.
type StructureError struct {
	Url    string
	Detail string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("unexpected page structure at %s: %s", e.Url, e.Detail)
}

// TransportError is returned when a request fails or answers with a non-2xx
// status.
type TransportError struct {
	Url        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request %s: %v", e.Url, e.Err)
	}
	return fmt.Sprintf("request %s: status %d", e.Url, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

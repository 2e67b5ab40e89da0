package exam

import (
	"encoding/json"
	"strings"
)

type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusComplete   Status = "complete"
)

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	switch strings.ReplaceAll(strings.TrimSpace(raw), " ", "-") {
	case string(StatusComplete):
		*s = StatusComplete
	default:
		*s = StatusInProgress
	}
	return nil
}

// LinkSet is the discovered detail links of an exam, LastPage is the last
// listing page that was fully processed.
type LinkSet struct {
	Links    []string `json:"links"`
	LastPage int      `json:"page_num"`
	Status   Status   `json:"status"`
}

type Result struct {
	Status    Status     `json:"status"`
	Error     string     `json:"error"`
	Questions []Question `json:"questions"`
}

// Has reports whether the result holds a question with the given number.
func (r Result) Has(n Number) bool {
	for _, q := range r.Questions {
		if q.Number == n {
			return true
		}
	}
	return false
}

// Find returns the question with the given number.
func (r Result) Find(n Number) (Question, bool) {
	for _, q := range r.Questions {
		if q.Number == n {
			return q, true
		}
	}
	return Question{}, false
}

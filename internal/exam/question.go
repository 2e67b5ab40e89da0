package exam

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Number is a question number. It is always compared numerically, blobs
// written by older tooling store it as a string so both forms are accepted.
type Number int

func (n Number) String() string {
	return strconv.Itoa(int(n))
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	switch value := raw.(type) {
	case float64:
		*n = Number(value)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			// "unknown" in legacy blobs
			*n = 0
			return nil
		}
		*n = Number(parsed)
	case nil:
		*n = 0
	default:
		return fmt.Errorf("invalid question number: %s", string(data))
	}
	return nil
}

var questionIdRegex = regexp.MustCompile(`question-(\d+)`)

// NumberFromLink extracts the question number embedded in a detail link,
// ok is false when the link carries none.
func NumberFromLink(link string) (Number, bool) {
	groups := questionIdRegex.FindStringSubmatch(link)
	if len(groups) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(groups[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return Number(n), true
}

// VoteSet holds the option labels the community voted for, ex. "AC".
// The empty set means no most-voted information is available.
type VoteSet string

// Labels returns every option label in the set in order.
func (v VoteSet) Labels() []string {
	var out []string
	for _, r := range string(v) {
		out = append(out, string(r))
	}
	return out
}

func (v VoteSet) Contains(label string) bool {
	return label != "" && strings.Contains(string(v), label)
}

func (v VoteSet) MarshalJSON() ([]byte, error) {
	if v == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(v))
}

func (v *VoteSet) UnmarshalJSON(data []byte) error {
	var raw *string
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}
	if raw == nil {
		*v = ""
		return nil
	}
	*v = VoteSet(*raw)
	return nil
}

// OptionLabel returns the identity of an answer option. Options are always
// rendered by the site as "<label>. <text>", so the label is the first character.
func OptionLabel(answer string) string {
	r, size := utf8.DecodeRuneInString(strings.TrimSpace(answer))
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

type Comment struct {
	Content        string   `json:"content"`
	SelectedAnswer string   `json:"selected_answer"`
	Replies        []string `json:"replies"`
}

type Question struct {
	Number    Number    `json:"question_number"`
	Link      string    `json:"link"`
	Prompt    string    `json:"question"`
	Answers   []string  `json:"answers"`
	MostVoted VoteSet   `json:"most_voted"`
	Comments  []Comment `json:"comments"`
	// Error is set when the page could not be fetched at all, every other field is
	// then empty.
	Error string `json:"error,omitempty"`
}

// IsMostVoted reports whether the answer option is part of the most voted set.
func (q Question) IsMostVoted(answer string) bool {
	return q.MostVoted.Contains(OptionLabel(answer))
}

// SortQuestions sorts questions by numeric question number in place.
func SortQuestions(questions []Question) {
	slices.SortStableFunc(questions, func(a, b Question) int {
		return int(a.Number) - int(b.Number)
	})
}

// SortLinks sorts detail links by the question number embedded in them, links
// without a number are kept at the end in their original order.
func SortLinks(links []string) {
	slices.SortStableFunc(links, func(a, b string) int {
		na, aok := NumberFromLink(a)
		nb, bok := NumberFromLink(b)
		switch {
		case aok && bok:
			return int(na) - int(nb)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
}

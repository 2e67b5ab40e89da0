// Package browse holds the state of browsing one exam question by question.
// Every operation returns a new State, nothing is shared between values.
package browse

import (
	"errors"
	"math/rand/v2"
	"slices"

	"examtopics-viewer/internal/exam"
)

var (
	ErrNoMostVoted    = errors.New("no most voted answer info available")
	ErrNoSuchQuestion = errors.New("no question found with that number")
)

type State struct {
	questions []exam.Question
	current   int

	// Highlight is the per question "show most voted" flag, it is reset
	// whenever another question is selected.
	Highlight bool
	// DefaultHighlight highlights most voted answers on every question.
	DefaultHighlight bool
	ShowDiscussion   bool
}

func New(questions []exam.Question) State {
	sorted := slices.Clone(questions)
	exam.SortQuestions(sorted)
	return State{questions: sorted}
}

func (s State) Len() int {
	return len(s.questions)
}

// Current returns the selected question, ok is false when there are none.
func (s State) Current() (exam.Question, bool) {
	if len(s.questions) == 0 {
		return exam.Question{}, false
	}
	return s.questions[s.current], true
}

// Highlighted reports whether the most voted answers of the current question
// are shown.
func (s State) Highlighted() bool {
	q, ok := s.Current()
	if !ok || q.MostVoted == "" {
		return false
	}
	return s.Highlight || s.DefaultHighlight
}

// IsHighlighted reports whether answer is drawn as most voted.
func (s State) IsHighlighted(answer string) bool {
	q, ok := s.Current()
	return ok && s.Highlighted() && q.IsMostVoted(answer)
}

func (s State) selectIndex(i int) State {
	s.current = i
	s.Highlight = false
	return s
}

// Next selects the question with the smallest number above the current one.
// The last question stays selected.
func (s State) Next() State {
	q, ok := s.Current()
	if !ok {
		return s
	}
	for i, candidate := range s.questions {
		if candidate.Number > q.Number {
			return s.selectIndex(i)
		}
	}
	return s.selectIndex(s.current)
}

// Previous selects the question with the largest number below the current
// one. The first question stays selected.
func (s State) Previous() State {
	q, ok := s.Current()
	if !ok {
		return s
	}
	for i := len(s.questions) - 1; i >= 0; i-- {
		if s.questions[i].Number < q.Number {
			return s.selectIndex(i)
		}
	}
	return s.selectIndex(s.current)
}

func (s State) Random(rng *rand.Rand) State {
	if len(s.questions) == 0 {
		return s
	}
	return s.selectIndex(rng.IntN(len(s.questions)))
}

func (s State) Jump(n exam.Number) (State, error) {
	for i, q := range s.questions {
		if q.Number == n {
			return s.selectIndex(i), nil
		}
	}
	return s, ErrNoSuchQuestion
}

func (s State) ToggleHighlight() (State, error) {
	q, ok := s.Current()
	if !ok || q.MostVoted == "" {
		return s, ErrNoMostVoted
	}
	s.Highlight = !s.Highlight
	return s, nil
}

func (s State) ToggleDefaultHighlight() State {
	s.DefaultHighlight = !s.DefaultHighlight
	return s
}

func (s State) ToggleDiscussion() State {
	s.ShowDiscussion = !s.ShowDiscussion
	return s
}

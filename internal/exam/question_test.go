package exam

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNumberFromLink(t *testing.T) {
	cases := []struct {
		link   string
		expect Number
		ok     bool
	}{
		{link: "/discussions/amazon/view/12345-exam-aws-certified-question-17-discussion/", expect: 17, ok: true},
		{link: "https://www.examtopics.com/discussions/microsoft/view/1-exam-az-104-topic-1-question-105-discussion/", expect: 105, ok: true},
		{link: "/discussions/amazon/view/99-exam-aws-discussion/", ok: false},
		{link: "/discussions/amazon/view/99-exam-aws-question-0-discussion/", ok: false},
	}
	for _, test := range cases {
		n, ok := NumberFromLink(test.link)
		require.Equal(t, test.ok, ok, test.link)
		require.Equal(t, test.expect, n, test.link)
	}
}

func TestSortQuestionsIsNumeric(t *testing.T) {
	var questions []Question
	for _, raw := range []string{`"10"`, `"2"`, `"1"`} {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(raw), &n))
		questions = append(questions, Question{Number: n})
	}

	SortQuestions(questions)

	var order []Number
	for _, q := range questions {
		order = append(order, q.Number)
	}
	require.Equal(t, []Number{1, 2, 10}, order)
}

func TestSortLinks(t *testing.T) {
	links := []string{
		"/view/3-exam-x-question-10-discussion/",
		"/view/9-exam-x-discussion/",
		"/view/1-exam-x-question-2-discussion/",
		"/view/2-exam-x-question-1-discussion/",
	}
	SortLinks(links)
	require.Equal(t, []string{
		"/view/2-exam-x-question-1-discussion/",
		"/view/1-exam-x-question-2-discussion/",
		"/view/3-exam-x-question-10-discussion/",
		"/view/9-exam-x-discussion/",
	}, links)
}

func TestNumberJSON(t *testing.T) {
	cases := []struct {
		raw    string
		expect Number
	}{
		{raw: `"42"`, expect: 42},
		{raw: `42`, expect: 42},
		{raw: `"unknown"`, expect: 0},
		{raw: `null`, expect: 0},
	}
	for _, test := range cases {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(test.raw), &n), test.raw)
		require.Equal(t, test.expect, n, test.raw)
	}

	var n Number
	require.Error(t, json.Unmarshal([]byte(`[1]`), &n))
}

func TestMostVotedConvention(t *testing.T) {
	q := Question{
		Answers:   []string{"A. Use S3", "B. Use EBS", "C. Use EFS", "D. Use Glacier"},
		MostVoted: "AC",
	}
	var highlighted []string
	for _, a := range q.Answers {
		if q.IsMostVoted(a) {
			highlighted = append(highlighted, OptionLabel(a))
		}
	}
	require.Equal(t, []string{"A", "C"}, highlighted)
	require.Equal(t, []string{"A", "C"}, q.MostVoted.Labels())

	require.False(t, Question{Answers: q.Answers}.IsMostVoted("A. Use S3"))
	require.Equal(t, "", OptionLabel("   "))
}

func TestResultRoundTrip(t *testing.T) {
	original := Result{
		Status: StatusInProgress,
		Error:  "Error: request failed",
		Questions: []Question{
			{
				Number:    1,
				Link:      "https://www.examtopics.com/discussions/amazon/view/1-exam-question-1-discussion/",
				Prompt:    `Which service?<br><img src="/assets/media/1.png">`,
				Answers:   []string{"A. S3", "B. EBS"},
				MostVoted: "A",
				Comments: []Comment{
					{Content: "A is right", SelectedAnswer: "A", Replies: []string{"agreed"}},
				},
			},
			{Number: 2, Link: "/q-2"},
		},
	}

	serialized, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(serialized, &decoded))
	require.Empty(t, cmp.Diff(original, decoded))
}

func TestLegacyResult(t *testing.T) {
	legacy := `{
		"status": "in progress",
		"error": "",
		"questions": [
			{"question": "p", "answers": ["A. x"], "comments": [], "question_number": "7", "link": "l", "most_voted": null, "error": null}
		]
	}`
	var decoded Result
	require.NoError(t, json.Unmarshal([]byte(legacy), &decoded))
	require.Equal(t, StatusInProgress, decoded.Status)
	require.Equal(t, Number(7), decoded.Questions[0].Number)
	require.Equal(t, VoteSet(""), decoded.Questions[0].MostVoted)
	require.True(t, decoded.Has(7))
	require.False(t, decoded.Has(8))
}

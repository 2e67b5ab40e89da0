package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "A. Use an S3 bucket", CollapseWhitespace("\n  A.  Use an\t S3\n bucket  "))
	require.Equal(t, "", CollapseWhitespace(" \n\t"))
}

func TestExamCodeMatcher(t *testing.T) {
	cases := []struct {
		title  string
		code   string
		expect bool
	}{
		{title: "Exam AZ-104 topic 1 question 12 discussion", code: "AZ-104", expect: true},
		{title: "Exam AZ-1040 topic 1 question 12 discussion", code: "AZ-104", expect: false},
		{title: "Exam  SAA-C03\n topic 2 question 1", code: "SAA-C03", expect: true},
		{title: "Exam SAA-C03", code: "SAA-C03", expect: true},
		{title: "Exam SAA-C03 topic 1", code: "", expect: false},
		{title: "Exam CAD topic 1", code: "C.D", expect: false},
	}
	for _, test := range cases {
		require.Equal(t, test.expect, ExamCodeMatcher(test.code)(test.title), test.title)
	}
}

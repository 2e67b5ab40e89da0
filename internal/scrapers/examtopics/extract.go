package examtopics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"
	"examtopics-viewer/lib/htmlutil"
	"examtopics-viewer/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
)

const (
	report_extract_page       = "extract.page"
	report_extract_prompt     = "extract.prompt"
	report_extract_most_voted = "extract.most-voted"
	report_extract_answers    = "extract.answers"
	report_extract_comments   = "extract.comments"
)

// Extract fetches a question page and reads it into a question record.
//
// A failed request yields a record with only Number, Link and Error set. Once
// the page is parsed every field is read on its own, a field that cannot be
// read is left empty and does not affect the others.
func (c *Client) Extract(ctx context.Context, link string) exam.Question {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	full := c.resolve(link)
	number, _ := exam.NumberFromLink(full)
	span.SetAttributes(
		attribute.String("link", full),
		attribute.Int("question", int(number)),
	)

	doc, _, err := c.get(ctx, full)
	if err != nil {
		c.tel.ReportWarning(report_extract_page, err)
		span.RecordError(err)
		return exam.Question{
			Number: number,
			Link:   full,
			Error:  fmt.Sprintf("Request or parsing failed: %v", err),
		}
	}
	c.questionsRead.Add(ctx, 1)

	q := ParseQuestion(doc, c.tel)
	q.Number = number
	q.Link = full
	return q
}

// ParseQuestion reads the fields of a question page. Number and Link are left
// for the caller to fill.
func ParseQuestion(doc htmlutil.Fragment, tel telemetry.API) exam.Question {
	return exam.Question{
		Prompt:    parsePrompt(doc, tel),
		Answers:   parseAnswers(doc, tel),
		MostVoted: parseMostVoted(doc, tel),
		Comments:  parseComments(doc, tel),
	}
}

func parsePrompt(doc htmlutil.Fragment, tel telemetry.API) string {
	body, ok := doc.Find("div", "question-body")
	if !ok {
		tel.ReportDebug(report_extract_prompt, "missing question body")
		return ""
	}
	text, ok := body.Find("p", "card-text")
	if !ok {
		tel.ReportDebug(report_extract_prompt, "missing card text")
		return ""
	}
	return strings.TrimSpace(text.InnerHTML())
}

func parseAnswers(doc htmlutil.Fragment, tel telemetry.API) []string {
	body, ok := doc.Find("div", "question-body")
	if !ok {
		return []string{}
	}
	choices, ok := body.Find("div", "question-choices-container")
	if !ok {
		tel.ReportDebug(report_extract_answers, "no choices")
		return []string{}
	}
	answers := []string{}
	for _, item := range choices.FindAll("li", "") {
		answers = append(answers, textutil.CollapseWhitespace(item.Text()))
	}
	return answers
}

type voteTally struct {
	VotedAnswers string `json:"voted_answers"`
	VoteCount    int    `json:"vote_count"`
	IsMostVoted  bool   `json:"is_most_voted"`
}

func parseMostVoted(doc htmlutil.Fragment, tel telemetry.API) exam.VoteSet {
	tally, ok := doc.Find("div", "voted-answers-tally")
	if !ok {
		return ""
	}
	script, ok := tally.Find("script", "")
	if !ok {
		return ""
	}
	contents := strings.TrimSpace(script.Text())
	if contents == "" {
		return ""
	}

	var votes []voteTally
	err := json.Unmarshal([]byte(contents), &votes)
	if err != nil {
		tel.ReportWarning(report_extract_most_voted, fmt.Errorf("decode vote tally: %w", err))
		return ""
	}
	for _, vote := range votes {
		if vote.IsMostVoted {
			return exam.VoteSet(vote.VotedAnswers)
		}
	}
	return ""
}

// ownChild finds the first element with class inside comment, not looking
// into its replies.
func ownChild(comment htmlutil.Fragment, class string) (htmlutil.Fragment, bool) {
	for _, child := range comment.Children("", "") {
		if child.HasClass("comment-replies") {
			continue
		}
		if child.HasClass(class) {
			return child, true
		}
		found, ok := ownChild(child, class)
		if ok {
			return found, true
		}
	}
	return nil, false
}

func parseComment(container htmlutil.Fragment) exam.Comment {
	comment := exam.Comment{Replies: []string{}}

	if content, ok := ownChild(container, "comment-content"); ok {
		comment.Content = strings.TrimSpace(content.Text())
	}
	if selected, ok := ownChild(container, "comment-selected-answers"); ok {
		if span, ok := selected.Find("span", ""); ok {
			comment.SelectedAnswer = strings.TrimSpace(span.Text())
		}
	}

	if replies, ok := container.Find("div", "comment-replies"); ok {
		// nested replies are flattened into one list
		for _, reply := range replies.FindAll("div", "comment-container") {
			text := ""
			if content, ok := ownChild(reply, "comment-content"); ok {
				text = strings.TrimSpace(content.Text())
			}
			comment.Replies = append(comment.Replies, text)
		}
	}
	return comment
}

func parseComments(doc htmlutil.Fragment, tel telemetry.API) []exam.Comment {
	discussion, ok := doc.Find("div", "discussion-container")
	if !ok {
		tel.ReportDebug(report_extract_comments, "missing discussion")
		return []exam.Comment{}
	}
	comments := []exam.Comment{}
	for _, container := range discussion.Children("div", "comment-container") {
		comments = append(comments, parseComment(container))
	}
	return comments
}

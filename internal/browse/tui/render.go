package tui

import (
	"fmt"
	"strings"

	"examtopics-viewer/internal/exam"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	linkStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	answerStyle    = lipgloss.NewStyle().PaddingLeft(1)
	votedStyle     = lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color("120")).Foreground(lipgloss.Color("16"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	commentStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("250")).Padding(0, 1)
	replyStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("246")).PaddingLeft(1).MarginLeft(2).Italic(true)
	discussionHead = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

func (m Model) renderHeader(q exam.Question) string {
	title := fmt.Sprintf("%s  Question %s", m.opts.Exam, q.Number)
	position := fmt.Sprintf("(%d questions)", m.state.Len())
	header := titleStyle.Render(strings.TrimSpace(title)) + " " + linkStyle.Render(position)
	if q.Link != "" {
		header = lipgloss.JoinVertical(lipgloss.Left, header, linkStyle.Render(q.Link))
	}
	return header
}

func (m Model) renderPrompt(q exam.Question) string {
	prompt, err := m.converter.ConvertString(q.Prompt)
	if err != nil {
		prompt = q.Prompt
	}
	style := lipgloss.NewStyle().Bold(true).MarginTop(1).MarginBottom(1)
	if m.width > 0 {
		style = style.Width(m.width)
	}
	return style.Render(strings.TrimSpace(prompt))
}

func (m Model) renderAnswers(q exam.Question) string {
	var lines []string
	for _, answer := range q.Answers {
		if m.state.IsHighlighted(answer) {
			lines = append(lines, votedStyle.Render(answer))
			continue
		}
		lines = append(lines, answerStyle.Render(answer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderToggle(q exam.Question) string {
	if m.state.DefaultHighlight || len(q.Answers) < 2 {
		return ""
	}
	if m.state.Highlight {
		return linkStyle.Render("h: Hide Most Voted Answers")
	}
	return linkStyle.Render("h: Highlight Most Voted Answers")
}

func renderDiscussion(comments []exam.Comment) string {
	if len(comments) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, discussionHead.Render("Discussion:"), "No discussion available.")
	}

	blocks := []string{discussionHead.Render("Discussion:")}
	for i, comment := range comments {
		header := fmt.Sprintf("Comment %d", i+1)
		if comment.SelectedAnswer != "" {
			header += "  " + selectedStyle.Render("Selected Answer: "+comment.SelectedAnswer)
		}
		parts := []string{header, comment.Content}
		for _, reply := range comment.Replies {
			parts = append(parts, replyStyle.Render(reply))
		}
		blocks = append(blocks, commentStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

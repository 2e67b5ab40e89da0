package export

import (
	"fmt"
	"slices"
	"strings"

	"examtopics-viewer/internal/exam"
)

const (
	commentLine   = 12.0
	commentIndent = 10.0
	replyLine     = 10.0
	replyIndent   = 15.0
)

// commentBox is one comment drawn as a rounded box. A comment too tall for a
// single page is drawn as several boxes, the later ones marked as continued.
type commentBox struct {
	number    int
	selected  string
	continued bool
	lines     []string
	replies   [][]string
}

func (b commentBox) height() float64 {
	h := float64(len(b.lines))*commentLine + 22
	for _, reply := range b.replies {
		h += replyBoxHeight(reply) + 4
	}
	return h + 2
}

func replyBoxHeight(lines []string) float64 {
	return float64(len(lines))*replyLine + 6
}

func (b commentBox) empty() bool {
	return len(b.lines) == 0 && len(b.replies) == 0
}

// split breaks the box into boxes no taller than limit.
func (b commentBox) split(limit float64) []commentBox {
	if b.height() <= limit {
		return []commentBox{b}
	}

	var boxes []commentBox
	current := commentBox{number: b.number, selected: b.selected}
	flush := func() {
		boxes = append(boxes, current)
		current = commentBox{number: b.number, continued: true}
	}

	for _, line := range b.lines {
		current.lines = append(current.lines, line)
		if current.height() > limit && len(current.lines) > 1 {
			current.lines = current.lines[:len(current.lines)-1]
			flush()
			current.lines = []string{line}
		}
	}

	// lines of a single reply box that still fit an otherwise empty box
	maxReplyLines := int((limit - 22 - 2 - 4 - 6) / replyLine)
	if maxReplyLines < 1 {
		maxReplyLines = 1
	}
	for _, reply := range b.replies {
		chunks := slices.Collect(slices.Chunk(reply, maxReplyLines))
		if len(chunks) == 0 {
			chunks = [][]string{nil}
		}
		for _, chunk := range chunks {
			current.replies = append(current.replies, chunk)
			alone := len(current.replies) == 1 && len(current.lines) == 0
			if current.height() > limit && !alone {
				current.replies = current.replies[:len(current.replies)-1]
				flush()
				current.replies = [][]string{chunk}
			}
		}
	}
	if !current.empty() || len(boxes) == 0 {
		boxes = append(boxes, current)
	}
	return boxes
}

func (l *layout) commentBox(c exam.Comment, number int) commentBox {
	box := commentBox{number: number, selected: strings.TrimSpace(c.SelectedAnswer)}
	box.lines = l.wrap(strings.TrimSpace(c.Content), commentFont, l.maxWidth-2*commentIndent)
	for _, reply := range c.Replies {
		box.replies = append(box.replies, l.wrap(strings.TrimSpace(reply), replyFont, l.maxWidth-4*commentIndent))
	}
	return box
}

func (l *layout) comment(number int, c exam.Comment) {
	limit := l.height - marginTop - marginBottom
	for _, box := range l.commentBox(c, number).split(limit) {
		l.drawCommentBox(box)
	}
}

func (l *layout) drawCommentBox(box commentBox) {
	h := box.height()
	l.reserve(h)

	top := l.y
	x := marginLeft + commentIndent
	l.canvas.RoundedRect(marginLeft, top, l.maxWidth, h, 6, whiteSmoke, lightGrey)

	header := fmt.Sprintf("Comment %d    ", box.number)
	if box.continued {
		header = fmt.Sprintf("Comment %d (continued)", box.number)
	}
	l.canvas.SetFont(commentFont)
	l.canvas.SetTextColor(black)
	l.canvas.Text(x, top+14, header)
	if box.selected != "" && !box.continued {
		prefix := l.canvas.StringWidth(header)
		l.canvas.SetFont(selectFont)
		l.canvas.SetTextColor(green)
		l.canvas.Text(x+prefix, top+14, "Selected Answer: "+box.selected)
	}

	textY := top + 14 + commentLine
	l.canvas.SetFont(commentFont)
	l.canvas.SetTextColor(black)
	for _, line := range box.lines {
		l.canvas.Text(x, textY, line)
		textY += commentLine
	}

	for _, reply := range box.replies {
		rh := replyBoxHeight(reply)
		l.canvas.RoundedRect(marginLeft+replyIndent, textY-4, l.maxWidth-2*replyIndent, rh, 4, pastelYellow, khaki)
		l.canvas.SetFont(replyFont)
		l.canvas.SetTextColor(replyText)
		replyY := textY + 6
		for _, line := range reply {
			l.canvas.Text(marginLeft+2*commentIndent, replyY, line)
			replyY += replyLine
		}
		textY += rh + 4
	}

	l.y = top + h + 12
}

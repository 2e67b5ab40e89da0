// Package export lays question records out onto fixed size pages.
package export

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"
	"examtopics-viewer/lib/htmlutil"
	"examtopics-viewer/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	tracer = otel.Tracer("internal/export")
	meter  = otel.Meter("internal/export")
)

const report_layout_render = "layout.render"

const (
	marginLeft   = 40.0
	marginRight  = 40.0
	marginTop    = 40.0
	marginBottom = 60.0

	imageWidth  = 300.0
	imageHeight = 150.0
)

var (
	headingFont = Font{Family: "Helvetica", Style: "B", Size: 12}
	bodyFont    = Font{Family: "Helvetica", Size: 10}
	boldFont    = Font{Family: "Helvetica", Style: "B", Size: 10}
	commentFont = Font{Family: "Helvetica", Size: 9}
	selectFont  = Font{Family: "Helvetica", Style: "B", Size: 9}
	replyFont   = Font{Family: "Helvetica", Style: "I", Size: 8}
)

const DefaultBaseUrl = "https://www.examtopics.com"

type Options struct {
	// BaseUrl resolves relative image sources.
	BaseUrl string
	// Progress is called after each record is laid out.
	Progress func(done, total int)
}

type layout struct {
	canvas Canvas
	images ImageSource
	base   *url.URL
	tel    telemetry.API

	width    float64
	height   float64
	maxWidth float64
	y        float64
	pages    int
}

// Render draws records onto canvas in ascending question number order. Every
// drawn unit fits between the top and bottom margins of its page, a unit that
// would cross the bottom margin starts a new page.
func Render(ctx context.Context, canvas Canvas, images ImageSource, records []exam.Question, opts Options, tel telemetry.API) (int, error) {
	ctx, span := tracer.Start(ctx, "Render")
	defer span.End()
	span.SetAttributes(attribute.Int("records", len(records)))

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	base, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return 0, err
	}

	width, height := canvas.PageSize()
	l := &layout{
		canvas:   canvas,
		images:   images,
		base:     base,
		tel:      telemetry.NewScopedAPI("export", tel),
		width:    width,
		height:   height,
		maxWidth: width - marginLeft - marginRight,
	}

	sorted := slices.Clone(records)
	exam.SortQuestions(sorted)

	l.newPage()
	for i, q := range sorted {
		if err := ctx.Err(); err != nil {
			return l.pages, err
		}
		err := l.question(ctx, q)
		if err != nil {
			l.tel.ReportBroken(report_layout_render, err, int(q.Number))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return l.pages, err
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(sorted))
		}
	}

	span.SetAttributes(attribute.Int("pages", l.pages))
	return l.pages, nil
}

func (l *layout) newPage() {
	l.canvas.AddPage()
	l.pages++
	l.y = marginTop
}

// reserve starts a new page unless a unit of height h fits below the cursor.
func (l *layout) reserve(h float64) {
	if l.y+h > l.height-marginBottom && l.y > marginTop {
		l.newPage()
	}
}

func (l *layout) gap(h float64) {
	l.y += h
}

// wrap collapses whitespace runs from the html source before wrapping, blank
// text produces no lines.
func (l *layout) wrap(text string, font Font, width float64) []string {
	paragraphs := strings.Split(text, "\n")
	for i, paragraph := range paragraphs {
		paragraphs[i] = textutil.CollapseWhitespace(paragraph)
	}
	text = strings.Join(paragraphs, "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	l.canvas.SetFont(font)
	return Wrap(text, width, l.canvas.StringWidth)
}

func (l *layout) lines(lines []string, font Font, color Color, lineHeight float64) {
	for _, line := range lines {
		l.reserve(lineHeight)
		l.canvas.SetFont(font)
		l.canvas.SetTextColor(color)
		l.canvas.Text(marginLeft, l.y+font.Size, line)
		l.y += lineHeight
	}
}

func (l *layout) question(ctx context.Context, q exam.Question) error {
	l.lines([]string{fmt.Sprintf("Question %s", q.Number)}, headingFont, black, 20)

	text, sources := promptContent(q.Prompt)
	l.lines(l.wrap(text, bodyFont, l.maxWidth), bodyFont, black, 14)
	l.gap(10)

	for _, src := range sources {
		err := l.image(ctx, src)
		if err != nil {
			return err
		}
	}

	for _, answer := range q.Answers {
		l.lines(l.wrap(answer, bodyFont, l.maxWidth), bodyFont, black, 14)
	}
	l.gap(10)

	voted := "No most voted answer available."
	color := black
	if labels := q.MostVoted.Labels(); len(labels) > 0 {
		voted = strings.Join(labels, ", ")
		color = green
	}
	l.lines(l.wrap("Most Voted: "+voted, boldFont, l.maxWidth), boldFont, color, 14)
	l.gap(10)

	if len(q.Comments) > 0 {
		l.lines([]string{"Discussion:"}, boldFont, black, 16)
		for i, comment := range q.Comments {
			l.comment(i+1, comment)
		}
	}
	l.gap(20)
	return nil
}

func (l *layout) image(ctx context.Context, src string) error {
	resolved := src
	parsed, err := url.Parse(src)
	if err == nil {
		resolved = l.base.ResolveReference(parsed).String()
	}

	img, err := l.images.Fetch(ctx, resolved)
	if err != nil {
		return &ImageFetchError{Url: resolved, Err: err}
	}
	l.reserve(imageHeight)
	err = l.canvas.Image(marginLeft, l.y, imageWidth, imageHeight, img)
	if err != nil {
		return &ImageFetchError{Url: resolved, Err: err}
	}
	l.y += imageHeight
	l.gap(30)
	return nil
}

// promptContent returns the plain text of a prompt fragment, line breaks
// kept, and the sources of the images it embeds.
func promptContent(prompt string) (string, []string) {
	doc, err := htmlutil.Parse(htmlutil.ReplaceBreaks(prompt))
	if err != nil {
		return prompt, nil
	}
	return doc.Text(), imageSources(doc)
}

func imageSources(doc htmlutil.Fragment) []string {
	var sources []string
	for _, img := range doc.FindAll("img", "") {
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			continue
		}
		sources = append(sources, strings.TrimSpace(src))
	}
	return sources
}

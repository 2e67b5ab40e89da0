package htmlutil

import (
	"html"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Fragment is the subset of DOM access the scrapers and the export layout
// need. An empty tag or class matches anything.
type Fragment interface {
	// Find returns the first descendant matching tag and class.
	Find(tag, class string) (Fragment, bool)
	// FindAll returns every descendant matching tag and class in document order.
	FindAll(tag, class string) []Fragment
	// Children returns direct children matching tag and class.
	Children(tag, class string) []Fragment
	HasClass(class string) bool
	Text() string
	Attr(key string) (string, bool)
	InnerHTML() string
}

func selector(tag, class string) string {
	sel := tag
	if class != "" {
		sel += "." + class
	}
	if sel == "" {
		return "*"
	}
	return sel
}

type selection struct {
	sel *goquery.Selection
}

// Parse parses an html document or fragment.
func Parse(contents string) (Fragment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		return nil, err
	}
	return selection{sel: doc.Selection}, nil
}

func (s selection) Find(tag, class string) (Fragment, bool) {
	found := s.sel.Find(selector(tag, class)).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selection{sel: found}, true
}

func (s selection) FindAll(tag, class string) []Fragment {
	var out []Fragment
	s.sel.Find(selector(tag, class)).Each(func(_ int, item *goquery.Selection) {
		out = append(out, selection{sel: item})
	})
	return out
}

func (s selection) Children(tag, class string) []Fragment {
	var out []Fragment
	s.sel.ChildrenFiltered(selector(tag, class)).Each(func(_ int, item *goquery.Selection) {
		out = append(out, selection{sel: item})
	})
	return out
}

func (s selection) HasClass(class string) bool {
	return s.sel.HasClass(class)
}

func (s selection) Text() string {
	return s.sel.Text()
}

func (s selection) Attr(key string) (string, bool) {
	return s.sel.Attr(key)
}

func (s selection) InnerHTML() string {
	contents, err := s.sel.Html()
	if err != nil {
		return ""
	}
	return contents
}

// Element is a hand-built Fragment tree, it is what tests use in place of a
// parsed document.
type Element struct {
	Tag     string
	Classes []string
	Attrs   map[string]string
	Content string
	Nodes   []*Element
}

// El builds an element, `class` may hold several space separated classes.
func El(tag, class string, children ...*Element) *Element {
	return &Element{Tag: tag, Classes: strings.Fields(class), Nodes: children}
}

// TextEl builds an element holding only text.
func TextEl(tag, class, text string) *Element {
	e := El(tag, class)
	e.Content = text
	return e
}

func (e *Element) WithAttr(key, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[key] = value
	return e
}

func (e *Element) matches(tag, class string) bool {
	if tag != "" && e.Tag != tag {
		return false
	}
	if class == "" {
		return true
	}
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e *Element) walk(visit func(*Element) bool) bool {
	for _, child := range e.Nodes {
		if !visit(child) {
			return false
		}
		if !child.walk(visit) {
			return false
		}
	}
	return true
}

func (e *Element) Find(tag, class string) (Fragment, bool) {
	var found *Element
	e.walk(func(child *Element) bool {
		if child.matches(tag, class) {
			found = child
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return found, true
}

func (e *Element) FindAll(tag, class string) []Fragment {
	var out []Fragment
	e.walk(func(child *Element) bool {
		if child.matches(tag, class) {
			out = append(out, child)
		}
		return true
	})
	return out
}

func (e *Element) Children(tag, class string) []Fragment {
	var out []Fragment
	for _, child := range e.Nodes {
		if child.matches(tag, class) {
			out = append(out, child)
		}
	}
	return out
}

func (e *Element) HasClass(class string) bool {
	return class != "" && e.matches("", class)
}

func (e *Element) Text() string {
	var out strings.Builder
	out.WriteString(e.Content)
	for _, child := range e.Nodes {
		out.WriteString(child.Text())
	}
	return out.String()
}

func (e *Element) Attr(key string) (string, bool) {
	value, ok := e.Attrs[key]
	return value, ok
}

func (e *Element) InnerHTML() string {
	var out strings.Builder
	out.WriteString(html.EscapeString(e.Content))
	for _, child := range e.Nodes {
		child.render(&out)
	}
	return out.String()
}

func (e *Element) render(out *strings.Builder) {
	out.WriteString("<" + e.Tag)
	if len(e.Classes) > 0 {
		out.WriteString(` class="` + html.EscapeString(strings.Join(e.Classes, " ")) + `"`)
	}
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.WriteString(" " + k + `="` + html.EscapeString(e.Attrs[k]) + `"`)
	}
	out.WriteString(">")
	out.WriteString(e.InnerHTML())
	out.WriteString("</" + e.Tag + ">")
}

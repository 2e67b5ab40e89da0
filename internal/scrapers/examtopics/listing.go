package examtopics

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"
	"examtopics-viewer/lib/htmlutil"
	"examtopics-viewer/lib/textutil"

	"github.com/antzucaro/matchr"
)

const report_client_listing = "client.listing"

const suggestionThreshold = 0.8

// categoryFromPath returns the vendor segment of an exam page path such as
// /exams/amazon/aws-certified-cloud-practitioner/.
func categoryFromPath(path string) (string, bool) {
	if !strings.Contains(path, "/exams/") {
		return "", false
	}
	return secondToLast(path)
}

func secondToLast(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return "", false
	}
	category := parts[len(parts)-2]
	if category == "" || category == "exams" {
		return "", false
	}
	return category, true
}

type searchEntry struct {
	name string
	href string
}

func parseSearchResults(doc htmlutil.Fragment) []searchEntry {
	var entries []searchEntry
	for _, list := range doc.FindAll("ul", "exam-list-font") {
		for _, anchor := range list.FindAll("a", "") {
			href, ok := anchor.Attr("href")
			if !ok {
				continue
			}
			entries = append(entries, searchEntry{
				name: textutil.CollapseWhitespace(anchor.Text()),
				href: href,
			})
		}
	}
	return entries
}

// categoryFromSearch picks the category of the first search result whose name
// starts with code.
func categoryFromSearch(entries []searchEntry, code string) (string, bool) {
	for _, entry := range entries {
		if !strings.HasPrefix(entry.name, code) {
			continue
		}
		parsed, err := url.Parse(entry.href)
		if err != nil {
			continue
		}
		category, ok := secondToLast(parsed.Path)
		if ok {
			return category, true
		}
	}
	return "", false
}

// suggest ranks the exam codes of the search results by similarity to code.
func suggest(entries []searchEntry, code string) []string {
	type scored struct {
		code  string
		score float64
	}
	var candidates []scored
	seen := map[string]bool{}
	for _, entry := range entries {
		fields := strings.FieldsFunc(entry.name, func(r rune) bool {
			return r == ' ' || r == ':'
		})
		if len(fields) == 0 || seen[fields[0]] {
			continue
		}
		seen[fields[0]] = true
		score := matchr.JaroWinkler(strings.ToUpper(code), strings.ToUpper(fields[0]), false)
		if score >= suggestionThreshold {
			candidates = append(candidates, scored{code: fields[0], score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	var out []string
	for i, candidate := range candidates {
		if i == 3 {
			break
		}
		out = append(out, candidate.code)
	}
	return out
}

// parsePageCount reads the "Page 1 of N" indicator of a discussion listing.
func parsePageCount(doc htmlutil.Fragment, pageUrl string) (int, error) {
	indicator, ok := doc.Find("span", "discussion-list-page-indicator")
	if !ok {
		return 0, &StructureError{Url: pageUrl, Detail: "missing page indicator"}
	}
	strong := indicator.FindAll("strong", "")
	if len(strong) < 2 {
		return 0, &StructureError{Url: pageUrl, Detail: "page indicator has no total"}
	}
	total, err := strconv.Atoi(strings.TrimSpace(strong[1].Text()))
	if err != nil {
		return 0, &StructureError{Url: pageUrl, Detail: fmt.Sprintf("page total: %v", err)}
	}
	return total, nil
}

// parseListingLinks returns the hrefs of the discussions titled for code, as
// they appear on the page. Links without a question number are reported and
// dropped.
func parseListingLinks(doc htmlutil.Fragment, code string, tel telemetry.API) []string {
	var links []string
	matches := textutil.ExamCodeMatcher(code)
	// the class name is misspelled on the site itself
	for _, title := range doc.FindAll("div", "dicussion-title-container") {
		if !matches(title.Text()) {
			continue
		}
		anchor, ok := title.Find("a", "")
		if !ok {
			continue
		}
		href, ok := anchor.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		href = strings.TrimSpace(href)
		if _, ok := exam.NumberFromLink(href); !ok {
			tel.ReportWarning(report_client_listing, fmt.Errorf("detail link without question number"), href)
			continue
		}
		links = append(links, href)
	}
	return links
}

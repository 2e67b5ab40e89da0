package examtopics

import (
	"context"
	"fmt"
	"net/url"

	"examtopics-viewer/internal/exam"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_client_category = "client.category"
	report_client_discover = "client.discover"
)

// ProgressFunc is called after each listing page with the number of pages
// processed so far and the total.
type ProgressFunc func(done, total int)

// Category resolves the discussion category (vendor) an exam code belongs to.
func (c *Client) Category(ctx context.Context, code string) (string, error) {
	ctx, span := tracer.Start(ctx, "Category")
	defer span.End()
	span.SetAttributes(attribute.String("exam", code))

	searchUrl := fmt.Sprintf("%s/search/?query=%s", c.BaseUrl.String(), url.QueryEscape(code))
	doc, final, err := c.get(ctx, searchUrl)
	if err != nil {
		c.tel.ReportBroken(report_client_category, err, code)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if category, ok := categoryFromPath(final.Path); ok {
		return category, nil
	}

	entries := parseSearchResults(doc)
	if category, ok := categoryFromSearch(entries, code); ok {
		return category, nil
	}

	notFound := &NotFoundError{Code: code, Suggestions: suggest(entries, code)}
	span.SetStatus(codes.Error, notFound.Error())
	return "", notFound
}

// Discover returns the sorted detail links of every discussion of the exam.
//
// A complete link set in the cache is returned without any request. Otherwise
// the listing is walked from the page after the last one that was fully
// processed, persisting the partial set after each page, so an interrupted
// walk resumes where it stopped.
func (c *Client) Discover(ctx context.Context, code string, progress ProgressFunc) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Discover")
	defer span.End()
	span.SetAttributes(attribute.String("exam", code))

	set, cached := c.cache.Links(ctx, code)
	if cached && set.Status == exam.StatusComplete {
		span.SetAttributes(attribute.Bool("cached", true))
		return set.Links, nil
	}
	if !cached {
		set = exam.LinkSet{Status: exam.StatusInProgress}
	}

	fail := func(err error) ([]string, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	category, err := c.Category(ctx, code)
	if err != nil {
		return fail(err)
	}

	listingUrl := fmt.Sprintf("%s/discussions/%s/", c.BaseUrl.String(), category)
	first, _, err := c.get(ctx, listingUrl)
	if err != nil {
		c.tel.ReportBroken(report_client_discover, err, listingUrl)
		return fail(err)
	}
	c.pagesFetched.Add(ctx, 1)
	total, err := parsePageCount(first, listingUrl)
	if err != nil {
		c.tel.ReportBroken(report_client_discover, err)
		return fail(err)
	}
	span.SetAttributes(attribute.Int("pages", total))

	seen := make(map[string]bool, len(set.Links))
	for _, link := range set.Links {
		seen[link] = true
	}

	for page := set.LastPage + 1; page <= total; page++ {
		doc := first
		if page > 1 {
			pageUrl := fmt.Sprintf("%s%d/", listingUrl, page)
			doc, _, err = c.get(ctx, pageUrl)
			if err != nil {
				c.tel.ReportBroken(report_client_discover, err, pageUrl)
				return fail(err)
			}
			c.pagesFetched.Add(ctx, 1)
		}

		for _, link := range parseListingLinks(doc, code, c.tel) {
			if seen[link] {
				continue
			}
			seen[link] = true
			set.Links = append(set.Links, link)
		}
		set.LastPage = page
		err = c.cache.SaveLinks(ctx, code, set)
		if err != nil {
			return fail(err)
		}
		if progress != nil {
			progress(page, total)
		}
	}

	exam.SortLinks(set.Links)
	set.Status = exam.StatusComplete
	err = c.cache.SaveLinks(ctx, code, set)
	if err != nil {
		return fail(err)
	}
	c.tel.ReportDebug("discovered links", code, len(set.Links))
	return set.Links, nil
}

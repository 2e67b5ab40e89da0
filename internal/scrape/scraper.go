// Package scrape drives question extraction over discovered links and
// persists the growing result so an interrupted run can be resumed.
package scrape

import (
	"context"
	"fmt"
	"time"

	"examtopics-viewer/internal/assert"
	"examtopics-viewer/internal/cache"
	"examtopics-viewer/internal/chrono"
	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	report_scraper_scrape = "scraper.scrape"
	report_scraper_save   = "scraper.save"
)

var tracer = otel.Tracer("internal/scrape")

// Pace selects the delay between question requests.
type Pace string

const (
	PaceNormal Pace = "normal"
	PaceRapid  Pace = "rapid"
)

const DefaultDelay = time.Second * 5

// Extractor reads one question page, a failed request is signaled through
// Question.Error rather than a returned error.
type Extractor interface {
	Extract(ctx context.Context, link string) exam.Question
}

// ProgressFunc is called once per link with its position, the link and
// whether it was served from the cache.
type ProgressFunc func(done, total int, link string, cached bool)

type Scraper struct {
	extractor Extractor
	cache     cache.Cache
	time      chrono.TimeAPI
	tel       telemetry.API
	delay     time.Duration
}

func NewScraper(extractor Extractor, store cache.Cache, clock chrono.TimeAPI, tel telemetry.API, delay time.Duration) Scraper {
	assert.NotNil(extractor, "extractor")
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "tel")
	return Scraper{
		extractor: extractor,
		cache:     store,
		time:      clock,
		tel:       telemetry.NewScopedAPI("scrape", tel),
		delay:     delay,
	}
}

func (s Scraper) persist(ctx context.Context, code string, result exam.Result) {
	err := s.cache.SaveResult(ctx, code, result)
	if err != nil {
		s.tel.ReportBroken(report_scraper_save, err, code)
	}
}

// Scrape extracts every link whose question is not in the cached result for
// code yet, stopping at the first request failure. The returned result always
// holds every record gathered so far, Status is complete only when every link
// has a record.
func (s Scraper) Scrape(ctx context.Context, code string, links []string, pace Pace, progress ProgressFunc) exam.Result {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	runId, err := random.String(8)
	if err != nil {
		runId = "unknown"
	}
	span.SetAttributes(
		attribute.String("exam", code),
		attribute.String("run", runId),
		attribute.Int("links", len(links)),
	)

	ordered := append([]string(nil), links...)
	exam.SortLinks(ordered)

	result, _ := s.cache.Result(ctx, code)
	result.Error = ""
	if result.Questions == nil {
		result.Questions = []exam.Question{}
	}

	requested := 0
	for i, link := range ordered {
		number, ok := exam.NumberFromLink(link)
		if !ok {
			s.tel.ReportWarning(report_scraper_scrape, runId, link, "link has no question number")
			continue
		}
		if result.Has(number) {
			if progress != nil {
				progress(i+1, len(ordered), link, true)
			}
			continue
		}

		if requested > 0 && pace != PaceRapid {
			err := s.time.Sleep(ctx, s.delay)
			if err != nil {
				result.Error = fmt.Sprintf("Error: %v", err)
				break
			}
		}
		requested++

		q := s.extractor.Extract(ctx, link)
		if q.Error != "" {
			s.tel.ReportWarning(report_scraper_scrape, runId, link, q.Error)
			result.Error = "Error: " + q.Error
			break
		}

		result.Questions = append(result.Questions, q)
		s.persist(ctx, code, result)
		if progress != nil {
			progress(i+1, len(ordered), link, false)
		}
	}

	exam.SortQuestions(result.Questions)
	result.Status = exam.StatusComplete
	for _, link := range ordered {
		number, ok := exam.NumberFromLink(link)
		if !ok || !result.Has(number) {
			result.Status = exam.StatusInProgress
			break
		}
	}
	s.persist(ctx, code, result)

	s.tel.ReportDebug("scrape finished", runId, code, requested, len(result.Questions), result.Status)
	span.SetAttributes(
		attribute.Int("requested", requested),
		attribute.String("status", string(result.Status)),
	)
	return result
}

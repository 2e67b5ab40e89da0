package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"examtopics-viewer/internal/assert"
	"examtopics-viewer/internal/cache"
	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/scrapers/examtopics"
	"examtopics-viewer/internal/telemetry"
)

const report_service_questions = "service.questions"

var ErrNoQuestions = errors.New("no questions found, check the exam code and try again")

type Discoverer interface {
	Discover(ctx context.Context, code string, progress examtopics.ProgressFunc) ([]string, error)
}

type MirrorSource interface {
	Load(ctx context.Context, code string) ([]exam.Question, error)
}

type Source string

const (
	SourceMirror Source = "mirror"
	SourceCache  Source = "cache"
	SourceSite   Source = "site"
)

type Progress struct {
	Pages     examtopics.ProgressFunc
	Questions ProgressFunc
}

// Outcome is what the browsing view and the export receive. Questions are
// usable even when Warning is set.
type Outcome struct {
	Questions []exam.Question
	Status    exam.Status
	Warning   string
	Source    Source
}

type Service struct {
	discoverer Discoverer
	scraper    Scraper
	cache      cache.Cache
	tel        telemetry.API

	// Mirror, when set, replaces scraping entirely.
	Mirror MirrorSource
}

func NewService(discoverer Discoverer, scraper Scraper, store cache.Cache, tel telemetry.API) Service {
	assert.NotNil(discoverer, "discoverer")
	assert.NotNil(tel, "tel")
	return Service{
		discoverer: discoverer,
		scraper:    scraper,
		cache:      store,
		tel:        telemetry.NewScopedAPI("service", tel),
	}
}

// Questions returns the questions of an exam from the first source that has
// them: the mirror when configured, a complete cached result, or the site.
func (s Service) Questions(ctx context.Context, code string, pace Pace, progress Progress) (Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Outcome{}, fmt.Errorf("empty exam code")
	}

	if s.Mirror != nil {
		questions, err := s.Mirror.Load(ctx, code)
		if err != nil {
			s.tel.ReportWarning(report_service_questions, code, err)
			return Outcome{
				Status:  exam.StatusInProgress,
				Warning: fmt.Sprintf("Failed to load file from mirror: %v", err),
				Source:  SourceMirror,
			}, nil
		}
		if len(questions) == 0 {
			return Outcome{}, ErrNoQuestions
		}
		return Outcome{Questions: questions, Status: exam.StatusComplete, Source: SourceMirror}, nil
	}

	cached, ok := s.cache.Result(ctx, code)
	if ok && cached.Status == exam.StatusComplete {
		exam.SortQuestions(cached.Questions)
		return Outcome{Questions: cached.Questions, Status: cached.Status, Source: SourceCache}, nil
	}

	links, err := s.discoverer.Discover(ctx, code, progress.Pages)
	if err != nil {
		return Outcome{}, err
	}
	if len(links) == 0 {
		return Outcome{}, ErrNoQuestions
	}

	result := s.scraper.Scrape(ctx, code, links, pace, progress.Questions)
	out := Outcome{Questions: result.Questions, Status: result.Status, Source: SourceSite}
	if result.Error != "" {
		out.Warning = fmt.Sprintf(
			"Error occurred while scraping questions. Your connection may be slow or the website may have limited your rate. You can still see %d questions. Try again later. (%s)",
			len(result.Questions), result.Error,
		)
	}
	return out, nil
}

package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"

	"github.com/go-resty/resty/v2"
)

const DefaultMirrorUrl = "https://raw.githubusercontent.com/17Andri17/ExamTopics-Question-Viewer/refs/heads/main/data"

// Mirror reads precomputed results published as <base>/<code>.json.
type Mirror struct {
	baseUrl string
	http    *resty.Client
}

func NewMirror(baseUrl string, tel telemetry.API) Mirror {
	if baseUrl == "" {
		baseUrl = DefaultMirrorUrl
	}
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("mirror", tel))
	return Mirror{baseUrl: strings.TrimSuffix(baseUrl, "/"), http: client}
}

func (m Mirror) Load(ctx context.Context, code string) ([]exam.Question, error) {
	endpoint := fmt.Sprintf("%s/%s.json", m.baseUrl, url.PathEscape(code))
	res, err := m.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, err
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%s: %s", endpoint, res.Status())
	}

	var result exam.Result
	err = json.Unmarshal(res.Body(), &result)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	exam.SortQuestions(result.Questions)
	return result.Questions, nil
}

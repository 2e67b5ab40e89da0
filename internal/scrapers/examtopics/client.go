// Package examtopics scrapes exam discussion listings and question pages from
// examtopics.com.
package examtopics

import (
	"context"
	"net/url"
	"strings"
	"time"

	"examtopics-viewer/internal/assert"
	"examtopics-viewer/internal/cache"
	"examtopics-viewer/internal/telemetry"
	"examtopics-viewer/lib/htmlutil"
	"examtopics-viewer/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl   = "https://www.examtopics.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultReferer   = "https://google.com"
)

var (
	tracer = otel.Tracer("internal/scrapers/examtopics")
	meter  = otel.Meter("internal/scrapers/examtopics")
)

type Options struct {
	BaseUrl   string
	UserAgent string
	Referer   string
	Timeout   time.Duration
	// RequestsPerSecond of 0 or less disables rate limiting.
	RequestsPerSecond float64
	// Dump, when set, receives every request and response.
	Dump restyutil.InstrumentOutput
}

func (o Options) withDefaults() Options {
	if o.BaseUrl == "" {
		o.BaseUrl = DefaultBaseUrl
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Referer == "" {
		o.Referer = DefaultReferer
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Second * 30
	}
	return o
}

// Client discovers question links and extracts question pages.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	cache         cache.Cache
	tel           telemetry.API
	pagesFetched  metric.Int64Counter
	questionsRead metric.Int64Counter
}

func NewClient(opts Options, store cache.Cache, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel, "tel")
	opts = opts.withDefaults()
	tel = telemetry.NewScopedAPI("examtopics_scraper", tel)

	parsedBaseUrl, err := url.Parse(strings.TrimSuffix(opts.BaseUrl, "/"))
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(parsedBaseUrl.String())
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetHeader("accept-language", "en-US,en;q=0.9")
	httpClient.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpClient.SetHeader("referer", opts.Referer)
	httpClient.SetRedirectPolicy(
		resty.FlexibleRedirectPolicy(10),
		resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()),
	)
	httpClient.SetTimeout(opts.Timeout)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.Dump)

	pagesFetched, err := meter.Int64Counter("listing_pages_fetched")
	if err != nil {
		return nil, err
	}
	questionsRead, err := meter.Int64Counter("questions_scraped")
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseUrl:       parsedBaseUrl,
		Http:          httpClient,
		cache:         store,
		tel:           tel,
		pagesFetched:  pagesFetched,
		questionsRead: questionsRead,
	}, nil
}

// resolve turns a site relative link into an absolute one.
func (c *Client) resolve(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}
	return c.BaseUrl.ResolveReference(parsed).String()
}

// get fetches a page and parses it, the returned url is the one reached after
// redirects.
func (c *Client) get(ctx context.Context, endpoint string) (htmlutil.Fragment, *url.URL, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, nil, &TransportError{Url: endpoint, Err: err}
	}
	if !res.IsSuccess() {
		return nil, nil, &TransportError{Url: endpoint, StatusCode: res.StatusCode()}
	}

	final := c.BaseUrl
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final = res.RawResponse.Request.URL
	}

	doc, err := htmlutil.Parse(string(res.Body()))
	if err != nil {
		return nil, final, &StructureError{Url: endpoint, Detail: err.Error()}
	}
	return doc, final, nil
}

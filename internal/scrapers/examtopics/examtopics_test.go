package examtopics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"examtopics-viewer/internal/cache"
	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"
	"examtopics-viewer/lib/htmlutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeSite struct {
	mutex     sync.Mutex
	pages     map[string]string
	redirects map[string]string
	failing   map[string]int
	requests  map[string]int
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		pages:     map[string]string{},
		redirects: map[string]string{},
		failing:   map[string]int{},
		requests:  map[string]int{},
	}
}

func (s *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.requests[r.URL.Path]++
	if status, ok := s.failing[r.URL.Path]; ok {
		w.WriteHeader(status)
		return
	}
	if target, ok := s.redirects[r.URL.Path]; ok {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	page, ok := s.pages[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}

func (s *fakeSite) count(path string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.requests[path]
}

func (s *fakeSite) total() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	sum := 0
	for _, n := range s.requests {
		sum += n
	}
	return sum
}

func listingPage(page, total int, titles ...string) string {
	var out strings.Builder
	out.WriteString("<html><body>")
	fmt.Fprintf(&out,
		`<span class="discussion-list-page-indicator">Page <strong>%d</strong> of <strong>%d</strong></span>`,
		page, total,
	)
	for _, title := range titles {
		out.WriteString(title)
	}
	out.WriteString("</body></html>")
	return out.String()
}

func title(code string, n int) string {
	return fmt.Sprintf(
		`<div class="dicussion-title-container"><h2><a href="/discussions/amazon/view/%d0-exam-%s-topic-1-question-%d-discussion/">
			Exam %s topic 1 question %d discussion
		</a></h2></div>`,
		n, strings.ToLower(code), n, code, n,
	)
}

func detailLink(code string, n int) string {
	return fmt.Sprintf("/discussions/amazon/view/%d0-exam-%s-topic-1-question-%d-discussion/", n, strings.ToLower(code), n)
}

type fixture struct {
	site  *fakeSite
	store *cache.MemoryStore
	cache cache.Cache
	tel   *telemetry.RecordingAPI
	c     *Client
}

func newFixture(t *testing.T) fixture {
	site := newFakeSite()
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	tel := &telemetry.RecordingAPI{}
	store := cache.NewMemoryStore()
	c := cache.New(store, tel)
	client, err := NewClient(Options{BaseUrl: server.URL}, c, tel)
	if err != nil {
		t.Fatal(err)
	}
	return fixture{site: site, store: store, cache: c, tel: tel, c: client}
}

func (f fixture) serveExam(pages ...[]string) {
	f.site.redirects["/search/"] = "/exams/amazon/aws-certified-solutions-architect-associate/"
	f.site.pages["/exams/amazon/aws-certified-solutions-architect-associate/"] = "<html></html>"
	for i, page := range pages {
		body := listingPage(i+1, len(pages), page...)
		if i == 0 {
			f.site.pages["/discussions/amazon/"] = body
		}
		f.site.pages[fmt.Sprintf("/discussions/amazon/%d/", i+1)] = body
	}
}

func TestDiscoverWalksListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serveExam(
		[]string{title("SAA-C03", 3), title("SAA-C030", 7), title("CLF-C02", 4)},
		[]string{title("SAA-C03", 1), title("SAA-C03", 12)},
	)

	var progress []int
	links, err := f.c.Discover(ctx, "SAA-C03", func(done, total int) {
		require.Equal(t, 2, total)
		progress = append(progress, done)
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		detailLink("SAA-C03", 1),
		detailLink("SAA-C03", 3),
		detailLink("SAA-C03", 12),
	}, links)
	require.Equal(t, []int{1, 2}, progress)

	// the first listing page is fetched once for the page count and reused
	require.Equal(t, 1, f.site.count("/discussions/amazon/"))
	require.Equal(t, 0, f.site.count("/discussions/amazon/1/"))
	require.Equal(t, 1, f.site.count("/discussions/amazon/2/"))

	set, ok := f.cache.Links(ctx, "SAA-C03")
	require.True(t, ok)
	require.Equal(t, exam.StatusComplete, set.Status)
	require.Equal(t, links, set.Links)
}

func TestDiscoverDropsLinksWithoutNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serveExam([]string{
		title("SAA-C03", 2),
		`<div class="dicussion-title-container"><a href="/discussions/amazon/view/5-exam-saa-c03-announcement/">Exam SAA-C03 announcement</a></div>`,
		`<div class="dicussion-title-container"><a href="/discussions/amazon/view/6-exam-saa-c03-errata/">Exam SAA-C03 errata</a></div>`,
	})

	links, err := f.c.Discover(ctx, "SAA-C03", nil)
	require.NoError(t, err)
	require.Equal(t, []string{detailLink("SAA-C03", 2)}, links)
	require.Len(t, f.tel.Reports("warning", report_client_listing), 2)
}

func TestDiscoverCompleteCacheMakesNoRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cached := exam.LinkSet{
		Links:    []string{detailLink("AZ-104", 1), detailLink("AZ-104", 2)},
		LastPage: 4,
		Status:   exam.StatusComplete,
	}
	require.NoError(t, f.cache.SaveLinks(ctx, "AZ-104", cached))

	links, err := f.c.Discover(ctx, "AZ-104", nil)
	require.NoError(t, err)
	require.Equal(t, cached.Links, links)
	require.Equal(t, 0, f.site.total())
}

func TestDiscoverResumesAfterLastPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serveExam(
		[]string{title("SAA-C03", 5)},
		[]string{title("SAA-C03", 2), title("SAA-C03", 5)},
		[]string{title("SAA-C03", 9)},
	)
	require.NoError(t, f.cache.SaveLinks(ctx, "SAA-C03", exam.LinkSet{
		Links:    []string{detailLink("SAA-C03", 5)},
		LastPage: 1,
		Status:   exam.StatusInProgress,
	}))

	links, err := f.c.Discover(ctx, "SAA-C03", nil)
	require.NoError(t, err)
	require.Equal(t, []string{
		detailLink("SAA-C03", 2),
		detailLink("SAA-C03", 5),
		detailLink("SAA-C03", 9),
	}, links)
	require.Equal(t, 1, f.site.count("/discussions/amazon/2/"))
	require.Equal(t, 1, f.site.count("/discussions/amazon/3/"))
}

func TestDiscoverKeepsProgressOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serveExam(
		[]string{title("SAA-C03", 1)},
		[]string{title("SAA-C03", 2)},
	)
	f.site.failing["/discussions/amazon/2/"] = http.StatusInternalServerError

	_, err := f.c.Discover(ctx, "SAA-C03", nil)
	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	require.Equal(t, http.StatusInternalServerError, transport.StatusCode)

	set, ok := f.cache.Links(ctx, "SAA-C03")
	require.True(t, ok)
	require.Equal(t, exam.StatusInProgress, set.Status)
	require.Equal(t, 1, set.LastPage)
	require.Equal(t, []string{detailLink("SAA-C03", 1)}, set.Links)

	delete(f.site.failing, "/discussions/amazon/2/")
	links, err := f.c.Discover(ctx, "SAA-C03", nil)
	require.NoError(t, err)
	require.Equal(t, []string{detailLink("SAA-C03", 1), detailLink("SAA-C03", 2)}, links)
}

func TestDiscoverSearchListing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.site.pages["/search/"] = `<html><body>
		<ul class="exam-list-font">
			<li><a href="/exams/microsoft/az-900/">AZ-900: Microsoft Azure Fundamentals</a></li>
			<li><a href="/exams/microsoft/az-104/"> AZ-104: Microsoft Azure Administrator </a></li>
		</ul>
	</body></html>`
	f.site.pages["/discussions/microsoft/"] = listingPage(1, 1,
		`<div class="dicussion-title-container"><a href="/discussions/microsoft/view/1-exam-az-104-topic-1-question-1-discussion/">Exam AZ-104 topic 1 question 1 discussion</a></div>`,
	)

	category, err := f.c.Category(ctx, "AZ-104")
	require.NoError(t, err)
	require.Equal(t, "microsoft", category)

	links, err := f.c.Discover(ctx, "AZ-104", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"/discussions/microsoft/view/1-exam-az-104-topic-1-question-1-discussion/"}, links)
}

func TestDiscoverUnknownExam(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.site.pages["/search/"] = `<html><body>
		<ul class="exam-list-font">
			<li><a href="/exams/amazon/saa-c03/">SAA-C03: AWS Certified Solutions Architect</a></li>
			<li><a href="/exams/microsoft/dp-900/">DP-900: Microsoft Azure Data Fundamentals</a></li>
		</ul>
	</body></html>`

	_, err := f.c.Discover(ctx, "SAA-C04", nil)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "SAA-C04", notFound.Code)
	require.Contains(t, notFound.Suggestions, "SAA-C03")
	require.NotContains(t, notFound.Suggestions, "DP-900")
	require.Equal(t, 1, f.site.total())

	_, ok := f.cache.Links(ctx, "SAA-C04")
	require.False(t, ok)
}

func TestDiscoverMissingPageIndicator(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.serveExam([]string{title("SAA-C03", 1)})
	f.site.pages["/discussions/amazon/"] = "<html><body>redesigned</body></html>"

	_, err := f.c.Discover(ctx, "SAA-C03", nil)
	var structure *StructureError
	require.ErrorAs(t, err, &structure)
	require.Len(t, f.tel.Reports("broken", report_client_discover), 1)
}

func TestCategoryFromPath(t *testing.T) {
	testCases := []struct {
		path     string
		category string
		ok       bool
	}{
		{"/exams/amazon/aws-certified-cloud-practitioner/", "amazon", true},
		{"/exams/google/associate-cloud-engineer", "google", true},
		{"/search/", "", false},
		{"/exams/", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			category, ok := categoryFromPath(tc.path)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.category, category)
		})
	}
}

const questionPage = `<html><body>
<div class="question-body">
	<p class="card-text">Which service stores objects?<br>Pick one.<img src="/assets/media/exam-media/1.png"></p>
	<div class="question-choices-container"><ul>
		<li class="multi-choice-item"><span class="multi-choice-letter">A.</span>
			Amazon    S3
		</li>
		<li class="multi-choice-item">B. Amazon EC2</li>
		<li class="multi-choice-item">C. Amazon RDS</li>
	</ul></div>
</div>
<div class="voted-answers-tally"><script type="application/json">
	[{"voted_answers": "A", "vote_count": 12, "is_most_voted": true}, {"voted_answers": "B", "vote_count": 2, "is_most_voted": false}]
</script></div>
<div class="discussion-container">
	<div class="comment-container">
		<div class="comment-body">
			<div class="comment-selected-answers">Selected Answer: <span>A</span></div>
			<div class="comment-content">
				S3 is object storage.
			</div>
		</div>
		<div class="comment-replies">
			<div class="comment-container">
				<div class="comment-content">Agreed</div>
				<div class="comment-selected-answers"><span>B</span></div>
				<div class="comment-replies">
					<div class="comment-container"><div class="comment-content">Nested</div></div>
				</div>
			</div>
		</div>
	</div>
	<div class="comment-container">
		<div class="comment-content">B is wrong</div>
		<div class="comment-replies">
			<div class="comment-container"><div class="comment-selected-answers"><span>C</span></div></div>
		</div>
	</div>
</div>
</body></html>`

func TestExtract(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	link := detailLink("SAA-C03", 7)
	f.site.pages[link] = questionPage

	q := f.c.Extract(ctx, link)
	require.Empty(t, q.Error)
	require.Equal(t, exam.Number(7), q.Number)
	require.Equal(t, f.c.BaseUrl.String()+link, q.Link)
	require.Contains(t, q.Prompt, "Which service stores objects?")
	require.Contains(t, q.Prompt, `<img src="/assets/media/exam-media/1.png"`)
	require.Equal(t, []string{"A. Amazon S3", "B. Amazon EC2", "C. Amazon RDS"}, q.Answers)
	require.Equal(t, exam.VoteSet("A"), q.MostVoted)

	diff := cmp.Diff([]exam.Comment{
		{Content: "S3 is object storage.", SelectedAnswer: "A", Replies: []string{"Agreed", "Nested"}},
		{Content: "B is wrong", SelectedAnswer: "", Replies: []string{""}},
	}, q.Comments)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestExtractTransportFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	link := detailLink("SAA-C03", 4)
	f.site.failing[link] = http.StatusServiceUnavailable

	q := f.c.Extract(ctx, link)
	require.True(t, strings.HasPrefix(q.Error, "Request or parsing failed: "), q.Error)
	require.Equal(t, exam.Number(4), q.Number)
	require.Empty(t, q.Prompt)
	require.Empty(t, q.Answers)
	require.Empty(t, q.Comments)
	require.Empty(t, q.MostVoted)
}

func TestParseQuestionIsolatesFields(t *testing.T) {
	doc := htmlutil.El("html", "",
		htmlutil.El("div", "question-body",
			htmlutil.TextEl("p", "card-text", "Prompt"),
			htmlutil.El("div", "question-choices-container",
				htmlutil.TextEl("li", "", "A. one"),
				htmlutil.TextEl("li", "", "B.   two"),
			),
		),
		htmlutil.El("div", "voted-answers-tally",
			htmlutil.TextEl("script", "", "[{not json"),
		),
	)
	tel := &telemetry.RecordingAPI{}

	q := ParseQuestion(doc, tel)
	require.Equal(t, "Prompt", q.Prompt)
	require.Equal(t, []string{"A. one", "B. two"}, q.Answers)
	require.Empty(t, q.MostVoted)
	require.Empty(t, q.Comments)
	require.Len(t, tel.Reports("warning", report_extract_most_voted), 1)
}

func TestTransportErrorUnwraps(t *testing.T) {
	inner := errors.New("connection reset")
	err := error(&TransportError{Url: "https://example.com", Err: inner})
	require.ErrorIs(t, err, inner)
}

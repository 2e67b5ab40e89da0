package export

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"examtopics-viewer/internal/telemetry"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Image struct {
	Url  string
	Data []byte
	// Format is one of "png", "jpg" or "gif".
	Format string
}

// ImageSource fetches prompt images, Url is always absolute.
type ImageSource interface {
	Fetch(ctx context.Context, url string) (Image, error)
}

// ImageFetchError aborts an export, a document with missing illustrations is
// not produced.
type ImageFetchError struct {
	Url string
	Err error
}

func (e *ImageFetchError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Url, e.Err)
}

func (e *ImageFetchError) Unwrap() error {
	return e.Err
}

func imageFormat(data []byte) (string, bool) {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png", true
	case "image/jpeg":
		return "jpg", true
	case "image/gif":
		return "gif", true
	}
	return "", false
}

// HTTPImages downloads images and keeps recently used ones in memory, the
// same image is often embedded by several questions.
type HTTPImages struct {
	http  *resty.Client
	cache *expirable.LRU[string, Image]
}

func NewHTTPImages(size int, ttl time.Duration, tel telemetry.API) *HTTPImages {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = time.Minute * 30
	}
	client := resty.New()
	client.SetTimeout(time.Second * 10)
	telemetry.InstrumentResty(client, telemetry.NewScopedAPI("images", tel))
	return &HTTPImages{
		http:  client,
		cache: expirable.NewLRU[string, Image](size, nil, ttl),
	}
}

func (s *HTTPImages) Fetch(ctx context.Context, url string) (Image, error) {
	if cached, ok := s.cache.Get(url); ok {
		return cached, nil
	}

	res, err := s.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return Image{}, err
	}
	if !res.IsSuccess() {
		return Image{}, fmt.Errorf("status %s", res.Status())
	}
	format, ok := imageFormat(res.Body())
	if !ok {
		return Image{}, fmt.Errorf("unsupported image type %s", http.DetectContentType(res.Body()))
	}

	img := Image{Url: url, Data: res.Body(), Format: format}
	s.cache.Add(url, img)
	return img, nil
}

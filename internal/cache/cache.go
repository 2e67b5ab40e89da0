package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"examtopics-viewer/internal/assert"
	"examtopics-viewer/internal/exam"
	"examtopics-viewer/internal/telemetry"
)

const (
	report_cache_load = "cache.load"
	report_cache_save = "cache.save"
)

// Cache stores the link set and the scrape result of each exam code.
type Cache struct {
	store Store
	tel   telemetry.API
}

func New(store Store, tel telemetry.API) Cache {
	assert.NotNil(store, "store")
	assert.NotNil(tel, "tel")
	return Cache{store: store, tel: telemetry.NewScopedAPI("cache", tel)}
}

// LinksKey and ResultKey match the file names used by earlier versions of the
// tool (<code>_links.json and <code>.json), so existing data directories load.
func LinksKey(code string) string {
	return code + "_links"
}

func ResultKey(code string) string {
	return code
}

func load[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var out T
	blob, ok := c.store.Load(ctx, key)
	if !ok {
		return out, false
	}
	err := json.Unmarshal(blob, &out)
	if err != nil {
		c.tel.ReportWarning(report_cache_load, fmt.Errorf("corrupt blob %s: %w", key, err))
		var empty T
		return empty, false
	}
	return out, true
}

func save(ctx context.Context, c Cache, key string, value any) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(value)
	if err != nil {
		return err
	}
	err = c.store.Save(ctx, key, buffer.Bytes())
	if err != nil {
		c.tel.ReportBroken(report_cache_save, err, key)
		return err
	}
	return nil
}

func (c Cache) Links(ctx context.Context, code string) (exam.LinkSet, bool) {
	return load[exam.LinkSet](ctx, c, LinksKey(code))
}

func (c Cache) SaveLinks(ctx context.Context, code string, links exam.LinkSet) error {
	return save(ctx, c, LinksKey(code), links)
}

func (c Cache) Result(ctx context.Context, code string) (exam.Result, bool) {
	return load[exam.Result](ctx, c, ResultKey(code))
}

func (c Cache) SaveResult(ctx context.Context, code string, result exam.Result) error {
	return save(ctx, c, ResultKey(code), result)
}

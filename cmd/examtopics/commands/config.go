package commands

import (
	"time"

	"examtopics-viewer/internal/export"
	"examtopics-viewer/internal/scrape"
	"examtopics-viewer/internal/scrapers/examtopics"
	"examtopics-viewer/internal/telemetry"
)

type SiteConfig struct {
	BaseUrl           string  `json:"base_url"`
	UserAgent         string  `json:"user_agent"`
	Referer           string  `json:"referer"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

type CacheConfig struct {
	// Driver is one of "file", "sqlite" or "libsql".
	Driver string `json:"driver"`
	// Path is a directory for "file", a database file for "sqlite" and a
	// database url for "libsql".
	Path      string `json:"path"`
	AuthToken string `json:"auth_token"`
}

type MirrorConfig struct {
	Enabled bool   `json:"enabled"`
	BaseUrl string `json:"base_url"`
}

type ExportConfig struct {
	ImageCacheSize       int `json:"image_cache_size"`
	ImageCacheTtlSeconds int `json:"image_cache_ttl_seconds"`
}

type Config struct {
	Site             SiteConfig       `json:"site"`
	Cache            CacheConfig      `json:"cache"`
	Pacing           string           `json:"pacing"`
	PaceDelaySeconds int              `json:"pace_delay_seconds"`
	Mirror           MirrorConfig     `json:"mirror"`
	Export           ExportConfig     `json:"export"`
	Telemetry        telemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseUrl:           examtopics.DefaultBaseUrl,
			UserAgent:         examtopics.DefaultUserAgent,
			Referer:           examtopics.DefaultReferer,
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
		},
		Cache: CacheConfig{
			Driver: "file",
			Path:   "data",
		},
		Pacing:           string(scrape.PaceNormal),
		PaceDelaySeconds: int(scrape.DefaultDelay / time.Second),
		Mirror: MirrorConfig{
			BaseUrl: scrape.DefaultMirrorUrl,
		},
		Export: ExportConfig{
			ImageCacheSize:       256,
			ImageCacheTtlSeconds: 30 * 60,
		},
	}
}

func (c Config) pace() scrape.Pace {
	if c.Pacing == string(scrape.PaceRapid) {
		return scrape.PaceRapid
	}
	return scrape.PaceNormal
}

func (c Config) exportOptions() export.Options {
	return export.Options{BaseUrl: c.Site.BaseUrl}
}

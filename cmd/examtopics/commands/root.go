package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"examtopics-viewer/internal/cache"
	"examtopics-viewer/internal/chrono"
	"examtopics-viewer/internal/db"
	"examtopics-viewer/internal/export"
	"examtopics-viewer/internal/scrape"
	"examtopics-viewer/internal/scrapers/examtopics"
	"examtopics-viewer/internal/telemetry"
	"examtopics-viewer/lib/configutil"
	"examtopics-viewer/lib/restyutil"
	"examtopics-viewer/lib/serviceutil"
	"examtopics-viewer/lib/sqliteutil"

	"github.com/spf13/cobra"
)

var (
	configPath string
	rapid      bool
	verbose    bool
	dumpDir    string
)

var rootCmd = &cobra.Command{
	Use:   "examtopics",
	Short: "examtopics scrapes exam discussions from examtopics.com to browse or export them.",
	// errors are logged once by ExecuteContext
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The configuration file, a <name>.local.json5 next to it overrides it.")
	rootCmd.PersistentFlags().BoolVar(&rapid, "rapid", false, "Do not wait between question requests.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump", "", "Write every site request and response to this directory.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("command failed", err)
	}
}

// app is everything a command needs, built from the configuration.
type app struct {
	cfg      Config
	tel      telemetry.API
	cache    cache.Cache
	client   *examtopics.Client
	service  scrape.Service
	shutdown []func(context.Context)
}

// loadConfig reads the --config file. Without the flag, config.json5 is looked
// up from the working directory towards the root.
func loadConfig(explicit bool) (Config, error) {
	read := configutil.ReadRecursively[Config]
	if explicit {
		read = configutil.ReadConfig[Config]
	}
	cfg, err := read(configPath, defaultConfig())
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", configPath)
	} else if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if rapid {
		cfg.Pacing = string(scrape.PaceRapid)
	}
	return cfg, nil
}

func openStore(cfg CacheConfig) (cache.Store, func(context.Context), error) {
	switch cfg.Driver {
	case "", "file":
		store, err := cache.NewFileStore(cfg.Path)
		return store, func(context.Context) {}, err
	case "sqlite", "libsql":
		dbConfig := sqliteutil.Config{File: cfg.Path}
		if cfg.Driver == "libsql" {
			dbConfig = sqliteutil.Config{Url: cfg.Path, AuthToken: cfg.AuthToken}
		}
		database, err := dbConfig.Open(db.Schema)
		if err != nil {
			return nil, nil, err
		}
		closer := func(context.Context) { database.Close() }
		return cache.NewSQLStore(database, chrono.NewStandardTime()), closer, nil
	}
	return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
}

// setup builds the app, on error everything opened so far is already closed.
func setup(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, tel: telemetry.SlogAPI{}}
	err = a.open(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) open(ctx context.Context) error {
	cfg := a.cfg

	otel, err := telemetry.Setup(ctx, "examtopics", cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	a.shutdown = append(a.shutdown, func(ctx context.Context) {
		err := otel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	})
	if cfg.Telemetry.Enabled() {
		telemetry.InstrumentPerfStats(ctx)
	}

	store, closeStore, err := openStore(cfg.Cache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	a.shutdown = append(a.shutdown, closeStore)
	a.cache = cache.New(store, a.tel)

	var dump restyutil.InstrumentOutput
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return fmt.Errorf("create dump directory: %w", err)
		}
		dump = output
	}

	a.client, err = examtopics.NewClient(examtopics.Options{
		BaseUrl:           cfg.Site.BaseUrl,
		UserAgent:         cfg.Site.UserAgent,
		Referer:           cfg.Site.Referer,
		Timeout:           time.Duration(cfg.Site.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Site.RequestsPerSecond,
		Dump:              dump,
	}, a.cache, a.tel)
	if err != nil {
		return fmt.Errorf("create site client: %w", err)
	}

	scraper := scrape.NewScraper(
		a.client,
		a.cache,
		chrono.NewStandardTime(),
		a.tel,
		time.Duration(cfg.PaceDelaySeconds)*time.Second,
	)
	a.service = scrape.NewService(a.client, scraper, a.cache, a.tel)
	if cfg.Mirror.Enabled {
		a.service.Mirror = scrape.NewMirror(cfg.Mirror.BaseUrl, a.tel)
	}
	return nil
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		a.shutdown[i](ctx)
	}
}

func (a *app) imageSource() export.ImageSource {
	return export.NewHTTPImages(
		a.cfg.Export.ImageCacheSize,
		time.Duration(a.cfg.Export.ImageCacheTtlSeconds)*time.Second,
		a.tel,
	)
}

// questions loads the questions of an exam, printing progress as it goes.
// A warning is printed but does not stop the command.
func (a *app) questions(ctx context.Context, code string) (scrape.Outcome, error) {
	outcome, err := a.service.Questions(ctx, code, a.cfg.pace(), scrape.Progress{
		Pages: func(done, total int) {
			slog.Info("extracting question links", "page", done, "of", total)
		},
		Questions: func(done, total int, link string, cached bool) {
			if cached {
				slog.Debug("skipping cached question", "link", link)
				return
			}
			slog.Info("scraped question", "n", done, "of", total, "link", link)
		},
	})
	if err != nil {
		return scrape.Outcome{}, fmt.Errorf("load questions: %w", err)
	}
	if outcome.Warning != "" {
		fmt.Fprintln(os.Stderr, outcome.Warning)
	}
	slog.Debug("loaded questions", "exam", code, "source", outcome.Source, "count", len(outcome.Questions))
	return outcome, nil
}

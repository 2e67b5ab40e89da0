package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"examtopics-viewer/internal/scrape"

	"github.com/stretchr/testify/require"
)

func TestExportFilename(t *testing.T) {
	require.Equal(t, "SAA-C03_questions.pdf", exportFilename(" SAA-C03 "))
	require.Equal(t, "a_b_questions.pdf", exportFilename("a"+string(filepath.Separator)+"b"))
}

func TestConfigPace(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, scrape.PaceNormal, cfg.pace())
	cfg.Pacing = "rapid"
	require.Equal(t, scrape.PaceRapid, cfg.pace())
	cfg.Pacing = "bogus"
	require.Equal(t, scrape.PaceNormal, cfg.pace())
}

func TestOpenFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	store, closer, err := openStore(CacheConfig{Driver: "file", Path: dir})
	require.NoError(t, err)
	defer closer(context.Background())

	require.NoError(t, store.Save(context.Background(), "SAA-C03_links", []byte("{}")))
	_, err = os.Stat(dir)
	require.NoError(t, err)
}

func TestOpenSqliteStore(t *testing.T) {
	store, closer, err := openStore(CacheConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "cache.db")})
	require.NoError(t, err)
	defer closer(context.Background())

	require.NoError(t, store.Save(context.Background(), "SAA-C03_links", []byte(`{"links":[]}`)))
	blob, ok := store.Load(context.Background(), "SAA-C03_links")
	require.True(t, ok)
	require.JSONEq(t, `{"links":[]}`, string(blob))
}

func TestOpenUnknownStore(t *testing.T) {
	_, _, err := openStore(CacheConfig{Driver: "redis"})
	require.Error(t, err)
}

func TestCommandReturnsSetupError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	err := os.WriteFile(path, []byte(`{cache: {driver: "redis"}}`), 0600)
	require.NoError(t, err)

	rootCmd.SetArgs([]string{"links", "SAA-C03", "--config", path})
	err = rootCmd.ExecuteContext(context.Background())
	require.ErrorContains(t, err, `unknown cache driver "redis"`)
}

func TestAppCloseRunsShutdownInReverse(t *testing.T) {
	var order []int
	a := &app{}
	for i := range 3 {
		a.shutdown = append(a.shutdown, func(context.Context) {
			order = append(order, i)
		})
	}
	a.close()
	require.Equal(t, []int{2, 1, 0}, order)
}

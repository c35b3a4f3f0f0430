package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edu-catalog/internal/catalog"
	"edu-catalog/internal/catalogcache"
	"edu-catalog/internal/config"
	"edu-catalog/internal/domain"
	"edu-catalog/internal/kvstore"
	"edu-catalog/internal/logger"
	"edu-catalog/internal/mappers"
	"edu-catalog/internal/providers"
	"edu-catalog/internal/providers/providertest"
)

// fakeFactory serves every run from the same fake source and store so the
// cache survives between commands.
func fakeFactory(source *providertest.FakeSource, store kvstore.Store) serviceFactory {
	return func(_ context.Context, _ config.Config, log *logger.Logger, seed uint64) (*catalog.Service, func() error, error) {
		tables := config.DefaultCatalogTables()
		norm := mappers.NewNormalizer(tables, mappers.WithRandom(mappers.NewRandomSource(seed)))
		svc := catalog.New(source, catalogcache.New(store), norm, tables, catalog.WithLogger(log))
		return svc, func() error { return nil }, nil
	}
}

func newSource() *providertest.FakeSource {
	return &providertest.FakeSource{
		Topics: map[string][]providers.Record{
			"programming": providertest.Works("P", 3, "Programming"),
			"python":      providertest.Works("Y", 2, "Python"),
		},
		SearchResults: providertest.Works("S", 4, "Graphic design"),
	}
}

func runCmd(t *testing.T, factory serviceFactory, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_MODE", "production")
	var out bytes.Buffer
	err := run(args, &out, factory)
	return out.String(), err
}

func TestFetchJSON(t *testing.T) {
	source := newSource()
	out, err := runCmd(t, fakeFactory(source, kvstore.NewMemoryStore()), "--seed", "1", "fetch", "--json")
	require.NoError(t, err)

	var items []domain.EducationalItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 5)
	assert.Equal(t, "P0W", items[0].ID)
	assert.Equal(t, "Y0W", items[3].ID)
	assert.Len(t, source.SubjectCalls(), 4)
}

func TestFetchServesCacheOnSecondRun(t *testing.T) {
	source := newSource()
	factory := fakeFactory(source, kvstore.NewMemoryStore())

	_, err := runCmd(t, factory, "fetch")
	require.NoError(t, err)
	out, err := runCmd(t, factory, "fetch", "--type", "workshop")
	require.NoError(t, err)

	assert.Len(t, source.SubjectCalls(), 4, "second run must be served from cache")
	assert.Contains(t, out, "2 items")
	assert.Contains(t, out, "workshop")
	assert.NotContains(t, out, "event ")
}

func TestFetchDiff(t *testing.T) {
	source := newSource()
	factory := fakeFactory(source, kvstore.NewMemoryStore())

	out, err := runCmd(t, factory, "fetch", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "5 added, 0 updated, 0 removed")

	source.Topics["python"] = nil
	out, err = runCmd(t, factory, "fetch", "--no-cache", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "- Y0W")
	assert.Contains(t, out, "0 added, 0 updated, 2 removed")
}

func TestFetchCategories(t *testing.T) {
	source := newSource()
	source.Topics["javascript"] = providertest.Works("J", 2, "Graphic design")
	factory := fakeFactory(source, kvstore.NewMemoryStore())

	out, err := runCmd(t, factory, "fetch", "--categories")
	require.NoError(t, err)
	assert.Equal(t, "All\nProgramming\nDesign\n", out)

	out, err = runCmd(t, factory, "fetch", "--categories", "--json")
	require.NoError(t, err)
	var categories []string
	require.NoError(t, json.Unmarshal([]byte(out), &categories))
	assert.Equal(t, []string{"All", "Programming", "Design"}, categories)
}

func TestSearch(t *testing.T) {
	source := newSource()
	out, err := runCmd(t, fakeFactory(source, kvstore.NewMemoryStore()), "search", "graphic", "design", "--json")
	require.NoError(t, err)

	var items []domain.EducationalItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 4)
	assert.Equal(t, "Design", items[0].Category)
	assert.Equal(t, []string{"graphic design"}, source.SearchCalls())
}

func TestGet(t *testing.T) {
	factory := fakeFactory(newSource(), kvstore.NewMemoryStore())

	out, err := runCmd(t, factory, "get", "P1W", "--fields", "id,type")
	require.NoError(t, err)
	var picked map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &picked))
	assert.Equal(t, map[string]any{"id": "P1W", "type": "workshop"}, picked)

	_, err = runCmd(t, factory, "get", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope" not found`)
}

func TestClearCache(t *testing.T) {
	store := kvstore.NewMemoryStore()
	factory := fakeFactory(newSource(), store)

	_, err := runCmd(t, factory, "fetch")
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	out, err := runCmd(t, factory, "clear-cache")
	require.NoError(t, err)
	assert.Equal(t, "cache cleared\n", out)
	assert.Equal(t, 0, store.Len())
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	factory := fakeFactory(newSource(), kvstore.NewMemoryStore())

	csvPath := filepath.Join(dir, "out", "catalog.csv")
	out, err := runCmd(t, factory, "export", "--out", csvPath, "--type", "course")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 items")

	b, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\r\n")
	assert.Len(t, lines, 3, "header + 2 courses")

	out, err = runCmd(t, factory, "export", "--format", "xml", "--out", csvPath)
	require.NoError(t, err)
	xmlPath := filepath.Join(dir, "out", "catalog.xml")
	assert.Contains(t, out, xmlPath)
	_, err = os.Stat(xmlPath)
	assert.NoError(t, err)
}

func TestExportSFTPRequiresCredentials(t *testing.T) {
	t.Setenv("SFTP_HOST", "")
	factory := fakeFactory(newSource(), kvstore.NewMemoryStore())

	_, err := runCmd(t, factory, "export", "--out", filepath.Join(t.TempDir(), "c.csv"), "--sftp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sftp: missing env")
}

func TestHelpAndUnknownCommand(t *testing.T) {
	factory := fakeFactory(newSource(), kvstore.NewMemoryStore())

	out, err := runCmd(t, factory, "--help")
	var ferr *flags.Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, flags.ErrHelp, ferr.Type)
	assert.Contains(t, out, "Usage:")

	_, err = runCmd(t, factory, "frobnicate")
	require.Error(t, err)
}

func TestBuildServiceRejectsUnknownBackend(t *testing.T) {
	cfg := config.Config{KVBackend: "etcd"}
	_, _, err := buildService(context.Background(), cfg, logger.Nop(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "etcd")
}

func TestBuildServiceMemoryBackend(t *testing.T) {
	cfg := config.Config{KVBackend: "memory", OpenLibraryBaseURL: "http://127.0.0.1:1", MaxAttempts: 1}
	svc, closeFn, err := buildService(context.Background(), cfg, logger.Nop(), 0)
	require.NoError(t, err)
	defer closeFn()

	assert.Empty(t, svc.SearchItems(context.Background(), "go"), "unreachable upstream degrades to empty")
}

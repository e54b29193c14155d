package build

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/listbuilder/internal/config"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/listbuilder/internal/source"
)

func commitFile(t *testing.T, repo *git.Repository, root, name, content string) {
	t.Helper()
	wt, err := repo.Worktree()
	require.NoError(t, err)
	full := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
}

// newOrigin creates a content repository with two categories.
func newOrigin(t *testing.T) (*git.Repository, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "origin")
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	commitFile(t, repo, root, "lists/animals/cats.yml", "---\ntitle: Cats\n---\nTabby\nSiamese\n")
	commitFile(t, repo, root, "lists/animals/all.yml", "ignored\n")
	commitFile(t, repo, root, "lists/colors/red.yml", "Crimson\nScarlet\n")
	return repo, root
}

func testConfig(t *testing.T, repoURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Source.RepoURL = repoURL
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	return cfg
}

func TestBuild_LocalClone(t *testing.T) {
	_, origin := newOrigin(t)
	cfg := testConfig(t, origin)
	out := t.TempDir()

	res, err := New(cfg).Build(t.Context(), out, SourceOptions{})
	require.NoError(t, err)
	require.Len(t, res.Paths, 2)

	categories, lists, items := res.Data.Counts()
	assert.Equal(t, 2, categories)
	assert.Equal(t, 2, lists)
	assert.Equal(t, 4, items)

	bundle, err := os.ReadFile(filepath.Join(out, "js", config.DefaultCategoryBundle))
	require.NoError(t, err)
	assert.Contains(t, string(bundle), `"Tabby"`)
	assert.Contains(t, string(bundle), `"title": "Cats"`)
	assert.NotContains(t, string(bundle), "ignored")

	_, err = os.Stat(filepath.Join(out, "js", config.DefaultIndexBundle))
	require.NoError(t, err)
	assert.DirExists(t, cfg.ClonePath())
}

func TestBuild_PullPicksUpNewLists(t *testing.T) {
	repo, origin := newOrigin(t)
	cfg := testConfig(t, origin)
	p := New(cfg)

	data, err := p.Lists(t.Context(), SourceOptions{})
	require.NoError(t, err)
	_, lists, _ := data.Counts()
	assert.Equal(t, 2, lists)

	commitFile(t, repo, origin, "lists/colors/blue.yml", "Navy\n")

	data, err = p.Lists(t.Context(), SourceOptions{})
	require.NoError(t, err)
	_, lists, _ = data.Counts()
	assert.Equal(t, 2, lists, "existing clone is reused without --pull")

	data, err = p.Lists(t.Context(), SourceOptions{Pull: true})
	require.NoError(t, err)
	_, lists, _ = data.Counts()
	assert.Equal(t, 3, lists)
}

func TestBuild_MissingListsDir(t *testing.T) {
	_, origin := newOrigin(t)
	cfg := testConfig(t, origin)
	cfg.Source.ListsDir = "nope"

	_, err := New(cfg).Build(t.Context(), t.TempDir(), SourceOptions{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func newContentsAPI(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		write := func(v any) { _ = json.NewEncoder(w).Encode(v) }
		switch r.URL.Path {
		case "/contents/lists/":
			write([]source.Entry{{Name: "animals", Type: source.TypeDir, URL: srv.URL + "/contents/lists/animals"}})
		case "/contents/lists/animals":
			write([]source.Entry{{Name: "dogs.yml", Type: source.TypeFile, DownloadURL: srv.URL + "/raw/dogs.yml"}})
		case "/raw/dogs.yml":
			_, _ = w.Write([]byte("Beagle\nPoodle\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBuild_RemoteUsesHTTPCache(t *testing.T) {
	var hits atomic.Int32
	srv := newContentsAPI(t, &hits)
	cfg := testConfig(t, "")
	cfg.Source.APIURL = srv.URL + "/contents/lists/"

	p := New(cfg, WithTransport(srv.Client().Transport))
	data, err := p.Lists(t.Context(), SourceOptions{NoLocal: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beagle", "Poodle"}, data.Categories["animals"]["dogs"].Items)
	assert.Equal(t, int32(3), hits.Load())
	assert.DirExists(t, cfg.HTTPCachePath())

	// A second pipeline shares only the disk cache.
	_, err = New(cfg, WithTransport(srv.Client().Transport)).Lists(t.Context(), SourceOptions{NoLocal: true})
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

const mergeInput = "// generated\n" +
	"const allPromptDataMarkdown = `\n" +
	"# Prompt Clusters Data\n" +
	"### cats\n" +
	"- terms: Lion\n" +
	"- associates: whiskers\n" +
	"\n" +
	"### retired\n" +
	"- terms: old\n" +
	"- associates: kept\n" +
	"`;\n" +
	"export default allPromptDataMarkdown;\n"

func TestMerge(t *testing.T) {
	_, origin := newOrigin(t)
	cfg := testConfig(t, origin)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.js")
	output := filepath.Join(dir, "out", "merged.js")
	require.NoError(t, os.WriteFile(input, []byte(mergeInput), 0o600))

	n, err := New(cfg).Merge(t.Context(), MergeOptions{Input: input, Output: output})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	got := string(raw)
	assert.True(t, strings.HasPrefix(got, "// generated\nconst allPromptDataMarkdown = `\n# Prompt Clusters Data\n"))
	assert.True(t, strings.HasSuffix(got, "`;\nexport default allPromptDataMarkdown;\n"))
	assert.Contains(t, got, "### cats\n- terms: Tabby, Siamese\n- associates: whiskers")
	assert.Contains(t, got, "### retired\n- terms: old\n- associates: kept")
	assert.Contains(t, got, "### red\n- terms: Crimson, Scarlet\n- associates:")
	assert.Less(t, strings.Index(got, "### retired"), strings.Index(got, "### red"))
}

func TestMerge_Compact(t *testing.T) {
	_, origin := newOrigin(t)
	cfg := testConfig(t, origin)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.js")
	require.NoError(t, os.WriteFile(input, []byte(mergeInput), 0o600))

	_, err := New(cfg).Merge(t.Context(), MergeOptions{Input: input, Output: input, Compact: true})
	require.NoError(t, err)

	raw, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "- terms:Tabby,Siamese\n")
}

func TestMerge_NoBlock(t *testing.T) {
	cfg := testConfig(t, "unused")
	input := filepath.Join(t.TempDir(), "in.js")
	require.NoError(t, os.WriteFile(input, []byte("export default {};\n"), 0o600))

	_, err := New(cfg).Merge(t.Context(), MergeOptions{Input: input, Output: input})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestFlushMetrics(t *testing.T) {
	_, origin := newOrigin(t)
	cfg := testConfig(t, origin)
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "listbuilder.prom")

	p := New(cfg)
	_, err := p.Build(t.Context(), t.TempDir(), SourceOptions{})
	require.NoError(t, err)
	require.NoError(t, p.FlushMetrics())

	raw, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "listbuilder_lists 2")
}

func TestFlushMetrics_Disabled(t *testing.T) {
	p := New(testConfig(t, "unused"))
	require.NoError(t, p.FlushMetrics())
}

func TestCleanCache(t *testing.T) {
	cfg := testConfig(t, "unused")
	require.NoError(t, os.MkdirAll(cfg.HTTPCachePath(), 0o750))
	removed, err := New(cfg).CleanCache()
	require.NoError(t, err)
	assert.Equal(t, cfg.Cache.Dir, removed)
	assert.NoDirExists(t, cfg.Cache.Dir)
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"domquery/internal/di"
	"domquery/internal/domain/entity"
	"domquery/internal/infrastructure/logger"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<div id="a"><p class="x" data-k="v">hi</p><p class="x">there   you</p></div>`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type result struct {
	out string
	cfg di.Config
	err error
}

// run executes the command tree with a quiet logger.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var res result
	a := &app{
		envDir: t.TempDir(),
		newContainer: func(cfg di.Config) (*di.Container, error) {
			res.cfg = cfg
			return di.NewContainerWithLogger(cfg, logger.NewNop()), nil
		},
	}
	root := newRootCmd(a)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	res.err = root.Execute()
	res.out = out.String()
	return res
}

func TestQuery_Text(t *testing.T) {
	res := run(t, "", "query", "p.x", "--source", doc, "--attr", "data-k")
	require.NoError(t, res.err)

	assert.Equal(t, "p.x[0]: hi data-k=\"v\"\np.x[1]: there you\n", res.out)
}

func TestQuery_JSON(t *testing.T) {
	res := run(t, "", "query", "p.x", "#a", "--source", doc, "--json", "--limit", "1")
	require.NoError(t, res.err)

	var matches []entity.Match
	require.NoError(t, json.Unmarshal([]byte(res.out), &matches))
	require.Len(t, matches, 2)
	assert.Equal(t, "p.x", matches[0].Selector)
	assert.Equal(t, "hi", matches[0].Text)
	assert.Equal(t, "#a", matches[1].Selector)
}

func TestQuery_NoMatches(t *testing.T) {
	res := run(t, "", "query", "table", "--source", doc)
	require.NoError(t, res.err)
	assert.Equal(t, "No matches\n", res.out)
}

func TestQuery_FileAndStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	res := run(t, "", "query", "p", "--file", path, "--limit", "1")
	require.NoError(t, res.err)
	assert.Equal(t, "p[0]: hi\n", res.out)

	res = run(t, doc, "query", "p", "--file", "-", "--limit", "1")
	require.NoError(t, res.err)
	assert.Equal(t, "p[0]: hi\n", res.out)
}

func TestQuery_SourceRequired(t *testing.T) {
	res := run(t, "", "query", "p")
	assert.Error(t, res.err)

	res = run(t, "", "query", "p", "--source", doc, "--file", "x.html")
	assert.Error(t, res.err)
}

func TestQuery_UnknownBackend(t *testing.T) {
	res := run(t, "", "query", "p", "-b", "nonexistent", "--source", doc)
	assert.ErrorIs(t, res.err, entity.ErrBackendNotFound)
}

func TestQuery_Clean(t *testing.T) {
	src := `<body><script>var x</script><p data-k="v">hi</p></body>`

	res := run(t, "", "query", "script", "--source", src, "--clean")
	require.NoError(t, res.err)
	assert.True(t, res.cfg.Clean)
	assert.Equal(t, "No matches\n", res.out)
}

func TestBackends(t *testing.T) {
	res := run(t, "", "backends")
	require.NoError(t, res.err)

	assert.Equal(t, []string{"chromedp", "playwright", "rod", "selenium", "soup", "webdriver"},
		strings.Fields(res.out))
}

func TestClean(t *testing.T) {
	res := run(t, `<html><head><title>x</title></head><body><p onclick="go()">hi</p></body></html>`, "clean", "--file", "-")
	require.NoError(t, res.err)
	assert.Equal(t, "<body><p>hi</p></body>\n", res.out)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv(di.KeyHeadless, "true")
	t.Setenv(di.KeyLogLevel, "info")

	res := run(t, "", "backends", "--headless=false", "--log-level", "error")
	require.NoError(t, res.err)
	assert.False(t, res.cfg.Browser.Headless)
	assert.Equal(t, "error", res.cfg.Logger.Level)
	assert.Equal(t, "backends", res.cfg.Logger.Name)
}

func TestScreenshot_StaticBackendUnsupported(t *testing.T) {
	res := run(t, "", "screenshot", doc, "-b", entity.BackendSoup, "--out", filepath.Join(t.TempDir(), "x.jpg"))
	assert.ErrorIs(t, res.err, entity.ErrScreenshotUnsupported)
}

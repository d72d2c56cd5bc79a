// Package browsertest holds a behaviour suite shared by every
// output.BrowserSession implementation. Browser-backed tests only run when
// DOMQUERY_BROWSER_TESTS=1, since they need a local Chrome (or driver).
package browsertest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"domquery/internal/application/port/output"
	"domquery/internal/infrastructure/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const EnvToggle = "DOMQUERY_BROWSER_TESTS"

const PageHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<div id="a"><p class="x" data-k="v">hi</p></div>
	<ul>
		<li id="one">one</li>
		<li id="two">two</li>
		<li id="three" hidden>three</li>
	</ul>
	<script>
		document.getElementById('a').insertAdjacentHTML('beforeend', '<p class="late">rendered</p>');
	</script>
</body>
</html>`

// Require skips the test unless browser tests are enabled.
func Require(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv(EnvToggle) != "1" {
		t.Skipf("set %s=1 to run browser-backed tests", EnvToggle)
	}
}

// NewServer serves PageHTML at every path.
func NewServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, PageHTML)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// RunSessionSuite exercises navigation, lookup and element accessors.
func RunSessionSuite(t *testing.T, factory output.SessionFactory) {
	Require(t)
	srv := NewServer(t)
	ctx := context.Background()

	s, err := factory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Quit() })

	t.Run("rejects invalid addresses", func(t *testing.T) {
		for _, u := range []string{"", "ftp://example.com", "javascript:alert(1)"} {
			assert.ErrorIs(t, s.Navigate(ctx, u), browser.ErrInvalidURL, u)
		}
	})

	require.NoError(t, s.Navigate(ctx, srv.URL))

	t.Run("finds elements in document order", func(t *testing.T) {
		els, err := s.FindElements(ctx, "li")
		require.NoError(t, err)
		require.Len(t, els, 3)

		var ids []string
		for _, el := range els {
			id, ok, err := el.Attr(ctx, "id")
			require.NoError(t, err)
			require.True(t, ok)
			ids = append(ids, id)
		}
		assert.Equal(t, []string{"one", "two", "three"}, ids)
	})

	t.Run("element accessors", func(t *testing.T) {
		els, err := s.FindElements(ctx, "p.x")
		require.NoError(t, err)
		require.Len(t, els, 1)

		text, err := els[0].Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hi", strings.TrimSpace(text))

		v, ok, err := els[0].Attr(ctx, "data-k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v", v)

		_, ok, err = els[0].Attr(ctx, "href")
		require.NoError(t, err)
		assert.False(t, ok)

		html, err := els[0].HTML(ctx)
		require.NoError(t, err)
		assert.Contains(t, html, `class="x"`)
	})

	t.Run("sees script-rendered nodes", func(t *testing.T) {
		els, err := s.FindElements(ctx, "p.late")
		require.NoError(t, err)
		assert.Len(t, els, 1)
	})

	t.Run("no match is empty", func(t *testing.T) {
		els, err := s.FindElements(ctx, "p.missing")
		require.NoError(t, err)
		assert.Empty(t, els)
	})

	t.Run("screenshot", func(t *testing.T) {
		capable, ok := s.(output.ScreenshotCapable)
		if !ok {
			t.Skip("session cannot capture")
		}
		shot, err := capable.Screenshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", shot.Format)
		assert.NotEmpty(t, shot.Data)
	})

	t.Run("quit is idempotent", func(t *testing.T) {
		assert.NoError(t, s.Quit())
		assert.NoError(t, s.Quit())
	})
}

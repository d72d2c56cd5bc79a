package rod

import (
	"context"
	"testing"

	"domquery/internal/infrastructure/analyzer/live"
	"domquery/internal/infrastructure/browser"
	"domquery/internal/infrastructure/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() browser.Config {
	cfg := browser.DefaultConfig()
	cfg.Headless = true
	cfg.SlowMotion = 0
	cfg.NoSandbox = true
	return cfg
}

func TestSession_Suite(t *testing.T) {
	browsertest.RunSessionSuite(t, Factory(testConfig()))
}

func TestNewSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewSession(ctx, testConfig())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_CurrentURL(t *testing.T) {
	browsertest.Require(t)
	srv := browsertest.NewServer(t)
	ctx := context.Background()

	s, err := NewSession(ctx, testConfig())
	require.NoError(t, err)
	defer s.Quit()

	require.NoError(t, s.Navigate(ctx, srv.URL))
	u, err := s.CurrentURL()
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/", u)
}

func TestSession_WithLiveAnalyzer(t *testing.T) {
	browsertest.Require(t)
	srv := browsertest.NewServer(t)
	ctx := context.Background()

	a := live.New(Factory(testConfig()))
	defer a.Close()

	assert.Empty(t, a.Query(ctx, "p"))
	require.NoError(t, a.Load(ctx, srv.URL))

	got := a.Query(ctx, "p.x")
	require.Len(t, got, 1)
	text, err := got[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	shot, err := a.Screenshot(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, shot.Width, 1024)
}

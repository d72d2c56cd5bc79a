package playwright

import (
	"context"
	"testing"

	"domquery/internal/infrastructure/browser"
	"domquery/internal/infrastructure/browser/browsertest"

	"github.com/stretchr/testify/assert"
)

func TestSession_Suite(t *testing.T) {
	browsertest.RunSessionSuite(t, Factory(browser.DefaultConfig()))
}

func TestNewSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := NewSession(ctx, browser.DefaultConfig())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, context.Canceled)
}

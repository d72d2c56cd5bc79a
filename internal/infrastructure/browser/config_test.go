package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Headless)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.False(t, cfg.NoSandbox, "Should be secure by default")
	assert.False(t, cfg.DevTools)
}

func TestConfig_Normalize(t *testing.T) {
	cfg := Config{Timeout: 0, IdleWait: -time.Second}.Normalize()

	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Zero(t, cfg.IdleWait)
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://127.0.0.1:8080/path?q=1",
		"file:///tmp/page.html",
		"about:blank",
		"data:text/html,<p>hi</p>",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateURL(u), u)
	}

	tests := []struct {
		name string
		url  string
	}{
		{"Empty URL", ""},
		{"Whitespace", "   "},
		{"Invalid scheme", "ftp://example.com"},
		{"JavaScript URL", "javascript:alert(1)"},
		{"Bare markup", "<div>hi</div>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateURL(tt.url), ErrInvalidURL)
		})
	}
}

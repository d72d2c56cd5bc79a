package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears key for the duration of the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestNewEnvService_LoadsAndOverloads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOMQUERY_TEST_A=base\nDOMQUERY_TEST_B=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte("DOMQUERY_TEST_B=override\n"), 0o600))

	t.Setenv("APP_ENV", "test")
	unset(t, "DOMQUERY_TEST_A")
	unset(t, "DOMQUERY_TEST_B")

	svc, err := NewEnvService(dir)
	require.NoError(t, err)

	assert.Equal(t, "test", svc.AppEnv())
	assert.Len(t, svc.Loaded(), 2)
	assert.Equal(t, "base", svc.Get("DOMQUERY_TEST_A"))
	assert.Equal(t, "override", svc.Get("DOMQUERY_TEST_B"))
}

func TestNewEnvService_MissingFilesAreFine(t *testing.T) {
	t.Setenv("APP_ENV", "")

	svc, err := NewEnvService(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "dev", svc.AppEnv())
	assert.Empty(t, svc.Loaded())
}

func TestEnvService_TypedGetters(t *testing.T) {
	svc := &EnvService{}

	t.Setenv("DOMQUERY_TEST_BOOL", "true")
	t.Setenv("DOMQUERY_TEST_INT", "42")
	t.Setenv("DOMQUERY_TEST_DUR", "1500ms")
	t.Setenv("DOMQUERY_TEST_BAD", "nope")
	unset(t, "DOMQUERY_TEST_MISSING")

	assert.True(t, svc.GetBool("DOMQUERY_TEST_BOOL", false))
	assert.False(t, svc.GetBool("DOMQUERY_TEST_BAD", false))
	assert.Equal(t, 42, svc.GetInt("DOMQUERY_TEST_INT", 0))
	assert.Equal(t, 7, svc.GetInt("DOMQUERY_TEST_BAD", 7))
	assert.Equal(t, 1500*time.Millisecond, svc.GetDuration("DOMQUERY_TEST_DUR", 0))
	assert.Equal(t, time.Second, svc.GetDuration("DOMQUERY_TEST_BAD", time.Second))
	assert.Equal(t, "fallback", svc.GetWithDefault("DOMQUERY_TEST_MISSING", "fallback"))
	assert.Equal(t, "nope", svc.GetWithDefault("DOMQUERY_TEST_BAD", "fallback"))
}

func TestEnvService_MustGet(t *testing.T) {
	svc := &EnvService{}
	unset(t, "DOMQUERY_TEST_MISSING")
	t.Setenv("DOMQUERY_TEST_SET", "x")

	assert.Equal(t, "x", svc.MustGet("DOMQUERY_TEST_SET"))
	assert.PanicsWithValue(t, "env DOMQUERY_TEST_MISSING is missing", func() {
		svc.MustGet("DOMQUERY_TEST_MISSING")
	})
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "")
	t.Setenv("STOREFRONT_TIMEOUT", "")
	t.Setenv("STOREFRONT_SERIALIZE_MUTATIONS", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "")

	cfg := FromEnv()

	assert.Equal(t, "https://ecomerceapi-3.onrender.com", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.SerializeMutations)
	assert.Empty(t, cfg.CORSAllowOrigins, "no cross-origin access unless configured")
	assert.NotEmpty(t, cfg.StateDir)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "http://localhost:9000/")
	t.Setenv("STOREFRONT_TIMEOUT", "250ms")
	t.Setenv("STOREFRONT_SERIALIZE_MUTATIONS", "off")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("STOREFRONT_STATE_DIR", "/tmp/sf")

	cfg := FromEnv()

	assert.Equal(t, "http://localhost:9000", cfg.APIURL)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.False(t, cfg.SerializeMutations)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "/tmp/sf", cfg.StateDir)
}

func TestParseDurationFallsBack(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseDuration("soon", 3*time.Second))
	assert.Equal(t, 3*time.Second, parseDuration("-1s", 3*time.Second))
}

package config

import (
	"strings"
	"testing"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "user:pass@tcp(localhost:3306)/resultpost")

	var cfg Config
	require.NoError(t, cleanenv.ReadEnv(&cfg))

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "localhost:8080", cfg.HTTPServer.Address)

	// The capturer appends /post/sessions/{id}/card to this, so the
	// default must be a bare origin.
	assert.Equal(t, "http://localhost:8080", cfg.Snapshot.CardBaseURL)
	assert.False(t, strings.HasSuffix(cfg.Snapshot.CardBaseURL, "/"))
}

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	src := `
snapshot  = "model.json"
fetch     = true
log_level = "debug"

pattern "threads" {
  expr = "Processes[].Threads[]"
}

pattern "regs" {
  expr = "Processes[].Threads[].Registers"
}
`
	cfg, err := ParseConfig("session.hcl", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "model.json", cfg.Snapshot)
	assert.Empty(t, cfg.Database)
	assert.True(t, cfg.Fetch)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Patterns, 2)
	assert.Equal(t, "threads", cfg.Patterns[0].Name)
	assert.Equal(t, "Processes[].Threads[]", cfg.Patterns[0].Expr)
}

func TestParseConfigRejectsUnknownAttr(t *testing.T) {
	_, err := ParseConfig("session.hcl", []byte(`bogus = 1`))
	assert.Error(t, err)
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig("session.hcl", []byte(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Patterns)
	assert.False(t, cfg.Fetch)
}

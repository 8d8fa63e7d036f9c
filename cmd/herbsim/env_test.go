package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("HERBSIM_TEST_INT", "250")
	t.Setenv("HERBSIM_TEST_BAD", "-3")
	t.Setenv("HERBSIM_TEST_SEED", "-17")
	t.Setenv("HERBSIM_TEST_LEVEL", "DEBUG")

	assert.Equal(t, 250, envInt("HERBSIM_TEST_INT", 500))
	assert.Equal(t, 500, envInt("HERBSIM_TEST_BAD", 500))
	assert.Equal(t, 500, envInt("HERBSIM_TEST_UNSET", 500))
	assert.Equal(t, int64(-17), envInt64("HERBSIM_TEST_SEED", 69161))
	assert.Equal(t, int64(69161), envInt64("HERBSIM_TEST_UNSET", 69161))
	assert.Equal(t, "fallback", envString("HERBSIM_TEST_UNSET", "fallback"))
	assert.Equal(t, slog.LevelDebug, envLevel("HERBSIM_TEST_LEVEL", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, envLevel("HERBSIM_TEST_UNSET", slog.LevelInfo))
}

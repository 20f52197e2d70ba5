package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pttransamdriver/amm-master/pkg/logger"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(&buf, "info", "json")
	require.NoError(t, err)

	l.Info("pool started", "denom_a", "tokena", "denom_b", "tokenb")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "pool started", line["message"])
	require.Equal(t, "tokena", line["denom_a"])
	require.Equal(t, "info", line["level"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(&buf, "error", "json")
	require.NoError(t, err)

	l.Info("dropped")
	require.Zero(t, buf.Len())

	l.Error("kept", "cause", "test")
	require.Contains(t, buf.String(), "kept")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.New(&buf, "debug", "console")
	require.NoError(t, err)

	l.Debug("verbose detail")
	require.True(t, strings.Contains(buf.String(), "verbose detail"))
}

func TestNew_Invalid(t *testing.T) {
	var buf bytes.Buffer

	_, err := logger.New(&buf, "shouting", "json")
	require.Error(t, err)
	require.Contains(t, err.Error(), "log level")

	_, err = logger.New(&buf, "info", "xml")
	require.Error(t, err)
	require.Contains(t, err.Error(), "log format")
}

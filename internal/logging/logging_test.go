package logging_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"deedles.dev/blobviz/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logging.Level{
		"debug":   logging.Debug,
		"":        logging.Info,
		" INFO ":  logging.Info,
		"warning": logging.Warn,
		"error":   logging.Error,
	}
	for in, expected := range tests {
		level, err := logging.ParseLevel(in)
		require.NoError(t, err, "%q", in)
		require.Equal(t, expected, level, "%q", in)
	}

	_, err := logging.ParseLevel("loud")
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := logging.ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, logging.JSON, f)

	f, err = logging.ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, logging.Text, f)

	_, err = logging.ParseFormat("xml")
	require.Error(t, err)
}

func TestText(t *testing.T) {
	var buf strings.Builder
	log := logging.New(logging.Info, logging.Text, &buf).With(logging.F("file", "a.bin"))

	log.Debug("hidden")
	log.Info("decoded", logging.F("records", 12))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[INFO] decoded file=a.bin records=12")
}

func TestJSON(t *testing.T) {
	var buf strings.Builder
	log := logging.New(logging.Debug, logging.JSON, &buf)
	log.Warn("degenerate", logging.F("err", errors.New("flat")), logging.F("role", "red"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	require.Equal(t, "WARN", entry["level"])
	require.Equal(t, "degenerate", entry["msg"])
	require.Equal(t, "flat", entry["err"])
	require.Equal(t, "red", entry["role"])
}

func TestWithDoesNotShare(t *testing.T) {
	var buf strings.Builder
	base := logging.New(logging.Info, logging.Text, &buf)
	a := base.With(logging.F("a", 1))
	base.With(logging.F("b", 2))

	a.Info("msg")
	require.NotContains(t, buf.String(), "b=2")
	require.Contains(t, buf.String(), "a=1")
}

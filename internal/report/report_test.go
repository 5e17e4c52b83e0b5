package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbenliogludev/postwatch/internal/telemetry"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	stats := telemetry.Stats{Clicks: 3, Types: 2, Errors: 1}

	rep := New("Found 4 posts.", stats, map[string]string{"reason": "noop"})
	require.NoError(t, Write(dir, rep))

	loaded := Read(filepath.Join(dir, JSONName))

	assert.Equal(t, rep.RunID, loaded.RunID)
	assert.Equal(t, rep.TS, loaded.TS)
	assert.Equal(t, "Found 4 posts.", loaded.Result)
	assert.Equal(t, stats, loaded.Telemetry)
	assert.Equal(t, "noop", loaded.Extra["reason"])
}

func TestWriteArtifactsAreNewlineTerminated(t *testing.T) {
	dir := t.TempDir()
	rep := New("result without trailing newline", telemetry.Stats{}, nil)
	require.NoError(t, Write(dir, rep))

	for _, name := range []string{JSONName, ResultName, TelemetryName} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(raw), "\n"), "%s must end with a newline", name)
	}
}

func TestReadMissingFileYieldsStub(t *testing.T) {
	rep := Read(filepath.Join(t.TempDir(), JSONName))

	require.NotNil(t, rep)
	assert.Contains(t, rep.Extra["error"], "not found")
	assert.True(t, rep.Telemetry.NoOp())
}

func TestReadBrokenJSONYieldsStub(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, JSONName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	rep := Read(path)

	require.NotNil(t, rep)
	assert.Contains(t, rep.Extra["error"], "failed to parse")
}

func TestNewDefaults(t *testing.T) {
	rep := New("x", telemetry.Stats{}, nil)

	assert.NotEmpty(t, rep.RunID)
	assert.NotZero(t, rep.TS)
	assert.NotNil(t, rep.Extra)
	assert.Contains(t, rep.TelemetryText, "TELEMETRY")
}

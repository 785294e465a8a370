package logger

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRecords(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var records []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		records = append(records, rec)
	}
	return records
}

func TestInit_FileOutputWithRequestID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	cfg := DefaultConfig()
	cfg.Output = "file"
	cfg.FilePath = path
	cfg.Compress = false
	cfg.AppName = "tarefas"
	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Close() })

	ctx := ContextWithRequestID(context.Background(), "req-1")
	InfoContext(ctx, "hello", "n", 1)
	Debug("hidden at info level")
	Component("scheduler").Warn("late")
	require.NoError(t, Close())

	records := readRecords(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, "hello", records[0]["msg"])
	assert.Equal(t, "req-1", records[0]["request_id"])
	assert.Equal(t, "tarefas", records[0]["app"])
	assert.Equal(t, "scheduler", records[1]["component"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestGetRequestID_NilSafe(t *testing.T) {
	//nolint:staticcheck
	assert.Equal(t, "", GetRequestID(nil))
	assert.Equal(t, "", GetRequestID(context.Background()))
}

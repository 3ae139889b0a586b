package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"marketplace-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapter_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.WithFields(port.Fields{"trace_id": "t-1"}).Error("Region provider failed", errors.New("timeout"), port.Fields{"region_level": "city"})

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Region provider failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "t-1", record["trace_id"])
	assert.Equal(t, "timeout", record["err"])
	assert.Equal(t, "city", record["region_level"])
}

func TestSlogAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})

	logger.Debug("hidden", nil)
	logger.Info("hidden", nil)
	logger.Warn("shown", port.Fields{"b": 2, "a": 1})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Less(t, strings.Index(out, "a=1"), strings.Index(out, "b=2"))
}

type recordedPost struct {
	tag  string
	data port.Fields
}

type fakePoster struct {
	posts []recordedPost
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.posts = append(f.posts, recordedPost{tag: tag, data: message.(port.Fields)})
	return nil
}

func TestFluentLoggerAdapter_PostsWithLevelTags(t *testing.T) {
	poster := &fakePoster{}
	logger := newFluentLoggerAdapter(poster, slog.LevelInfo)

	logger.Debug("dropped", nil)
	logger.WithFields(port.Fields{"component": "test"}).Warn("careful", port.Fields{"k": "v", "region_level": "city"})
	logger.Error("failed", errors.New("boom"), nil)

	require.Len(t, poster.posts, 2)
	assert.Equal(t, "warn", poster.posts[0].tag)
	assert.Equal(t, "test", poster.posts[0].data["component"])
	assert.Equal(t, "careful", poster.posts[0].data["message"])
	assert.Equal(t, "WARN", poster.posts[0].data["level"])
	assert.Equal(t, "city", poster.posts[0].data["region_level"])
	assert.Equal(t, "error", poster.posts[1].tag)
	assert.Equal(t, "boom", poster.posts[1].data["error"])
	assert.NotContains(t, poster.posts[1].data, "component")
}

func TestNewFluentLoggerAdapter_NilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, slog.LevelInfo)
	assert.Error(t, err)
}

type countingLogger struct {
	calls  *int
	fields port.Fields
}

func (c countingLogger) Info(string, port.Fields)         { *c.calls++ }
func (c countingLogger) Warn(string, port.Fields)         { *c.calls++ }
func (c countingLogger) Error(string, error, port.Fields) { *c.calls++ }
func (c countingLogger) Debug(string, port.Fields)        { *c.calls++ }
func (c countingLogger) WithFields(f port.Fields) port.LoggerPort {
	return countingLogger{calls: c.calls, fields: f}
}

func TestMultiLoggerAdapter(t *testing.T) {
	_, err := NewMultiloggerAdapter(nil, nil)
	assert.Error(t, err)

	calls := 0
	multi, err := NewMultiloggerAdapter(countingLogger{calls: &calls}, nil, countingLogger{calls: &calls})
	require.NoError(t, err)

	multi.WithFields(port.Fields{"x": 1}).Info("hello", nil)
	multi.Error("bad", errors.New("e"), nil)
	assert.Equal(t, 4, calls)
}

package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uitokens/pkg/generator"
	"github.com/gnana997/uitokens/pkg/token"
)

func TestNew(t *testing.T) {
	m := New(prometheus.NewRegistry())
	require.NotNil(t, m)
	assert.NotNil(t, m.RunsTotal)
	assert.NotNil(t, m.RunDurationSeconds)
	assert.NotNil(t, m.TokensGenerated)
	assert.NotNil(t, m.AliasFailuresTotal)
	assert.NotNil(t, m.FilesWrittenTotal)
	assert.NotNil(t, m.ToolCallsTotal)
	assert.NotNil(t, m.ToolDurationSeconds)
}

func TestObserveRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	out, err := generator.New(generator.DefaultSettings(), generator.WithObserver(m)).Run(generator.Palette)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
	palette, _ := out.Result.Library.Collection(generator.Palette)
	assert.Equal(t, float64(len(palette.Tokens)), testutil.ToFloat64(m.TokensGenerated.WithLabelValues(generator.Palette)))
}

func TestObserveRun_AliasFailures(t *testing.T) {
	m := New(prometheus.NewRegistry())

	reg := generator.NewRegistry()
	reg.Register("Broken", func(*generator.Run) (*token.Collection, error) {
		b := token.NewBuilder("Broken", "value")
		b.Alias("a", token.KindNumber, "value", token.AliasTo("Broken", "missing"))
		b.Alias("loop", token.KindNumber, "value", token.AliasTo("Broken", "loop"))
		return b.Build()
	})
	_, err := generator.New(generator.DefaultSettings(), generator.WithRegistry(reg), generator.WithObserver(m)).Run()
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("partial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AliasFailuresTotal.WithLabelValues("missing_target")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AliasFailuresTotal.WithLabelValues("cycle")))
}

func TestRecordToolCall(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordToolCall("get_tokens", nil, 0.002)
	m.RecordToolCall("get_tokens", errors.New("bad pattern"), 0.001)
	m.RecordToolCall("contrast_color", nil, 0.0001)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues("get_tokens", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues("get_tokens", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ToolDurationSeconds))
}

func TestRecordFilesWritten(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordFilesWritten("dir", 12)
	m.RecordFilesWritten("dir", 3)
	assert.Equal(t, 15.0, testutil.ToFloat64(m.FilesWrittenTotal.WithLabelValues("dir")))
}

func TestHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.RecordFilesWritten("zip", 1)

	rec := httptest.NewRecorder()
	Handler(registry).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `uitokens_files_written_total{format="zip"} 1`))
}

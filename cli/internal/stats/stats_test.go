package stats

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"cssmin/cli/internal/minify"
)

func TestEstimateTokens(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"one_char", "x", 1},
		{"four_chars", "a{b}", 1},
		{"five_chars", "a{b:c", 2},
		{"100_chars", strings.Repeat("x", 100), 25},
		{"unicode_multi_byte", "café", 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EstimateTokens(tt.in))
		})
	}
}

func minified(t *testing.T, path, in string) FileStats {
	t.Helper()
	out, st := minify.MinifyWith(in, minify.Options{})
	return New(path, in, out, st)
}

func TestNew(t *testing.T) {
	t.Parallel()
	f := minified(t, "a.css", "a { color: red; } /* x */")
	assert.Equal(t, FileStats{
		Path:             "a.css",
		InputBytes:       25,
		OutputBytes:      12,
		InputTokens:      7,
		OutputTokens:     3,
		Comments:         1,
		SemicolonsElided: 1,
	}, f)
	assert.Equal(t, 13, f.Saved())
	assert.InDelta(t, 12.0/25.0, f.Ratio(), 1e-9)
}

func TestFileStats_Ratio_emptyInput(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 1.0, FileStats{}.Ratio())
}

func TestNewReport_sumsFiles(t *testing.T) {
	t.Parallel()
	r := NewReport([]FileStats{
		{Path: "a.css", InputBytes: 10, OutputBytes: 6, Comments: 1},
		{Path: "b.css", InputBytes: 20, OutputBytes: 15, SemicolonsElided: 2},
	})
	assert.Equal(t, "total", r.Total.Path)
	assert.Equal(t, 30, r.Total.InputBytes)
	assert.Equal(t, 21, r.Total.OutputBytes)
	assert.Equal(t, 1, r.Total.Comments)
	assert.Equal(t, 2, r.Total.SemicolonsElided)
}

func TestWrite_json(t *testing.T) {
	t.Parallel()
	r := NewReport([]FileStats{minified(t, "a.css", "a { b: c; }")})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, WriteOptions{Format: "json"}))

	var got Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, r, got)
	assert.Contains(t, buf.String(), `"semicolons_elided": 1`)
}

func TestWrite_yaml(t *testing.T) {
	t.Parallel()
	r := NewReport([]FileStats{minified(t, "a.css", "a { b: c; }")})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, WriteOptions{Format: "YAML"}))

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, r, got)
	assert.Contains(t, buf.String(), "input_bytes: 11")
}

func TestWrite_text(t *testing.T) {
	t.Parallel()
	r := NewReport([]FileStats{
		{Path: "a.css", InputBytes: 200, OutputBytes: 100, InputTokens: 50, OutputTokens: 25},
		{Path: "b.css", InputBytes: 13, OutputBytes: 15},
	})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, WriteOptions{Format: "text"}))
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, two files, total")
	assert.Contains(t, lines[0], "bytes in")
	assert.Contains(t, lines[1], "50.0%")
	assert.Contains(t, lines[2], "-15.4%")
	assert.Contains(t, lines[3], "total")
	assert.NotContains(t, out, "\x1b[", "no escape codes without Color")
}

func TestWrite_textSingleFileHasNoTotal(t *testing.T) {
	t.Parallel()
	r := NewReport([]FileStats{{Path: "-", InputBytes: 4, OutputBytes: 2}})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, WriteOptions{}))
	assert.NotContains(t, buf.String(), "total")
}

func TestWrite_textColor(t *testing.T) {
	t.Parallel()
	r := NewReport([]FileStats{{Path: "a.css", InputBytes: 4, OutputBytes: 2}})
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, WriteOptions{Format: "text", Color: true}))
	assert.Contains(t, buf.String(), "\x1b[32m")
}

func TestWrite_unknownFormat(t *testing.T) {
	t.Parallel()
	err := Write(&bytes.Buffer{}, Report{}, WriteOptions{Format: "xml"})
	require.Error(t, err)
	assert.Equal(t, "Invalid stats format; use text, json, or yaml.", err.Error())
}

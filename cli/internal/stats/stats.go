// Package stats reports how much a minify run saved, per file and in total,
// as an aligned text table, JSON, or YAML.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"cssmin/cli/internal/erruser"
	"cssmin/cli/internal/minify"
)

// charsPerToken is the divisor for the byte-based token estimate
// (roughly 4 bytes per token for typical English/code).
const charsPerToken = 4

// EstimateTokens returns an estimated LLM token count for s: (len(s)+3)/4
// bytes, so 1-4 bytes map to 1 token, 5-8 to 2, etc. Empty string returns 0.
func EstimateTokens(s string) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}

// FileStats describes one minified stylesheet. Path is "-" for stdin.
type FileStats struct {
	Path             string `json:"path" yaml:"path"`
	InputBytes       int    `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes      int    `json:"output_bytes" yaml:"output_bytes"`
	InputTokens      int    `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens     int    `json:"output_tokens" yaml:"output_tokens"`
	Comments         int    `json:"comments" yaml:"comments"`
	SemicolonsElided int    `json:"semicolons_elided" yaml:"semicolons_elided"`
}

// New builds FileStats from a minify pass over in producing out.
func New(path, in, out string, st minify.Stats) FileStats {
	return FileStats{
		Path:             path,
		InputBytes:       st.InputBytes,
		OutputBytes:      st.OutputBytes,
		InputTokens:      EstimateTokens(in),
		OutputTokens:     EstimateTokens(out),
		Comments:         st.Comments,
		SemicolonsElided: st.SemicolonsElided,
	}
}

// Saved returns the number of bytes removed. It can be negative when spaces
// were inserted into input that had none (e.g. "calc(1px+2px)").
func (f FileStats) Saved() int { return f.InputBytes - f.OutputBytes }

// Ratio returns OutputBytes/InputBytes, or 1 for empty input.
func (f FileStats) Ratio() float64 {
	if f.InputBytes == 0 {
		return 1
	}
	return float64(f.OutputBytes) / float64(f.InputBytes)
}

// Report is the set of per-file stats plus their sum.
type Report struct {
	Files []FileStats `json:"files" yaml:"files"`
	Total FileStats   `json:"total" yaml:"total"`
}

// NewReport sums files into a Report. The Total path is "total".
func NewReport(files []FileStats) Report {
	r := Report{Files: files, Total: FileStats{Path: "total"}}
	for _, f := range files {
		r.Total.InputBytes += f.InputBytes
		r.Total.OutputBytes += f.OutputBytes
		r.Total.InputTokens += f.InputTokens
		r.Total.OutputTokens += f.OutputTokens
		r.Total.Comments += f.Comments
		r.Total.SemicolonsElided += f.SemicolonsElided
	}
	return r
}

// WriteOptions configures Write.
type WriteOptions struct {
	// Format is text, json, or yaml.
	Format string
	// Color highlights the savings column in text output.
	Color bool
}

// Write renders r to w in opts.Format.
func Write(w io.Writer, r Report, opts WriteOptions) error {
	switch strings.ToLower(opts.Format) {
	case "", "text":
		return writeText(w, r, opts.Color)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return erruser.New("Could not write stats.", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return erruser.New("Could not write stats.", err)
		}
		if err := enc.Close(); err != nil {
			return erruser.New("Could not write stats.", err)
		}
		return nil
	default:
		return erruser.New("Invalid stats format; use text, json, or yaml.", nil)
	}
}

func writeText(w io.Writer, r Report, colorize bool) error {
	saved := color.New(color.FgGreen)
	grew := color.New(color.FgRed)
	if colorize {
		saved.EnableColor()
		grew.EnableColor()
	} else {
		saved.DisableColor()
		grew.DisableColor()
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "file\tbytes in\tbytes out\tsaved\ttokens in\ttokens out\t")
	rows := r.Files
	if len(rows) != 1 {
		rows = append(append([]FileStats(nil), rows...), r.Total)
	}
	for _, f := range rows {
		c := saved
		if f.Saved() < 0 {
			c = grew
		}
		pct := c.Sprintf("%.1f%%", (1-f.Ratio())*100)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%d\t\n",
			f.Path, f.InputBytes, f.OutputBytes, pct, f.InputTokens, f.OutputTokens)
	}
	if err := tw.Flush(); err != nil {
		return erruser.New("Could not write stats.", err)
	}
	return nil
}

// Package batch finds stylesheets under the paths given on the command line
// and minifies them in parallel, writing each result next to its input.
package batch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"cssmin/cli/internal/erruser"
	"cssmin/cli/internal/minify"
	"cssmin/cli/internal/stats"
	"cssmin/cli/internal/trace"
)

// Options configures Run and Stream.
type Options struct {
	Rules minify.Rules
	// Suffix replaces the ".css" extension of each output (e.g. ".min.css").
	Suffix string
	// InPlace overwrites each input instead of writing a suffixed sibling.
	InPlace bool
	// Jobs caps concurrent files; <= 0 means GOMAXPROCS.
	Jobs int
	// KeepGoing minifies the remaining files after a failure and returns all
	// failures together.
	KeepGoing       bool
	TrailingNewline bool
	// Tracer, when enabled, receives every spacing decision. Tracing forces Jobs to 1.
	Tracer *trace.Tracer
}

// Discover expands roots into a sorted, de-duplicated list of files. A root
// naming a file is kept as-is; a directory is walked and each file whose path
// relative to the root matches an include pattern and no exclude pattern is kept.
func Discover(fsys afero.Fs, roots, include, exclude []string) ([]string, error) {
	for _, p := range append(append([]string(nil), include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, erruser.New("Invalid glob pattern "+p+".", nil)
		}
	}
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range roots {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, erruser.ForFile(root, "No such file or directory.", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if matchAny(include, rel) && !matchAny(exclude, rel) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, erruser.ForFile(root, "Could not list directory.", err)
		}
	}
	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns were validated in Discover.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// OutputPath returns where the minified form of path is written:
// path itself when inPlace, otherwise path with ".css" replaced by suffix.
func OutputPath(path, suffix string, inPlace bool) string {
	if inPlace {
		return path
	}
	if strings.EqualFold(filepath.Ext(path), ".css") {
		return path[:len(path)-len(".css")] + suffix
	}
	return path + suffix
}

// Run minifies files in parallel and returns their stats in input order.
// Without KeepGoing the first failure cancels the remaining files; with it,
// failed files are left out of the stats and all failures are returned combined.
func Run(ctx context.Context, fsys afero.Fs, files []string, opts Options) ([]stats.FileStats, error) {
	if len(files) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if opts.Tracer.Enabled() {
		jobs = 1
	}

	results := make([]stats.FileStats, len(files))
	ok := make([]bool, len(files))
	var (
		mu   sync.Mutex
		errs error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			st, err := minifyFile(gctx, fsys, path, opts)
			if err != nil {
				if !opts.KeepGoing {
					return err
				}
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				return nil
			}
			results[i], ok[i] = st, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]stats.FileStats, 0, len(files))
	for i := range results {
		if ok[i] {
			out = append(out, results[i])
		}
	}
	return out, errs
}

func minifyFile(ctx context.Context, fsys afero.Fs, path string, opts Options) (stats.FileStats, error) {
	log := zerolog.Ctx(ctx)
	info, err := fsys.Stat(path)
	if err != nil {
		return stats.FileStats{}, erruser.ForFile(path, "Could not read stylesheet.", err)
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return stats.FileStats{}, erruser.ForFile(path, "Could not read stylesheet.", err)
	}
	opts.Tracer.Section(path)
	in := string(data)
	out, st := minifyString(in, opts)

	dst := OutputPath(path, opts.Suffix, opts.InPlace)
	if err := afero.WriteFile(fsys, dst, []byte(out), info.Mode().Perm()); err != nil {
		return stats.FileStats{}, erruser.ForFile(dst, "Could not write minified output.", err)
	}
	log.Debug().Str("file", path).Str("output", dst).
		Int("bytes_in", st.InputBytes).Int("bytes_out", len(out)).
		Msg("minified")
	return stats.New(path, in, out, st), nil
}

func minifyString(in string, opts Options) (string, minify.Stats) {
	out, st := minify.MinifyWith(in, minify.Options{
		Rules:      &opts.Rules,
		OnDecision: opts.Tracer.DecisionFunc(),
	})
	if opts.TrailingNewline && out != "" {
		out += "\n"
		st.OutputBytes++
	}
	return out, st
}

// Stream minifies all of r into w; used for stdin. name labels the stats and trace.
func Stream(ctx context.Context, r io.Reader, w io.Writer, name string, opts Options) (stats.FileStats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return stats.FileStats{}, erruser.New("Could not read input.", err)
	}
	opts.Tracer.Section(name)
	in := string(data)
	out, st := minifyString(in, opts)
	if _, err := io.WriteString(w, out); err != nil {
		return stats.FileStats{}, erruser.New("Could not write output.", err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", name).Int("bytes_in", st.InputBytes).Int("bytes_out", len(out)).Msg("minified")
	return stats.New(name, in, out, st), nil
}

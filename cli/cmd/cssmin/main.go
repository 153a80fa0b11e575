package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"cssmin/cli/internal/batch"
	"cssmin/cli/internal/config"
	"cssmin/cli/internal/erruser"
	"cssmin/cli/internal/stats"
	"cssmin/cli/internal/trace"
	"cssmin/cli/internal/version"
)

// streams are the process's standard streams and filesystem. Tests replace them.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	fs     afero.Fs
	// env and globalConfig are passed to config.Load; a nil env uses the real environment.
	env          []string
	globalConfig string
}

func defaultStreams() streams {
	return streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr, fs: afero.NewOsFs()}
}

func main() {
	os.Exit(Run())
}

// Run is the entry point for the CLI. It is exported for testing.
func Run() int {
	return runCLI(os.Args[1:], defaultStreams())
}

func runCLI(args []string, s streams) int {
	rootCmd := newRootCmd(s)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.errOut)
	if err := rootCmd.Execute(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(s.errOut, e)
			if u := errors.Unwrap(e); u != nil {
				fmt.Fprintf(s.errOut, "Details: %v\n", u)
			}
		}
		return 1
	}
	return 0
}

func newRootCmd(s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cssmin [path...]",
		Short: "Minify CSS without changing what it means",
		Long: `cssmin removes comments and insignificant white space from CSS.

With no paths (or "-"), it reads stdin and writes to stdout or --output.
With paths, each stylesheet (directories are searched with --include and
--exclude) is minified next to its input as <name>` + "<suffix>" + `, or in place.

Configuration is read from ~/.config/cssmin/config.toml, then ./.cssmin.toml
(or --config), then CSSMIN_* environment variables; flags win.`,
		Version: version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMinify(cmd, args, s)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := cmd.Flags()
	f.StringP("output", "o", "", "Write stdin result to this file instead of stdout")
	f.Bool("in-place", false, "Overwrite each input file")
	f.String("suffix", "", "Output suffix replacing .css (default .min.css)")
	f.IntP("jobs", "j", 0, "Files to minify in parallel (default GOMAXPROCS)")
	f.StringSlice("include", nil, "Glob for files to pick from directories (default **/*.css)")
	f.StringSlice("exclude", nil, "Glob for files to skip in directories (default **/*.min.css)")
	f.StringSlice("pseudo-class", nil, "Extra functional pseudo-class that may chain without a space")
	f.StringSlice("calc-function", nil, "Extra function whose + and - keep their spaces")
	f.Bool("keep-going", false, "Continue with other files after a failure")
	f.Bool("stats", false, "Print size savings to stderr")
	f.String("stats-format", "", "Stats format: text (default), json, or yaml")
	f.Bool("trailing-newline", false, "End each output with a newline")
	f.Bool("trace", false, "Print every spacing decision to stderr")
	f.BoolP("verbose", "v", false, "Log each file")
	f.String("config", "", "Config file to use instead of ./.cssmin.toml")
	return cmd
}

// overridesFromFlags returns config overrides for the flags the user set.
func overridesFromFlags(cmd *cobra.Command) *config.Overrides {
	o := &config.Overrides{}
	f := cmd.Flags()
	o.ExtraPseudoClasses, _ = f.GetStringSlice("pseudo-class")
	o.ExtraCalcFunctions, _ = f.GetStringSlice("calc-function")
	o.Include, _ = f.GetStringSlice("include")
	o.Exclude, _ = f.GetStringSlice("exclude")
	if f.Changed("suffix") {
		v, _ := f.GetString("suffix")
		o.Suffix = &v
	}
	if f.Changed("jobs") {
		v, _ := f.GetInt("jobs")
		o.Jobs = &v
	}
	if f.Changed("stats-format") {
		v, _ := f.GetString("stats-format")
		o.StatsFormat = &v
	}
	if f.Changed("trailing-newline") {
		v, _ := f.GetBool("trailing-newline")
		o.TrailingNewline = &v
	}
	return o
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}).
		Level(level).With().Timestamp().Str("cmd", "cssmin").Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func runMinify(cmd *cobra.Command, args []string, s streams) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(s.errOut, verbose)
	ctx := logger.WithContext(cmd.Context())

	wd, err := os.Getwd()
	if err != nil {
		return erruser.New("Could not determine working directory.", err)
	}
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(ctx, config.LoadOptions{
		ProjectRoot:      wd,
		ConfigPath:       configPath,
		GlobalConfigPath: s.globalConfig,
		Env:              s.env,
		Overrides:        overridesFromFlags(cmd),
	})
	if err != nil {
		return err
	}

	tr := trace.New(nil)
	if on, _ := cmd.Flags().GetBool("trace"); on {
		tr = trace.New(s.errOut)
	}
	inPlace, _ := cmd.Flags().GetBool("in-place")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	opts := batch.Options{
		Rules:           cfg.Rules(),
		Suffix:          cfg.Suffix,
		InPlace:         inPlace,
		Jobs:            cfg.Jobs,
		KeepGoing:       keepGoing,
		TrailingNewline: cfg.TrailingNewline,
		Tracer:          tr,
	}

	var results []stats.FileStats
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		st, err := runStdin(ctx, cmd, s, opts)
		if err != nil {
			return err
		}
		results = append(results, st)
	} else {
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			return erruser.New("--output applies only to stdin; use --suffix or --in-place with paths.", nil)
		}
		files, err := batch.Discover(s.fs, args, cfg.Include, cfg.Exclude)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			zerolog.Ctx(ctx).Warn().Strs("paths", args).Msg("no stylesheets found")
		}
		var runErr error
		results, runErr = batch.Run(ctx, s.fs, files, opts)
		if runErr != nil && !keepGoing {
			return runErr
		}
		if err := writeStats(cmd, s, cfg, results); err != nil {
			return err
		}
		return runErr
	}
	return writeStats(cmd, s, cfg, results)
}

func runStdin(ctx context.Context, cmd *cobra.Command, s streams, opts batch.Options) (stats.FileStats, error) {
	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		return batch.Stream(ctx, s.in, s.out, "-", opts)
	}
	f, err := s.fs.Create(outPath)
	if err != nil {
		return stats.FileStats{}, erruser.ForFile(outPath, "Could not create output file.", err)
	}
	st, err := batch.Stream(ctx, s.in, f, "-", opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		return stats.FileStats{}, erruser.ForFile(outPath, "Could not write output file.", cerr)
	}
	return st, err
}

func writeStats(cmd *cobra.Command, s streams, cfg *config.Config, results []stats.FileStats) error {
	if on, _ := cmd.Flags().GetBool("stats"); !on {
		return nil
	}
	return stats.Write(s.errOut, stats.NewReport(results), stats.WriteOptions{
		Format: cfg.StatsFormat,
		Color:  isTerminal(s.errOut),
	})
}

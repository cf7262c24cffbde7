package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/mdhtml"
	"pkt.systems/version"
)

const (
	defaultSchemaName = "default"
	defaultWidth      = 80
	maxListWidth      = 100
	defaultChunkSize  = 3
	defaultDelay      = 20 * time.Millisecond
	listIndent        = 2
)

func init() {
	version.SetDefaultModule("pkt.systems/mdhtml")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		simulate    bool
		schemaName  string
		schemaFile  string
		listSchemas bool
		outPath     string
		bufferSize  int
		strict      bool
		frontMatter bool
		escapeHTML  bool
		encoding    string
		watch       bool
		configPath  string
		verbose     bool
		logFile     string
		showStats   bool
		showVersion bool
	)

	flags := pflag.NewFlagSet("mdhtml", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVar(&simulate, "simulate", false, "Stream simulator (use default delay and chunk size)")
	flags.Int("simulate-chunk", defaultChunkSize, "Max bytes per stream chunk")
	flags.Duration("simulate-delay", defaultDelay, "Delay per stream chunk")
	flags.StringVarP(&schemaName, "schema", "s", defaultSchemaName, "Output schema name")
	flags.StringVar(&schemaFile, "schema-file", "", "YAML schema file (overrides --schema)")
	flags.BoolVar(&listSchemas, "list-schemas", false, "List available schemas")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.IntVar(&bufferSize, "buffer-size", mdhtml.DefaultBufferSize, "Decoder read buffer size in bytes")
	flags.BoolVar(&strict, "strict", false, "Reject invalid UTF-8 and binary input")
	flags.BoolVar(&frontMatter, "front-matter", false, "Drop front matter at the start of the input")
	flags.BoolVar(&escapeHTML, "escape-html", false, "Escape HTML metacharacters in text")
	flags.StringVar(&encoding, "encoding", "", "Input encoding label (default utf-8)")
	flags.BoolVarP(&watch, "watch", "W", false, "Re-render when an input file changes (requires -o)")
	flags.StringVar(&configPath, "config", "", "Config file (default mdhtml.yml in the config directories)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	flags.StringVar(&logFile, "log-file", "", "Write logs to a file (without a value: the user cache directory)")
	flags.BoolVar(&showStats, "stats", false, "Print render statistics to stderr")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")
	flags.Lookup("log-file").NoOptDefVal = autoLogFile

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: mdhtml [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}

	dbg, err := loadDebugConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if logFile == "" {
		logFile = dbg.LogFile
	}
	logger, closeLog, err := setupLog(stderr, logFile, dbg.LogLevel, verbose)
	if err != nil {
		fmt.Fprintf(stderr, "setup log: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	v, err := loadConfig(flags, configPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("Using configuration file", "path", used)
	}

	if listSchemas {
		printSchemas(stdout, resolveWidth(stdout))
		return 0
	}

	schema, err := resolveSchema(v.GetString("schema"), v.GetString("schema-file"))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		printSchemas(stderr, resolveWidth(stderr))
		return 2
	}
	enc, err := mdhtml.LookupEncoding(v.GetString("encoding"))
	if err != nil {
		fmt.Fprintf(stderr, "invalid --encoding: %v\n", err)
		return 2
	}

	opts := []mdhtml.RenderOption{
		mdhtml.WithBufferSize(v.GetInt("buffer-size")),
		mdhtml.WithStrictUTF8(v.GetBool("strict")),
		mdhtml.WithSkipFrontMatter(v.GetBool("front-matter")),
		mdhtml.WithEscapeHTML(v.GetBool("escape-html")),
		mdhtml.WithInputEncoding(enc),
		mdhtml.WithLogger(logger),
	}
	if simulate {
		opts = append(opts, mdhtml.WithLineFlush(true))
	}
	chunk, delay := v.GetInt("simulate-chunk"), v.GetDuration("simulate-delay")

	inputs := flags.Args()
	strictInput := v.GetBool("strict")
	renderTo := func(w io.Writer) error {
		if strictInput {
			if err := validateLocalInputs(inputs); err != nil {
				return err
			}
		}
		reader, closer, err := openInputs(inputs)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		if closer != nil {
			defer func() { _ = closer.Close() }()
		}
		if simulate {
			reader = mdhtml.NewChunkReader(reader, chunk, delay)
		}
		var stats mdhtml.Stats
		err = mdhtml.Render(mdhtml.RenderRequest{
			Reader:  reader,
			Writer:  w,
			Schema:  schema,
			Stats:   &stats,
			Options: opts,
		})
		if showStats {
			printStats(stderr, stats)
		}
		return err
	}

	if watch {
		return runWatch(inputs, outPath, logger, renderTo, stderr)
	}

	if len(inputs) == 0 && isTerminal(os.Stdin) {
		logger.Warn("Reading Markdown from the terminal, end input with Ctrl-D")
	}
	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}
	if err := renderTo(writer); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		var perr *mdhtml.ParseError
		if errors.As(err, &perr) && perr.Kind == mdhtml.ErrorConstruct {
			return 3
		}
		return 1
	}
	return 0
}

func runWatch(inputs []string, outPath string, logger *log.Logger, renderTo func(io.Writer) error, stderr io.Writer) int {
	if outPath = strings.TrimSpace(outPath); outPath == "" {
		fmt.Fprintln(stderr, "--watch requires -o/--output")
		return 2
	}
	sources, err := parseInputs(inputs)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	var paths []string
	for _, src := range sources {
		if src.path == "" {
			fmt.Fprintln(stderr, "--watch only works with local files")
			return 2
		}
		paths = append(paths, src.path)
	}
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "--watch needs at least one input file")
		return 2
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = watchFiles(ctx, paths, logger, func() error {
		w, closeOut, err := resolveOutput(outPath)
		if err != nil {
			return err
		}
		if closeOut != nil {
			defer func() { _ = closeOut.Close() }()
		}
		if err := renderTo(w); err != nil {
			return err
		}
		logger.Info("Rendered", "output", outPath)
		return nil
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func resolveSchema(name, file string) (mdhtml.Schema, error) {
	if file = strings.TrimSpace(file); file != "" {
		f, err := os.Open(normalizePath(file))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return mdhtml.LoadSchema(f)
	}
	schema, ok := mdhtml.SchemaByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return schema, nil
}

func printSchemas(w io.Writer, width int) {
	for _, name := range mdhtml.AvailableSchemas() {
		fmt.Fprintln(w, name)
		if desc := mdhtml.SchemaDescription(name); desc != "" {
			fmt.Fprintln(w, formatBlock(desc, width))
		}
	}
}

func formatBlock(s string, width int) string {
	return indent.String(wordwrap.String(s, width-listIndent), listIndent)
}

func printStats(w io.Writer, s mdhtml.Stats) {
	constructs := s.Used.String()
	if constructs == "" {
		constructs = "none"
	}
	fmt.Fprintf(w, "read %s, wrote %s, %s units, %s tokens, %s lines in %s (constructs: %s)\n",
		humanize.Bytes(uint64(s.BytesRead)),
		humanize.Bytes(uint64(s.BytesWritten)),
		humanize.Comma(s.Units),
		humanize.Comma(s.Tokens),
		humanize.Comma(int64(s.Lines)),
		s.Elapsed.Round(time.Microsecond),
		constructs,
	)
}

func resolveWidth(w io.Writer) int {
	width := defaultWidth
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			width = tw
		}
	}
	if width > maxListWidth {
		width = maxListWidth
	}
	return width
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Command genaidash turns CSV/TSV/XLSX sales data into a BI dashboard.
//
// Usage:
//
//	genaidash generate [-config file] [-region r] [-bucket b] -sources a.csv,b.csv
//	genaidash process  [-config file] -sources 'data/*.csv' -out clean.xlsx [-bom]
//	genaidash serve    [-config file] [-addr :8080]
//	genaidash env
//	genaidash version
//
// Sources may also be given as trailing arguments. Settings come from the
// GENAI_* environment, optionally layered over a YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"genaidash/internal/app"
	"genaidash/internal/config"
	"genaidash/internal/infrastructure"
	"genaidash/internal/services"
	"genaidash/pkg/contracts"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defer infrastructure.CloseLogFile()

	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "generate":
		return runGenerate(ctx, rest, stdout, stderr)
	case "process":
		return runProcess(ctx, rest, stdout, stderr)
	case "serve":
		return runServe(ctx, rest, stderr)
	case "env":
		if err := config.PrintUsage(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return exitError
		}
		return exitOK
	case "version", "-v", "--version":
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `%s

Usage:
  genaidash generate [-config file] [-region r] [-bucket b] -sources a.csv,b.csv
  genaidash process  [-config file] -sources a.csv -out clean.csv [-bom]
  genaidash serve    [-config file] [-addr :8080]
  genaidash env      print the recognised environment variables
  genaidash version
`, contracts.GetVersionString())
}

// common holds the flags every data command accepts
type common struct {
	configFile string
	sources    string
}

func (c *common) register(fs *flag.FlagSet, withSources bool) {
	fs.StringVar(&c.configFile, "config", "", "optional YAML settings file (environment still wins)")
	if withSources {
		fs.StringVar(&c.sources, "sources", "", "comma separated data source paths or glob patterns")
	}
}

// sourceList merges -sources with positional arguments
func (c *common) sourceList(fs *flag.FlagSet) []string {
	var out []string
	for _, s := range strings.Split(c.sources, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return append(out, fs.Args()...)
}

// setup resolves settings and builds the process logger
func (c *common) setup(stderr io.Writer) (config.Settings, *slog.Logger, error) {
	var (
		settings config.Settings
		err      error
	)
	// Resolve quietly first: the logger depends on the settings.
	if c.configFile != "" {
		settings, err = config.ResolveFile(c.configFile, nil)
		if err != nil {
			return config.Settings{}, nil, err
		}
	} else {
		settings = config.Resolve(nil)
	}

	opts := infrastructure.OptionsFromSettings(settings)
	opts.Output = stderr
	logger, err := infrastructure.NewLogger(opts)
	if err != nil {
		return config.Settings{}, nil, err
	}
	slog.SetDefault(logger)

	cfgLogger := infrastructure.WithComponent(logger, "config")
	for _, w := range settings.Warnings() {
		cfgLogger.Warn(w)
	}
	return settings, logger, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		c      common
		region string
		bucket string
	)
	fs := newFlagSet("generate", stderr)
	c.register(fs, true)
	fs.StringVar(&region, "region", "", "AWS region (defaults to GENAI_AWS_REGION)")
	fs.StringVar(&bucket, "bucket", "", "output bucket for dashboard assets")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	settings, logger, err := c.setup(stderr)
	if err != nil {
		return fail(stderr, err)
	}

	a, err := app.New(settings, logger, app.WithTraceWriter(stderr))
	if err != nil {
		return fail(stderr, err)
	}
	defer a.Close(context.WithoutCancel(ctx))

	run, err := a.Dashboards.Generate(ctx, services.GenerateRequest{
		Region:       region,
		Sources:      c.sourceList(fs),
		OutputBucket: bucket,
	})
	if err != nil {
		if run.ID == "" {
			// rejected before the run started, so nothing was logged
			return fail(stderr, err)
		}
		// already logged by the dashboard
		return exitError
	}

	fmt.Fprintln(stdout, run.URL)
	return exitOK
}

func runProcess(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		c   common
		out string
		bom bool
	)
	fs := newFlagSet("process", stderr)
	c.register(fs, true)
	fs.StringVar(&out, "out", "", "output file (.csv or .xlsx); a summary is printed when empty")
	fs.BoolVar(&bom, "bom", false, "prefix CSV output with a UTF-8 byte order mark")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	settings, logger, err := c.setup(stderr)
	if err != nil {
		return fail(stderr, err)
	}

	a, err := app.New(settings, logger, app.WithTraceWriter(stderr))
	if err != nil {
		return fail(stderr, err)
	}
	defer a.Close(context.WithoutCancel(ctx))

	if out != "" {
		table, err := a.Dashboards.Export(ctx, c.sourceList(fs), out, bom)
		if err != nil {
			return fail(stderr, err)
		}
		fmt.Fprintf(stdout, "wrote %d rows, %d columns to %s\n", table.Len(), len(table.Columns), out)
		return exitOK
	}

	table, err := a.Dashboards.Process(ctx, c.sourceList(fs))
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintf(stdout, "%d rows, %d columns: %s\n", table.Len(), len(table.Columns), strings.Join(table.Columns, ", "))
	return exitOK
}

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	var (
		c    common
		addr string
	)
	fs := newFlagSet("serve", stderr)
	c.register(fs, false)
	fs.StringVar(&addr, "addr", "", "listen address (defaults to GENAI_SERVER_ADDR or :8080)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	settings, logger, err := c.setup(stderr)
	if err != nil {
		return fail(stderr, err)
	}
	if addr != "" {
		settings.Server.Addr = addr
	}

	a, err := app.New(settings, logger, app.WithTraceWriter(stderr))
	if err != nil {
		return fail(stderr, err)
	}
	defer a.Close(context.WithoutCancel(ctx))

	if err := a.Serve(ctx); err != nil {
		return fail(stderr, err)
	}
	return exitOK
}

func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "error: %s\n", err)
	return exitError
}

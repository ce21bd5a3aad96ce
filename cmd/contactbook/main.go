// Command contactbook manages a personal address book from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/contactbook/internal/config"
	"github.com/and161185/contactbook/internal/errs"
	"github.com/and161185/contactbook/internal/logging"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintf(w, `contactbook
Usage:
  contactbook [-config file] [-backend file|sqlite|postgres|memory] [-data dir] [-dsn url] [-v] <cmd> [args]

Commands:
  version
  register  -e <email> -p <password> -c <confirm>
  login     -e <email> -p <password>
  logout
  whoami
  list      [-q text] [-category c] [-json]
  get       -id <id>
  add       -first <name> -last <name> -email <addr> [field flags]
  edit      -id <id> [field flags]                (only given fields change)
  rm        -id <id>
  search    -q <text> [-json]
  stats
  recent    [-days N] [-json]
  export    -format csv|json|pdf [-o file|-]
  demo                                             (seed sample contacts)

Field flags: -first -last -email -phone -company -title -address -notes -category -tags a,b
`)
}

// main runs the CLI and maps errors to exit codes.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fail(os.Stderr, err)
		os.Exit(1)
	}
}

// fail prints err; validation errors print one message per line.
func fail(w io.Writer, err error) {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		for _, m := range ve.Messages {
			fmt.Fprintln(w, "error:", m)
		}
		return
	}
	fmt.Fprintln(w, "error:", err)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("contactbook", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	cfgPath := fs.String("config", "", "config file (default <config dir>/config.yaml)")
	backend := fs.String("backend", "", "storage backend: file|sqlite|postgres|memory")
	dataDir := fs.String("data", "", "data directory (file backend)")
	dsn := fs.String("dsn", "", "PostgreSQL DSN (postgres backend)")
	verbose := fs.Bool("v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		usage(stderr)
		return errUsage
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	if cmd == "version" {
		fmt.Fprintf(stdout, "contactbook %s (%s)\n", version, buildDate)
		return nil
	}

	dir := config.Dir()
	cfg, err := config.Load(dir, *cfgPath)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel, Verbose: *verbose, Console: stderr})
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	log.Debug("starting", zap.String("cmd", cmd), zap.String("backend", cfg.Backend))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a, err := openApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	c := &cli{app: a, out: stdout, errOut: stderr, now: time.Now, pdfFont: cfg.PDFFont}
	return c.dispatch(ctx, cmd, rest)
}

// Command tickarc converts MBP-1 quote exports into compact tick archives and back.
//
// Usage:
//
//	tickarc encode [flags] <input.csv|glob>...
//	tickarc decode [flags] <archive> <output-dir>
//	tickarc inspect [flags] <archive>
//
// Exit status: 0 on success, 1 on usage errors, 2 when an input or archive fails
// validation, 3 on I/O failures.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/internal/config"
	"github.com/arloliu/tickarc/internal/logger"
)

const (
	exitOK     = 0
	exitUsage  = 1
	exitFormat = 2
	exitIO     = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// env is the state shared by every command.
type env struct {
	cfg    *config.Config
	log    *logger.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	e := &env{
		cfg:    cfg,
		log:    logger.NewWithWriter(stderr, logger.ParseLevel(cfg.Log.Level)),
		stdout: stdout,
		stderr: stderr,
	}
	defer func() { _ = e.log.Sync() }()

	switch args[0] {
	case "encode":
		return e.encode(ctx, args[1:])
	case "decode":
		return e.decode(args[1:])
	case "inspect":
		return e.inspect(args[1:])
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: tickarc <command> [flags] [args]

Commands:
  encode   encode MBP-1 CSV files into one archive per symbol and day
  decode   decode an archive into a CSV file
  inspect  print the header, statistics and first rows of an archive

Run 'tickarc <command> -h' for command flags.
Settings are also read from TICKARC_* environment variables and an optional .env file.
`)
}

// exitCode maps an error onto the process exit status.
func exitCode(err error) int {
	return categoryExit(errs.Classify(err))
}

func categoryExit(c errs.Category) int {
	switch c {
	case errs.CategoryNone:
		return exitOK
	case errs.CategoryFormat:
		return exitFormat
	default:
		return exitIO
	}
}

// fail logs err with its stack, prints it for the user and returns the exit status.
func (e *env) fail(err error, fields ...logger.Field) int {
	e.log.Error(err, fields...)
	fmt.Fprintf(e.stderr, "Error: %v\n", err)

	return exitCode(err)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"aprsfi-client/aprsfi"
	"aprsfi-client/cli"
	"aprsfi-client/logging"
	processor "aprsfi-client/yaml"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
)

const component = "aprsfi-api-client"

// streams are the process's standard output and error.
type streams struct {
	out   io.Writer
	err   io.Writer
	color bool
}

func main() {
	std := streams{
		out:   os.Stdout,
		err:   colorable.NewColorableStderr(),
		color: logging.IsTerminal(os.Stderr),
	}

	if err := run(context.Background(), os.Args[1:], std); err != nil {
		os.Exit(reportError(std.err, err))
	}
}

// reportError writes err to w and returns the process exit code for it.
func reportError(w io.Writer, err error) int {
	red := color.New(color.FgRed).SprintFunc()
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(w, red(exitErr.Message))
		return exitErr.Code
	}
	fmt.Fprintf(w, "Error: %v\n", red(err))
	return 1
}

// run parses args, then posts the file source followed by the URL source.
// Source and upload failures are logged, not returned.
func run(ctx context.Context, args []string, std streams) error {
	cfg, shouldExit, err := cli.Parse(args, std.out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logOpts := logging.Options{
		Component: component,
		Level:     cfg.LogLevel,
		Output:    cfg.LogOutput,
		Console:   std.err,
		Color:     std.color,
	}
	logger, closeLog, err := logging.New(logOpts)
	syslogErr := err
	if errors.Is(err, logging.ErrSyslogUnavailable) {
		logOpts.Output = logging.OutputConsole
		logger, closeLog, err = logging.New(logOpts)
	}
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	logger = logger.With("run_id", uuid.NewString())
	if syslogErr != nil {
		logger.Warn("logging to console", "requested", cfg.LogOutput, "error", syslogErr)
	}

	client := aprsfi.NewClient(cfg.Upload, logger)
	proc := processor.New(client, logger)

	if cfg.InputFile != "" {
		_ = proc.ProcessFile(ctx, cfg.InputFile)
	}
	if cfg.InputURL != "" {
		_ = proc.ProcessURL(ctx, cfg.InputURL)
	}

	return nil
}

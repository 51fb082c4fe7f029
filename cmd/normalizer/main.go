// Package main provides the normalizer command-line tool for converting raw show
// records into canonical documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"showfmt/internal/batch"
	"showfmt/internal/cli"
	"showfmt/internal/report"
)

type options struct {
	in          string
	out         string
	configPath  string
	reportPath  string
	workers     int
	strictDates bool
	verbose     bool
	clock       func() time.Time
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		}

		stop()
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "normalizer --in <path> --out <path>",
		Short:         "Normalize raw show JSON into canonical documents",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.in == "" || opts.out == "" {
				return errors.New("both --in and --out are required")
			}

			return run(cmd.Context(), opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.in, "in", "", "Input file or directory of raw show JSON")
	flags.StringVar(&opts.in, "input", "", "Alias for --in")
	flags.StringVar(&opts.out, "out", "", "Output file or directory")
	flags.StringVar(&opts.out, "output", "", "Alias for --out")
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML configuration file")
	flags.StringVar(&opts.reportPath, "report", "", "Write a markdown batch report to this file")
	flags.IntVar(&opts.workers, "workers", 0, "Number of files processed in parallel")
	flags.BoolVar(&opts.strictDates, "strict-dates", false, "Reject dates that are not YYYY-MM-DD")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every processed file")

	return cmd
}

func run(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	rt, err := cli.Setup(opts.configPath, stderr)
	if err != nil {
		return err
	}

	if opts.verbose {
		rt.Config.Logging.Level = "debug"
		rt.Logger.SetLevel(rt.Config.Logging.Level)
	}

	if opts.workers != 0 {
		rt.Config.Batch.Workers = opts.workers
	}

	if opts.strictDates {
		rt.Config.Normalizer.StrictDates = true
	}

	if err := rt.Validate(); err != nil {
		return err
	}

	info, err := os.Stat(opts.in)
	if err != nil {
		fmt.Fprintf(stderr, "[ERROR] Input path does not exist: %s\n", opts.in)
		return cli.ErrReported
	}

	fs := afero.NewOsFs()
	driver := batch.NewDriver(fs, rt.Processor(opts.clock), rt.Logger, batch.Options{
		Workers:       rt.Config.Batch.Workers,
		Extension:     rt.Config.Batch.Extension,
		SkipHidden:    rt.Config.Batch.SkipHidden,
		SkipUnchanged: rt.Config.Output.SkipUnchanged,
	})

	if !info.IsDir() {
		res, err := driver.NormalizeOne(opts.in, opts.out)
		if err != nil {
			fmt.Fprintf(stdout, "[ERROR] %s: %v\n", filepath.Base(opts.in), err)
			return cli.ErrReported
		}

		fmt.Fprintf(stdout, "[OK] %s -> %s\n", filepath.Base(res.Input), filepath.Base(res.Output))

		return nil
	}

	summary, err := driver.NormalizeTree(ctx, opts.in, opts.out)
	if err != nil {
		return err
	}

	for _, res := range summary.Results {
		if res.Err != nil {
			fmt.Fprintf(stdout, "[ERROR] %s: %v\n", res.Rel, res.Err)
			continue
		}

		fmt.Fprintf(stdout, "[OK] %s -> %s\n", res.Rel, res.Rel)
	}

	if opts.reportPath != "" {
		if err := fs.MkdirAll(filepath.Dir(opts.reportPath), 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}

		if err := batch.WriteFileAtomic(fs, opts.reportPath, []byte(report.Markdown(summary))); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		rt.Logger.Info("Wrote report", "path", opts.reportPath)
	}

	return nil
}

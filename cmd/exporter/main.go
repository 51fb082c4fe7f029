// Package main provides the exporter command-line tool that flattens canonical show
// documents into a JSON Lines file.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"showfmt/internal/cli"
	"showfmt/internal/export"
)

type options struct {
	in         string
	out        string
	configPath string
}

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrReported) {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		}

		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := options{in: "normalized_shows", out: "shows.jsonl"}

	cmd := &cobra.Command{
		Use:           "exporter",
		Short:         "Flatten canonical show documents into JSON Lines",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(afero.NewOsFs(), opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.in, "in", opts.in, "Directory of canonical show documents")
	flags.StringVar(&opts.in, "input", opts.in, "Alias for --in")
	flags.StringVar(&opts.out, "out", opts.out, "Output JSONL file")
	flags.StringVar(&opts.out, "output", opts.out, "Alias for --out")
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML configuration file")

	return cmd
}

func run(fs afero.Fs, opts options, stdout, stderr io.Writer) error {
	rt, err := cli.Setup(opts.configPath, stderr)
	if err != nil {
		return err
	}

	count, err := export.WriteJSONL(fs, opts.in, opts.out, rt.Logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "[OK] Converted %d shows to JSONL\n", count)
	fmt.Fprintf(stdout, "[OK] Output: %s\n", opts.out)

	return nil
}

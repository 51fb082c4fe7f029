// Package main provides the validator command-line tool for checking canonical show
// documents on disk.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"showfmt/internal/cli"
	"showfmt/internal/normalizer"
	"showfmt/pkg/fingerprint"
)

type options struct {
	configPath  string
	fingerprint bool
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
	var opts options

	cmd := &cobra.Command{
		Use:           "validator <path>...",
		Short:         "Validate canonical show documents",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(afero.NewOsFs(), opts, args, stdout, stderr)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to YAML configuration file")
	cmd.Flags().BoolVar(&opts.fingerprint, "fingerprint", false, "Print the content fingerprint of each valid document")

	return cmd
}

func run(fs afero.Fs, opts options, paths []string, stdout, stderr io.Writer) error {
	rt, err := cli.Setup(opts.configPath, stderr)
	if err != nil {
		return err
	}

	v := normalizer.NewValidator()
	ext := rt.Config.Batch.Extension
	checked, invalid := 0, 0

	for _, root := range paths {
		if _, err := fs.Stat(root); err != nil {
			fmt.Fprintf(stderr, "[ERROR] Input path does not exist: %s\n", root)
			return cli.ErrReported
		}

		err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				fmt.Fprintf(stdout, "[ERROR] %s: %v\n", path, err)
				invalid++

				return nil
			}

			if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ext) {
				return nil
			}

			checked++

			if err := check(fs, v, path, opts.fingerprint, stdout); err != nil {
				fmt.Fprintf(stdout, "[ERROR] %s: %v\n", path, err)
				invalid++
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	rt.Logger.Info("Validation complete", "checked", checked, "invalid", invalid)

	if invalid > 0 {
		return cli.ErrReported
	}

	return nil
}

func check(fs afero.Fs, v *normalizer.Validator, path string, withFingerprint bool, stdout io.Writer) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}

	if err := v.ValidateJSON(data); err != nil {
		return err
	}

	if !withFingerprint {
		fmt.Fprintf(stdout, "[OK] %s\n", path)
		return nil
	}

	fp, err := fingerprint.Compute(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "[OK] %s %s\n", path, fp)

	return nil
}

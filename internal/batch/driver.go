// Package batch applies the normalization pipeline to files and directory trees.
package batch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"showfmt/internal/logger"
	"showfmt/internal/normalizer"
	"showfmt/pkg/canonjson"
	"showfmt/pkg/fingerprint"
)

const dirPerm = 0755

// Options configures a Driver. Zero values select the defaults.
type Options struct {
	Workers       int
	Extension     string
	SkipHidden    bool
	SkipUnchanged bool
}

// Driver runs the pipeline over files on fs.
type Driver struct {
	fs            afero.Fs
	processor     *normalizer.Processor
	logger        *logger.Logger
	workers       int
	extension     string
	skipHidden    bool
	skipUnchanged bool
}

// NewDriver creates a driver. A nil logger discards log records.
func NewDriver(fsys afero.Fs, p *normalizer.Processor, log *logger.Logger, opts Options) *Driver {
	if log == nil {
		log = logger.Discard()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	ext := opts.Extension
	if ext == "" {
		ext = ".json"
	}

	return &Driver{
		fs:            fsys,
		processor:     p,
		logger:        log,
		workers:       workers,
		extension:     strings.ToLower(ext),
		skipHidden:    opts.SkipHidden,
		skipUnchanged: opts.SkipUnchanged,
	}
}

// NormalizeOne normalizes the file at in and writes the canonical document to out,
// creating parent directories as needed. On failure nothing is written and the
// returned Result carries the same error.
func (d *Driver) NormalizeOne(in, out string) (Result, error) {
	res := Result{Input: in, Output: out, Rel: filepath.Base(in)}

	if err := d.normalize(&res); err != nil {
		res.Status = StatusFailed
		res.Err = err

		return res, err
	}

	return res, nil
}

func (d *Driver) normalize(res *Result) error {
	info, err := d.fs.Stat(res.Input)
	if err != nil {
		return &FileSystemError{Op: "stat", Path: res.Input, Err: err}
	}

	if !info.Mode().IsRegular() {
		return &FileSystemError{Op: "read", Path: res.Input, Err: ErrNotARegularFile}
	}

	data, err := afero.ReadFile(d.fs, res.Input)
	if err != nil {
		return &FileSystemError{Op: "read", Path: res.Input, Err: err}
	}

	rec, err := normalizer.ParseRecord(data)
	if err != nil {
		return &DecodeError{Path: res.Input, Err: err}
	}

	doc, err := d.processor.Normalize(rec, filepath.Base(res.Input))
	if err != nil {
		return err
	}

	res.ShowID = doc.Show.ID

	encoded, err := canonjson.Marshal(doc)
	if err != nil {
		return err
	}

	res.Fingerprint, err = fingerprint.Compute(encoded)
	if err != nil {
		return err
	}

	if d.skipUnchanged && d.outputCurrent(res.Output, res.Fingerprint) {
		res.Status = StatusUnchanged
		return nil
	}

	if err := d.fs.MkdirAll(filepath.Dir(res.Output), dirPerm); err != nil {
		return &FileSystemError{Op: "create directory", Path: filepath.Dir(res.Output), Err: err}
	}

	if err := WriteFileAtomic(d.fs, res.Output, encoded); err != nil {
		return &FileSystemError{Op: "write", Path: res.Output, Err: err}
	}

	res.Status = StatusOK

	return nil
}

// outputCurrent reports whether out already holds a document with fingerprint fp.
func (d *Driver) outputCurrent(out, fp string) bool {
	existing, err := afero.ReadFile(d.fs, out)
	if err != nil {
		return false
	}

	return fingerprint.Verify(existing, fp) == nil
}

// NormalizeTree normalizes every matching file under inDir into outDir, mirroring
// relative paths. Per-file failures are recorded in the summary and never stop the
// batch; an error is returned only when the batch cannot run at all or ctx ends.
func (d *Driver) NormalizeTree(ctx context.Context, inDir, outDir string) (*Summary, error) {
	info, err := d.fs.Stat(inDir)
	if err != nil {
		return nil, &FileSystemError{Op: "stat", Path: inDir, Err: err}
	}

	if !info.IsDir() {
		return nil, &FileSystemError{Op: "read directory", Path: inDir, Err: ErrNotADirectory}
	}

	rels, walkFailures := d.discover(inDir, outDir)

	d.logger.Info("Discovered input files", "dir", inDir, "files", len(rels), "workers", d.workers)

	if err := d.fs.MkdirAll(outDir, dirPerm); err != nil {
		return nil, &FileSystemError{Op: "create directory", Path: outDir, Err: err}
	}

	results := make([]Result, len(rels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for i, rel := range rels {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			in := filepath.Join(inDir, rel)
			out := filepath.Join(outDir, rel)

			res, err := d.NormalizeOne(in, out)
			res.Rel = rel

			if err != nil {
				d.logger.Warn("Failed to normalize file", "file", rel, "kind", string(Classify(err)), "error", err)
			} else {
				d.logger.Debug("Normalized file", "file", rel, "show_id", res.ShowID, "status", string(res.Status))
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{
		InputDir:  inDir,
		OutputDir: outDir,
		Results:   append(results, walkFailures...),
	}

	slices.SortFunc(summary.Results, func(a, b Result) int {
		return strings.Compare(a.Rel, b.Rel)
	})

	d.logger.Info("Batch complete",
		"succeeded", summary.Succeeded(),
		"failed", summary.Failed(),
		"unchanged", summary.Unchanged(),
	)

	return summary, nil
}

// discover lists input files relative to inDir before anything is written. Entries
// that cannot be read become failed results. Files under outDir are skipped when it
// is nested inside inDir.
func (d *Driver) discover(inDir, outDir string) ([]string, []Result) {
	var (
		rels     []string
		failures []Result
	)

	outAbs := cleanAbs(outDir)

	err := afero.Walk(d.fs, inDir, func(path string, info os.FileInfo, err error) error {
		rel, relErr := filepath.Rel(inDir, path)
		if relErr != nil {
			rel = path
		}

		if err != nil {
			failures = append(failures, Result{
				Input:  path,
				Rel:    rel,
				Status: StatusFailed,
				Err:    &FileSystemError{Op: "read", Path: path, Err: err},
			})

			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() {
			if path != inDir && (cleanAbs(path) == outAbs || d.hidden(info.Name())) {
				return filepath.SkipDir
			}

			return nil
		}

		if !info.Mode().IsRegular() || d.hidden(info.Name()) {
			return nil
		}

		if strings.ToLower(filepath.Ext(path)) != d.extension {
			return nil
		}

		rels = append(rels, rel)

		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipDir) {
		failures = append(failures, Result{
			Input:  inDir,
			Rel:    ".",
			Status: StatusFailed,
			Err:    &FileSystemError{Op: "walk", Path: inDir, Err: err},
		})
	}

	return rels, failures
}

func (d *Driver) hidden(name string) bool {
	return d.skipHidden && strings.HasPrefix(name, ".")
}

func cleanAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	return abs
}

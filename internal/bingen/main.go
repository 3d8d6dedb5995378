package bingeninternal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/internal/codefmt"
)

var Version string

// Options controls [Main].
type Options struct {
	// Dir is the working directory. Output paths are relative to it.
	Dir string

	// Env is the environment variables for the build system.
	Env []string

	// Tags are extra build tags. The "bingen" tag is always set so that
	// previously generated files are not loaded.
	Tags []string

	// Tests includes test files.
	Tests bool

	// Output is the name of the output file to generate in each package.
	Output string

	// Endian is the byte order of codec items without //bingen:endian.
	Endian parse.Endian

	// Logger receives progress logs. If nil, [slog.Default] is used.
	Logger *slog.Logger
}

func (opts Options) logger() *slog.Logger {
	if opts.Logger == nil {
		return slog.Default()
	}
	return opts.Logger
}

// Main is the main entry point for bingen. It is used by the command-line tool
// directly.
//
// ctx is the context for loading packages. If the loading is too slow, ctx can
// cancel the operation. patterns are the package patterns to process.
//
// It returns a map of output file paths to their contents. Packages without
// any codec produce no output. If any error occurs, it returns a non-nil error
// sorted by message.
func Main(ctx context.Context, opts Options, patterns []string) (map[string][]byte, error) {
	log := opts.logger()

	pkgs, err := load(ctx, opts, patterns)
	if err != nil {
		return nil, err
	}
	log.Debug("packages loaded", "count", len(pkgs))

	outs := make(map[string][]byte)
	var errs error

	for _, pkg := range pkgs {
		log := log.With("pkg", pkg.PkgPath)

		bg, err := New(pkg, opts.Endian)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if err := bg.Build(); err != nil {
			log.Debug("build failed", "errors", countErrors(err))
			errs = errors.Join(errs, err)
			continue
		}

		code := bg.Generate()
		if len(code) == 0 {
			log.Debug("no codec")
			continue
		}

		outDir := filepath.Dir(pkg.GoFiles[0])
		if rel, err := filepath.Rel(opts.Dir, outDir); err == nil {
			outDir = rel
		}
		out := filepath.Join(outDir, opts.Output)
		outs[out] = code
		log.Info("generated", "out", out, "codecs", len(bg.codecs))
	}
	if errs != nil {
		// errs already contains comprehensive error messages. So we don't need
		// to attach another error message.
		return nil, codefmt.Sort(errs)
	}

	return outs, nil
}

func countErrors(err error) int {
	n := 0
	for range codefmt.Flatten(err) {
		n++
	}
	return n
}

// load loads packages.
func load(ctx context.Context, opts Options, patterns []string) ([]*packages.Package, error) {
	tags := append([]string{"bingen"}, opts.Tags...)
	cfg := &packages.Config{
		Mode:       packages.NeedDeps | packages.NeedFiles | packages.NeedImports | packages.NeedName | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Context:    ctx,
		Dir:        opts.Dir,
		Env:        opts.Env,
		BuildFlags: []string{"-tags=" + strings.Join(tags, ",")},
		Tests:      opts.Tests,
	}

	// Load the packages based on the provided patterns.
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	// Check for errors in the loaded packages.
	var errs error
	for _, pkg := range pkgs {
		for _, err := range pkg.Errors {
			if err.Pos == "" {
				errs = errors.Join(errs, errors.New(err.Msg))
				continue
			}

			path, rowcol, _ := strings.Cut(err.Pos, ":")
			if rel, relErr := filepath.Rel(opts.Dir, path); relErr == nil {
				err.Pos = rel + ":" + rowcol
			}
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	return pkgs, nil
}

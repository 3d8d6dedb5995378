package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	bingeninternal "github.com/sublee/bingen/internal/bingen"
)

var Version = "dev"

func init() {
	bingeninternal.Version = Version
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "bingen [packages]",
		Short: "Generate binary encoders for //bingen:codec types",
		Long: `bingen generates an Append function for each struct type annotated with
//bingen:codec in the given packages. The functions are written to the output
file in each package.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if err := cfg.applyFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceP("tags", "b", nil, "comma-separated build tags")
	flags.BoolP("tests", "t", false, "include tests")
	flags.StringP("output", "o", "bingen_gen.go", "output file name")
	flags.StringP("color", "c", "auto", "colorize (auto|always|never)")
	flags.StringP("endian", "e", "big", "default byte order (big|little)")
	flags.BoolP("verbose", "v", false, "log progress")
	flags.StringVar(&configPath, "config", "bingen.yaml", "config file")
	return cmd
}

func run(cmd *cobra.Command, cfg Config, patterns []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	color := false
	switch cfg.Color {
	case "auto":
		color = isatty()
	case "always":
		color = true
	}

	outs, err := bingeninternal.Main(cmd.Context(), bingeninternal.Options{
		Dir:    wd,
		Env:    os.Environ(),
		Tags:   cfg.Tags,
		Tests:  cfg.Tests,
		Output: cfg.Output,
		Endian: cfg.ByteOrder(),
		Logger: logger,
	}, patterns)
	if err != nil {
		message := err.Error()
		if color {
			message = colorize(message)
		}
		return errors.New(message)
	}

	for out, code := range outs {
		path := out
		if !filepath.IsAbs(path) {
			path = filepath.Join(wd, path)
		}
		if err := os.WriteFile(path, code, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Generated:", out)
	}
	return nil
}

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/sublee/bingen/internal/bingen/parse"
)

// Config is the settings of the bingen command. It is read from a YAML file
// and then overridden by the command-line flags that were set.
//
//	# bingen.yaml
//	tags: [integration]
//	output: bingen_gen.go
//	endian: little
type Config struct {
	Tags    []string `yaml:"tags"`
	Tests   bool     `yaml:"tests"`
	Output  string   `yaml:"output" validate:"required,endswith=.go,excludes=/"`
	Color   string   `yaml:"color" validate:"oneof=auto always never"`
	Endian  string   `yaml:"endian" validate:"oneof=big little"`
	Verbose bool     `yaml:"verbose"`
}

func defaultConfig() Config {
	return Config{
		Output: "bingen_gen.go",
		Color:  "auto",
		Endian: "big",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadConfig reads the config file at path over the defaults. A missing file
// is an error only if required is true.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overrides the config with the flags set on the command line.
func (cfg *Config) applyFlags(flags *pflag.FlagSet) error {
	var err error
	if flags.Changed("tags") {
		cfg.Tags, err = flags.GetStringSlice("tags")
		if err != nil {
			return err
		}
	}
	if flags.Changed("tests") {
		cfg.Tests, err = flags.GetBool("tests")
		if err != nil {
			return err
		}
	}
	if flags.Changed("verbose") {
		cfg.Verbose, err = flags.GetBool("verbose")
		if err != nil {
			return err
		}
	}
	for name, to := range map[string]*string{
		"output": &cfg.Output,
		"color":  &cfg.Color,
		"endian": &cfg.Endian,
	} {
		if !flags.Changed(name) {
			continue
		}
		if *to, err = flags.GetString(name); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the settings.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		var errs error
		for _, verr := range verrs {
			errs = errors.Join(errs, fmt.Errorf("invalid %s %q: must satisfy %s", verr.Field(), verr.Value(), verr.ActualTag()))
		}
		return errs
	}
	return nil
}

// ByteOrder returns the default byte order of codec items.
func (cfg *Config) ByteOrder() parse.Endian {
	var e parse.Endian
	// Validated by oneof=big little
	_ = parse.EndianAttr(cfg.Endian).TrySet(&e)
	return e
}

package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/bookstage/internal/examples"
	ferrors "git.home.luguber.info/inful/bookstage/internal/foundation/errors"
)

// Validate checks the configuration before any filesystem work starts.
func Validate(cfg *Config) error {
	switch {
	case cfg.Source == "":
		return ferrors.ValidationError("source directory is required (--source)").Build()
	case cfg.Dest == "":
		return ferrors.ValidationError("destination directory is required (--dest)").Build()
	case cfg.Concurrency < 0:
		return ferrors.ValidationError("concurrency must not be negative").
			WithContext("concurrency", cfg.Concurrency).Build()
	case cfg.Build.Timeout < 0:
		return ferrors.ValidationError("build timeout must not be negative").Build()
	case !cfg.Build.Skip && cfg.Build.Command == "":
		return ferrors.ValidationError("build command is required unless the build is skipped").Build()
	}

	src, err := filepath.Abs(cfg.Source)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid source path").Fatal().Build()
	}
	dst, err := filepath.Abs(cfg.Dest)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid destination path").Fatal().Build()
	}
	if src == dst {
		return ferrors.ValidationError("source and destination must differ").WithContext("path", src).Build()
	}

	if _, err := examples.ParseNames(cfg.Only); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid --only list").Fatal().Build()
	}
	return nil
}

// OnlyNames returns the parsed --only filter. Call Validate first.
func (c *Config) OnlyNames() []examples.Name {
	names, _ := examples.ParseNames(c.Only)
	return names
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/drush"
	"github.com/matt-FFFFFF/drush/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	// DiscoveryShell locates drush by asking the shell.
	DiscoveryShell = "shell"
	// DiscoveryPath locates drush by scanning PATH.
	DiscoveryPath = "path"
)

// Environment variables that override file settings.
const (
	EnvBinary         = "DRUSH_BINARY"
	EnvMaxBufferBytes = "DRUSH_MAX_BUFFER_BYTES"
	EnvLog            = "DRUSH_LOG"
	EnvShell          = "DRUSH_SHELL"
	EnvTimeout        = "DRUSH_TIMEOUT"
	EnvDiscovery      = "DRUSH_DISCOVERY"
)

var (
	// ErrReadConfig is returned when the configuration file cannot be read.
	ErrReadConfig = errors.New("failed to read configuration file")
	// ErrInvalidYaml is returned when the configuration file is not valid YAML.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrInvalidEnv is returned when an environment override cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment override")
	// ErrInvalidConfig is returned when the resulting settings fail validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// File is the YAML representation of the settings.
type File struct {
	Binary         string            `yaml:"binary"`
	MaxBufferBytes int64             `yaml:"max_buffer_bytes"`
	Log            bool              `yaml:"log"`
	Shell          string            `yaml:"shell"`
	Cwd            string            `yaml:"cwd"`
	Env            map[string]string `yaml:"env"`
	Timeout        string            `yaml:"timeout"`
	Discovery      string            `yaml:"discovery"`
	Defaults       Defaults          `yaml:"defaults"`
}

// Defaults are invocation options applied when the command line does not set them.
type Defaults struct {
	Alias    string `yaml:"alias"`
	URI      string `yaml:"uri"`
	Simulate bool   `yaml:"simulate"`
}

// Settings is the resolved configuration of drushrun.
type Settings struct {
	Exec      drush.ExecOptions
	Discovery string
	Defaults  drush.Options
}

// Default returns the settings used when there is no file and no override.
func Default() Settings {
	return Settings{
		Exec:      drush.DefaultExecOptions(),
		Discovery: DiscoveryShell,
	}
}

// Locator returns the discovery strategy named by s.Discovery.
func (s Settings) Locator() drush.Locator {
	if s.Discovery == DiscoveryPath {
		return drush.PathLocator{}
	}

	return drush.ShellLocator{}
}

// Load builds the settings from src and the environment.
// An empty src means no file. A src naming a file on FsFactory is read
// directly, anything else is fetched with go-getter.
func Load(ctx context.Context, src string, getenv func(string) string) (Settings, error) {
	s := Default()

	if src != "" {
		data, err := read(ctx, src)
		if err != nil {
			return Settings{}, err
		}

		if s, err = Parse(data); err != nil {
			return Settings{}, fmt.Errorf("%s: %w", src, err)
		}

		ctxlog.Debug(ctx, "configuration loaded", "source", src)
	}

	if err := s.ApplyEnv(getenv); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

func read(ctx context.Context, src string) ([]byte, error) {
	fs := FsFactory()

	if ok, _ := afero.Exists(fs, src); ok {
		data, err := afero.ReadFile(fs, src)
		if err != nil {
			return nil, errors.Join(ErrReadConfig, err)
		}

		return data, nil
	}

	return Fetch(ctx, src)
}

// LoadFile parses the YAML file at path on FsFactory.
func LoadFile(path string) (Settings, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return Settings{}, errors.Join(ErrReadConfig, err)
	}

	return Parse(data)
}

// Parse converts YAML into settings on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Settings, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidYaml, err)
	}

	return f.settings()
}

func (f File) settings() (Settings, error) {
	s := Default()
	s.Exec = s.Exec.Merge(drush.ExecOptions{
		Binary:         f.Binary,
		MaxBufferBytes: f.MaxBufferBytes,
		Log:            f.Log,
		Shell:          f.Shell,
		Cwd:            f.Cwd,
		Env:            f.Env,
	})

	if f.Discovery != "" {
		s.Discovery = strings.ToLower(f.Discovery)
	}

	s.Defaults = drush.Options{
		Alias:    f.Defaults.Alias,
		URI:      f.Defaults.URI,
		Simulate: f.Defaults.Simulate,
	}

	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: timeout: %v", ErrInvalidConfig, err)
		}

		s.Exec.Timeout = d
	}

	return s, nil
}

// ApplyEnv overrides s with the DRUSH_* variables returned by getenv.
// Every unparseable value is reported.
func (s *Settings) ApplyEnv(getenv func(string) string) error {
	var err error

	if v := getenv(EnvBinary); v != "" {
		s.Exec.Binary = v
	}

	if v := getenv(EnvShell); v != "" {
		s.Exec.Shell = v
	}

	if v := getenv(EnvDiscovery); v != "" {
		s.Discovery = strings.ToLower(v)
	}

	if v := getenv(EnvMaxBufferBytes); v != "" {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			err = multierror.Append(err, fmt.Errorf("%s: %w", EnvMaxBufferBytes, perr))
		} else {
			s.Exec.MaxBufferBytes = n
		}
	}

	if v := getenv(EnvLog); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = multierror.Append(err, fmt.Errorf("%s: %w", EnvLog, perr))
		} else {
			s.Exec.Log = b
		}
	}

	if v := getenv(EnvTimeout); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			err = multierror.Append(err, fmt.Errorf("%s: %w", EnvTimeout, perr))
		} else {
			s.Exec.Timeout = d
		}
	}

	if err != nil {
		return errors.Join(ErrInvalidEnv, err)
	}

	return nil
}

// Validate reports every problem with s at once.
func (s Settings) Validate() error {
	var err error

	if s.Exec.Binary == "" {
		err = multierror.Append(err, errors.New("binary must not be empty"))
	}

	if s.Exec.MaxBufferBytes <= 0 {
		err = multierror.Append(err, fmt.Errorf("max_buffer_bytes must be positive, got %d", s.Exec.MaxBufferBytes))
	}

	if s.Exec.Timeout < 0 {
		err = multierror.Append(err, fmt.Errorf("timeout must not be negative, got %s", s.Exec.Timeout))
	}

	switch s.Discovery {
	case DiscoveryShell, DiscoveryPath:
	default:
		err = multierror.Append(err, fmt.Errorf("discovery must be %q or %q, got %q", DiscoveryShell, DiscoveryPath, s.Discovery))
	}

	if s.Exec.Cwd != "" {
		if ok, _ := afero.DirExists(FsFactory(), s.Exec.Cwd); !ok {
			err = multierror.Append(err, fmt.Errorf("cwd %s is not a directory", s.Exec.Cwd))
		}
	}

	for k := range s.Exec.Env {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			err = multierror.Append(err, fmt.Errorf("invalid environment variable name %q", k))
		}
	}

	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"testing"
	"time"

	"github.com/matt-FFFFFF/drush"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
binary: drush9
max_buffer_bytes: 4096
log: true
shell: /bin/bash
cwd: /var/www/site
env:
  DRUSH_PHP: /usr/bin/php8.2
timeout: 2m
discovery: PATH
defaults:
  alias: "@prod"
  uri: https://example.com
  simulate: true
`

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func stubFs(t *testing.T, files map[string]string, dirs ...string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	for _, d := range dirs {
		require.NoError(t, fs.MkdirAll(d, 0o755))
	}

	stubs := gostub.Stub(&FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, drush.ExecOptions{
		Binary:         "drush9",
		MaxBufferBytes: 4096,
		Log:            true,
		Shell:          "/bin/bash",
		Cwd:            "/var/www/site",
		Env:            map[string]string{"DRUSH_PHP": "/usr/bin/php8.2"},
		Timeout:        2 * time.Minute,
	}, s.Exec)
	assert.Equal(t, DiscoveryPath, s.Discovery)
	assert.Equal(t, drush.Options{Alias: "@prod", URI: "https://example.com", Simulate: true}, s.Defaults)
}

func TestParseKeepsDefaults(t *testing.T) {
	s, err := Parse([]byte("log: true\n"))
	require.NoError(t, err)

	assert.Equal(t, drush.DefaultBinary, s.Exec.Binary)
	assert.Equal(t, drush.DefaultMaxBufferBytes, s.Exec.MaxBufferBytes)
	assert.Equal(t, DiscoveryShell, s.Discovery)
	assert.True(t, s.Exec.Log)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "unknown key", yaml: "binray: drush\n", wantErr: ErrInvalidYaml},
		{name: "wrong type", yaml: "max_buffer_bytes: lots\n", wantErr: ErrInvalidYaml},
		{name: "bad timeout", yaml: "timeout: soon\n", wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	stubFs(t, map[string]string{"/etc/drushrun.yaml": fullConfig})

	s, err := LoadFile("/etc/drushrun.yaml")
	require.NoError(t, err)
	assert.Equal(t, "drush9", s.Exec.Binary)

	_, err = LoadFile("/etc/missing.yaml")
	require.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad(t *testing.T) {
	stubFs(t, map[string]string{"/etc/drushrun.yaml": fullConfig}, "/var/www/site")

	s, err := Load(context.Background(), "/etc/drushrun.yaml", envMap(map[string]string{
		EnvBinary:  "drush10",
		EnvTimeout: "10s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "drush10", s.Exec.Binary)
	assert.Equal(t, 10*time.Second, s.Exec.Timeout)
	assert.Equal(t, int64(4096), s.Exec.MaxBufferBytes)
	assert.IsType(t, drush.PathLocator{}, s.Locator())
}

func TestLoadWithoutFile(t *testing.T) {
	stubFs(t, nil)

	s, err := Load(context.Background(), "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.IsType(t, drush.ShellLocator{}, s.Locator())
}

func TestLoadInvalidCwd(t *testing.T) {
	stubFs(t, map[string]string{"/etc/drushrun.yaml": fullConfig})

	_, err := Load(context.Background(), "/etc/drushrun.yaml", noEnv)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "/var/www/site")
}

func TestApplyEnv(t *testing.T) {
	s := Default()

	err := s.ApplyEnv(envMap(map[string]string{
		EnvBinary:         "drush-launcher",
		EnvMaxBufferBytes: "2048",
		EnvLog:            "true",
		EnvShell:          "/bin/zsh",
		EnvTimeout:        "1m30s",
		EnvDiscovery:      "Path",
	}))
	require.NoError(t, err)

	assert.Equal(t, "drush-launcher", s.Exec.Binary)
	assert.Equal(t, int64(2048), s.Exec.MaxBufferBytes)
	assert.True(t, s.Exec.Log)
	assert.Equal(t, "/bin/zsh", s.Exec.Shell)
	assert.Equal(t, 90*time.Second, s.Exec.Timeout)
	assert.Equal(t, DiscoveryPath, s.Discovery)
}

func TestApplyEnvReportsEveryError(t *testing.T) {
	s := Default()

	err := s.ApplyEnv(envMap(map[string]string{
		EnvMaxBufferBytes: "big",
		EnvLog:            "maybe",
		EnvTimeout:        "later",
	}))
	require.ErrorIs(t, err, ErrInvalidEnv)

	for _, name := range []string{EnvMaxBufferBytes, EnvLog, EnvTimeout} {
		assert.Contains(t, err.Error(), name)
	}

	assert.Equal(t, drush.DefaultMaxBufferBytes, s.Exec.MaxBufferBytes)
}

func TestValidate(t *testing.T) {
	stubFs(t, nil, "/srv")

	tests := []struct {
		name     string
		mutate   func(s *Settings)
		contains []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Settings) {},
		},
		{
			name:   "existing cwd",
			mutate: func(s *Settings) { s.Exec.Cwd = "/srv" },
		},
		{
			name: "everything wrong",
			mutate: func(s *Settings) {
				s.Exec.Binary = ""
				s.Exec.MaxBufferBytes = -1
				s.Exec.Timeout = -time.Second
				s.Exec.Env = map[string]string{"A=B": "x"}
				s.Discovery = "magic"
			},
			contains: []string{"binary", "max_buffer_bytes", "timeout", "discovery", "A=B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)

			err := s.Validate()
			if len(tt.contains) == 0 {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidConfig)

			for _, c := range tt.contains {
				assert.Contains(t, err.Error(), c)
			}
		})
	}
}

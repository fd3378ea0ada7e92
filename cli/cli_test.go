package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"aprsfi-client/aprsfi"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, args ...string) *Config {
	t.Helper()
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(args, out)
	require.NoError(t, err)
	require.False(t, shouldExit)
	require.NotNil(t, cfg)
	return cfg
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, code, exitErr.Code)
	return exitErr
}

func TestParseDefaults(t *testing.T) {
	cfg := parseOK(t, "--api-key", "k", "--input-url", "https://example.com/objects.yaml")

	require.Equal(t, aprsfi.Config{
		BaseURL:   aprsfi.DefaultBaseURL,
		APIKey:    "k",
		UserAgent: aprsfi.DefaultUserAgent,
	}, cfg.Upload)
	require.Equal(t, "https://example.com/objects.yaml", cfg.InputURL)
	require.Empty(t, cfg.InputFile)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "syslog", cfg.LogOutput)
}

func TestParseAllFlags(t *testing.T) {
	cfg := parseOK(t,
		"--api-key=k",
		"--base-url=http://staging.local/api/",
		"--input-file=/tmp/objects.yaml",
		"--input-url=http://staging.local/objects.yaml",
		"--basicauth-user=u",
		"--basicauth-pass=p",
		"--user-agent=test-agent",
		"--log-level=DEBUG",
		"--log-output=both",
	)

	require.Equal(t, aprsfi.Config{
		BaseURL:       "http://staging.local/api/",
		APIKey:        "k",
		BasicAuthUser: "u",
		BasicAuthPass: "p",
		UserAgent:     "test-agent",
	}, cfg.Upload)
	require.Equal(t, "/tmp/objects.yaml", cfg.InputFile)
	require.Equal(t, "http://staging.local/objects.yaml", cfg.InputURL)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "both", cfg.LogOutput)
}

func TestParsePrecedence(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "aprsfi.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
api-key: from-file
base-url: http://file.local/api/
user-agent: file-agent
input-url: http://file.local/objects.yaml
log-output: console
`), 0o600))
	t.Setenv("APRSFI_BASE_URL", "http://env.local/api/")
	t.Setenv("APRSFI_USER_AGENT", "env-agent")

	// --- Act ---
	cfg := parseOK(t, "-c", cfgPath, "--user-agent", "flag-agent")

	// --- Assert ---
	require.Equal(t, "from-file", cfg.Upload.APIKey)
	require.Equal(t, "http://env.local/api/", cfg.Upload.BaseURL)
	require.Equal(t, "flag-agent", cfg.Upload.UserAgent)
	require.Equal(t, "http://file.local/objects.yaml", cfg.InputURL)
	require.Equal(t, "console", cfg.LogOutput)
}

func TestParseAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("APRSFI_API_KEY", "env-key")

	cfg := parseOK(t, "--input-url", "http://x/objects.yaml")

	require.Equal(t, "env-key", cfg.Upload.APIKey)
}

func TestParseExpandsHomeInInputFile(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := parseOK(t, "--api-key", "k", "--input-file", "~/objects.yaml")

	require.Equal(t, filepath.Join(home, "objects.yaml"), cfg.InputFile)
}

func TestParseHelp(t *testing.T) {
	out := &bytes.Buffer{}

	cfg, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "--api-key")
}

func TestParseErrors(t *testing.T) {
	t.Setenv("APRSFI_API_KEY", "")

	cases := map[string]struct {
		args    []string
		message string
	}{
		"unknown flag": {
			args:    []string{"--this-is-not-a-valid-flag"},
			message: "unknown flag",
		},
		"positional argument": {
			args:    []string{"--api-key", "k", "--input-url", "http://x", "extra"},
			message: "unexpected arguments: extra",
		},
		"missing api key": {
			args:    []string{"--input-url", "http://x"},
			message: "an API key is required",
		},
		"no input": {
			args:    []string{"--api-key", "k"},
			message: "nothing to upload",
		},
		"bad log level": {
			args:    []string{"--api-key", "k", "--input-url", "http://x", "--log-level", "loud"},
			message: "invalid log level",
		},
		"bad log output": {
			args:    []string{"--api-key", "k", "--input-url", "http://x", "--log-output", "file"},
			message: "invalid log-output",
		},
		"missing config file": {
			args:    []string{"-c", "/nonexistent/aprsfi.yaml"},
			message: "failed to read config file",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, shouldExit, err := Parse(tc.args, &bytes.Buffer{})

			require.False(t, shouldExit)
			exitErr := requireExitCode(t, err, 2)
			require.Contains(t, exitErr.Message, tc.message)
		})
	}
}

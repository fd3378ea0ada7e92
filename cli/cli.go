// Package cli turns command-line arguments, an optional config file and
// APRSFI_* environment variables into a validated Config, and carries the
// process exit code for usage errors.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"aprsfi-client/aprsfi"
	"aprsfi-client/logging"

	"github.com/jessevdk/go-flags"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the CLI reads.
const EnvPrefix = "APRSFI"

// ExitError is an error that carries the exit code for the process.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Config is everything a run needs.
type Config struct {
	Upload    aprsfi.Config
	InputFile string
	InputURL  string
	LogLevel  string
	LogOutput string
}

type options struct {
	APIKey        *string `long:"api-key" description:"API key" value-name:"KEY"`
	BaseURL       *string `long:"base-url" description:"API base URL (default: https://api.aprs.fi/api/)" value-name:"URL"`
	InputFile     *string `long:"input-file" description:"YAML file path" value-name:"PATH"`
	InputURL      *string `long:"input-url" description:"YAML file URL" value-name:"URL"`
	BasicAuthUser *string `long:"basicauth-user" description:"debug/test env: username" value-name:"USER"`
	BasicAuthPass *string `long:"basicauth-pass" description:"debug/test env: password" value-name:"PASS"`
	UserAgent     *string `long:"user-agent" description:"User-Agent sent with each upload" value-name:"UA"`
	LogLevel      *string `long:"log-level" description:"Logging level: debug, info, warn or error (default: info)" value-name:"LEVEL"`
	LogOutput     *string `long:"log-output" description:"Where logs go: syslog, console or both (default: syslog)" value-name:"TARGET"`
	Config        *string `short:"c" long:"config" description:"Config file (YAML, TOML or JSON)" value-name:"FILE"`
}

// Parse processes command-line arguments. It returns the Config, whether the
// program should exit cleanly (help was printed), or an error. Usage errors
// are *ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "aprsfi-client"
	parser.Usage = "[OPTIONS]"
	parser.LongDescription = "Upload objects listed in a YAML document to the aprs.fi API."

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(output, flagsErr.Message)
			return nil, true, nil
		}
		return nil, false, usageError("%v", err)
	}
	if len(rest) > 0 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(rest, " "))
	}

	v, err := load(opts)
	if err != nil {
		return nil, false, err
	}

	cfg, err := build(v)
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

// load layers defaults, the config file, the environment and the flags that
// were actually given, in increasing precedence.
func load(opts options) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("base-url", aprsfi.DefaultBaseURL)
	v.SetDefault("user-agent", aprsfi.DefaultUserAgent)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-output", logging.OutputSyslog)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.Config != nil {
		path, err := homedir.Expand(*opts.Config)
		if err != nil {
			return nil, usageError("invalid config path: %v", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, usageError("failed to read config file %s: %v", path, err)
		}
	}

	for key, val := range map[string]*string{
		"api-key":        opts.APIKey,
		"base-url":       opts.BaseURL,
		"input-file":     opts.InputFile,
		"input-url":      opts.InputURL,
		"basicauth-user": opts.BasicAuthUser,
		"basicauth-pass": opts.BasicAuthPass,
		"user-agent":     opts.UserAgent,
		"log-level":      opts.LogLevel,
		"log-output":     opts.LogOutput,
	} {
		if val != nil {
			v.Set(key, *val)
		}
	}

	return v, nil
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Upload: aprsfi.Config{
			BaseURL:       v.GetString("base-url"),
			APIKey:        v.GetString("api-key"),
			BasicAuthUser: v.GetString("basicauth-user"),
			BasicAuthPass: v.GetString("basicauth-pass"),
			UserAgent:     v.GetString("user-agent"),
		},
		InputURL:  v.GetString("input-url"),
		LogLevel:  strings.ToLower(v.GetString("log-level")),
		LogOutput: strings.ToLower(v.GetString("log-output")),
	}

	if file := v.GetString("input-file"); file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, usageError("invalid input file: %v", err)
		}
		cfg.InputFile = path
	}

	if cfg.Upload.APIKey == "" {
		return nil, usageError("an API key is required: use --api-key or %s_API_KEY", EnvPrefix)
	}
	if cfg.InputFile == "" && cfg.InputURL == "" {
		return nil, usageError("nothing to upload: use --input-file and/or --input-url")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, usageError("%v", err)
	}
	if !logging.ValidOutput(cfg.LogOutput) {
		return nil, usageError("invalid log-output %q: must be '%s', '%s' or '%s'",
			cfg.LogOutput, logging.OutputSyslog, logging.OutputConsole, logging.OutputBoth)
	}

	return cfg, nil
}

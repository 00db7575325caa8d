// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cli implements the mimeparse command line tool.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/gnomeria/kateglo/internal/config"
	"github.com/gnomeria/kateglo/internal/logging"
	"github.com/gnomeria/kateglo/problem"
)

// Version is reported by --version and in log entries. Release builds set it
// with -ldflags "-X github.com/gnomeria/kateglo/internal/cli.Version=...".
var Version = "dev"

// ErrNoSupported is returned when neither the arguments nor the profile name
// any supported media type.
var ErrNoSupported = errors.New("no supported media types given")

// ExitError carries a failure that has already been reported to the user.
type ExitError struct {
	Status int
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%d %s: %v", e.Status, http.StatusText(e.Status), e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type flags struct {
	configFile string
	consulKeys []string
	logLevel   string
	logHandler string
	format     string
	accept     string
}

// state is shared by all subcommands of one root command.
type state struct {
	stdout io.Writer
	stderr io.Writer

	flags     flags
	profile   *config.Profile
	logger    *logging.Logger
	formatter problem.Formatter
}

// NewCommand returns the root command writing results to stdout and
// diagnostics to stderr.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	s := &state{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "mimeparse",
		Short: "Match media types against HTTP Accept headers",
		Long: `mimeparse picks the best media type an endpoint can produce for an
HTTP Accept header, using mimeparse fitness and quality rules.

Supported types are given as arguments or come from a profile loaded from
--config, MIMEPARSE_* environment variables and --consul-key entries.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.configFile, "config", "", "Profile file (.yaml, .yml, .toml or .json)")
	pf.StringSliceVar(&s.flags.consulKeys, "consul-key", nil, "Consul key holding a profile document or a single field")
	pf.StringVar(&s.flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&s.flags.logHandler, "log-handler", "", "Log handler: console, text or json")
	pf.StringVarP(&s.flags.format, "format", "o", "", "Output format: text, json or table")

	root.AddCommand(
		newMatchCommand(s),
		newQualityCommand(s),
		newParseCommand(s),
		newRankCommand(s),
	)
	return root
}

// setup loads the profile from every source, flags last, and builds the
// logger and problem formatter.
func (s *state) setup(cmd *cobra.Command) error {
	opts := make([]config.Option, 0, 3+len(s.flags.consulKeys))
	if s.flags.configFile != "" {
		opts = append(opts, config.WithFile(s.flags.configFile))
	}
	opts = append(opts, config.WithEnv(config.DefaultEnvPrefix))
	for _, key := range s.flags.consulKeys {
		opts = append(opts, config.WithConsul(key))
	}
	opts = append(opts, config.WithSource(flagSource{flags: cmd.Flags()}))

	loader, err := config.NewLoader(opts...)
	if err != nil {
		return err
	}
	profile, err := loader.Load(cmd.Context())
	if err != nil {
		return err
	}
	s.profile = profile

	level, err := logging.ParseLevel(profile.Log.Level)
	if err != nil {
		return err
	}
	s.logger, err = logging.New(
		logging.WithHandlerType(logging.HandlerType(profile.Log.Handler)),
		logging.WithOutput(colorprofile.NewWriter(s.stderr, os.Environ())),
		logging.WithLevel(level),
		logging.WithServiceName("mimeparse"),
		logging.WithServiceVersion(Version),
		logging.WithSource(level == logging.LevelDebug),
	)
	if err != nil {
		return err
	}

	s.formatter, err = profile.Formatter()
	if err != nil {
		return err
	}

	s.logger.Debug("profile loaded",
		"supported", profile.Supported,
		"accept", profile.Accept,
		"format", profile.Format,
	)
	return nil
}

// supported returns args, or the profile's supported types when args is empty.
func (s *state) supported(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(s.profile.Supported) > 0 {
		return s.profile.Supported, nil
	}
	return nil, ErrNoSupported
}

// accept returns the --accept flag when set, else the profile default.
func (s *state) accept(cmd *cobra.Command) string {
	if cmd.Flags().Changed("accept") {
		return s.flags.accept
	}
	return s.profile.Accept
}

// fail reports err as a problem document and returns an [*ExitError].
func (s *state) fail(cmd *cobra.Command, err error) error {
	resp := s.formatter.Format(cmd.CommandPath(), err)
	if resp.Status >= http.StatusInternalServerError {
		s.logger.Error("command failed", "status", resp.Status, "error", err)
	} else {
		s.logger.Warn("negotiation failed", "status", resp.Status, "error", err)
	}

	if s.profile.Format == config.OutputJSON {
		if encErr := s.writeJSON(resp.Body); encErr != nil {
			return encErr
		}
	} else {
		fmt.Fprintf(s.stderr, "%d %s: %v\n", resp.Status, http.StatusText(resp.Status), err)
	}
	return &ExitError{Status: resp.Status, Err: err}
}

func (s *state) writeJSON(v any) error {
	enc := json.NewEncoder(s.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

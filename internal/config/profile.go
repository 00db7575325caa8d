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


package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gnomeria/kateglo/internal/logging"
	"github.com/gnomeria/kateglo/mimeparse"
	"github.com/gnomeria/kateglo/problem"
)

// Output formats understood by the CLI.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

// Profile describes a negotiating endpoint: the media types it can produce,
// the Accept header assumed when the client sends none, and how results and
// failures are reported.
type Profile struct {
	Supported []string      `mapstructure:"supported"`
	Accept    string        `mapstructure:"accept" default:"*/*"`
	Format    string        `mapstructure:"format" default:"text"`
	Problem   ProblemConfig `mapstructure:"problem"`
	Log       LogConfig     `mapstructure:"log"`
}

// ProblemConfig selects the error document format.
type ProblemConfig struct {
	Kind    string `mapstructure:"kind" default:"rfc9457"`
	BaseURL string `mapstructure:"baseurl"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level   string `mapstructure:"level" default:"warn"`
	Handler string `mapstructure:"handler" default:"console"`
}

// Validate checks that every field holds a usable value. Supported types
// must parse as media types and the default Accept header must parse as a
// media range list.
func (p *Profile) Validate() error {
	var errs []error

	for i, s := range p.Supported {
		if _, err := mimeparse.ParseMediaType(s); err != nil {
			errs = append(errs, NewFieldError("profile", fmt.Sprintf("supported[%d]", i), "validate", err))
		}
	}
	if _, err := mimeparse.ParseAccept(p.Accept); err != nil {
		errs = append(errs, NewFieldError("profile", "accept", "validate", err))
	}

	switch p.Format {
	case OutputText, OutputJSON, OutputTable:
	default:
		errs = append(errs, NewFieldError("profile", "format", "validate",
			fmt.Errorf("%w: unknown output format %q", ErrInvalidProfile, p.Format)))
	}

	if _, err := problem.New(p.Problem.Kind, p.Problem.BaseURL); err != nil {
		errs = append(errs, NewFieldError("profile", "problem.kind", "validate", err))
	}

	if _, err := logging.ParseLevel(p.Log.Level); err != nil {
		errs = append(errs, NewFieldError("profile", "log.level", "validate", err))
	}
	switch logging.HandlerType(p.Log.Handler) {
	case logging.JSONHandler, logging.TextHandler, logging.ConsoleHandler:
	default:
		errs = append(errs, NewFieldError("profile", "log.handler", "validate",
			fmt.Errorf("%w: %q", logging.ErrInvalidHandler, p.Log.Handler)))
	}

	return errors.Join(errs...)
}

// Formatter builds the problem formatter the profile selects.
func (p *Profile) Formatter() (problem.Formatter, error) {
	return problem.New(p.Problem.Kind, p.Problem.BaseURL)
}

// applyDefaults fills zero-valued fields from their default tags.
func applyDefaults(target any) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to a struct")
	}
	return setDefaults(val.Elem())
}

func setDefaults(val reflect.Value) error {
	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			if err := setDefaults(field); err != nil {
				return err
			}
			continue
		}

		tag := typ.Field(i).Tag.Get("default")
		if tag == "" || !field.IsZero() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(tag)
		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				return fmt.Errorf("unsupported slice type for default tag on %s", typ.Field(i).Name)
			}
			field.Set(reflect.ValueOf(strings.Split(tag, ",")))
		default:
			return fmt.Errorf("unsupported type for default tag on %s: %s", typ.Field(i).Name, field.Kind())
		}
	}
	return nil
}

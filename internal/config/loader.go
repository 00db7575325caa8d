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
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cast"
)

//go:embed schema.json
var schemaJSON []byte

// Option configures a [Loader].
type Option func(l *Loader) error

// Loader merges profile sources in the order they were added. Later sources
// override earlier ones key by key.
type Loader struct {
	sources []Source
	schema  *jsonschema.Schema
}

// WithSource appends a custom source.
func WithSource(src Source) Option {
	return func(l *Loader) error {
		if src == nil {
			return errors.New("source cannot be nil")
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// WithFile appends a profile file. The format is detected from the extension.
func WithFile(path string) Option {
	return func(l *Loader) error {
		format, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		decoder, err := NewDecoder(format)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, NewFileSource(path, decoder))
		return nil
	}
}

// WithContent appends an in-memory profile document.
func WithContent(data []byte, format Format) Option {
	return func(l *Loader) error {
		decoder, err := NewDecoder(format)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, NewContentSource(data, decoder))
		return nil
	}
}

// WithEnv appends environment variables starting with prefix. An empty
// prefix means [DefaultEnvPrefix].
func WithEnv(prefix string) Option {
	return func(l *Loader) error {
		if prefix == "" {
			prefix = DefaultEnvPrefix
		}
		l.sources = append(l.sources, NewEnvSource(prefix))
		return nil
	}
}

// WithConsul appends a Consul key. See [ConsulSource] for how keys map to
// profile fields.
func WithConsul(key string) Option {
	return WithConsulKV(key, nil)
}

// WithConsulKV is like [WithConsul] with an explicit KV client.
func WithConsulKV(key string, kv ConsulKV) Option {
	return func(l *Loader) error {
		src, err := NewConsulSource(key, kv)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, src)
		return nil
	}
}

// NewLoader returns a loader with the given options applied.
func NewLoader(opts ...Option) (*Loader, error) {
	schema, err := compileSchema(schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to compile profile schema: %w", err)
	}

	l := &Loader{schema: schema}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Load merges all sources, validates the result against the profile schema,
// binds it and applies defaults.
//
// Errors:
//   - [*Error] with Source "source[i]" if a source fails to load or merge
//   - [*Error] with Source "json-schema" if the merged document is rejected
//   - [*Error] with Source "binding" if decoding into [Profile] fails
//   - [*Error] with Source "profile" if [Profile.Validate] fails
func (l *Loader) Load(ctx context.Context) (*Profile, error) {
	values, err := l.merge(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.schema.Validate(values); err != nil {
		return nil, NewError("json-schema", "validate", err)
	}
	if err := normalizeSupported(values); err != nil {
		return nil, NewFieldError("binding", "supported", "cast", err)
	}

	p := &Profile{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           p,
	})
	if err != nil {
		return nil, NewError("binding", "bind", err)
	}
	if err := decoder.Decode(values); err != nil {
		return nil, NewError("binding", "bind", err)
	}

	if err := applyDefaults(p); err != nil {
		return nil, NewError("binding", "defaults", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *Loader) merge(ctx context.Context) (map[string]any, error) {
	merged := make(map[string]any)
	for i, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		conf, err := src.Load(ctx)
		if err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "load", err)
		}
		if conf == nil {
			continue
		}

		if err := mergo.Map(&merged, normalizeMapKeys(conf), mergo.WithOverride); err != nil {
			return nil, NewError(fmt.Sprintf("source[%d]", i), "merge", err)
		}
	}
	return merged, nil
}

func compileSchema(schema []byte) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("profile.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("profile.json")
}

// normalizeMapKeys lower-cases keys recursively so sources merge
// case-insensitively.
func normalizeMapKeys(m map[string]any) map[string]any {
	normalized := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeMapKeys(nested)
		}
		normalized[strings.ToLower(k)] = v
	}
	return normalized
}

// normalizeSupported rewrites the supported field as a list of trimmed,
// non-empty strings. Documents carry it as a list; env variables and Consul
// field keys carry it as one comma-separated string.
func normalizeSupported(values map[string]any) error {
	raw, ok := values["supported"]
	if !ok {
		return nil
	}

	var list []string
	if s, isString := raw.(string); isString {
		list = strings.Split(s, ",")
	} else {
		var err error
		if list, err = cast.ToStringSliceE(raw); err != nil {
			return err
		}
	}

	values["supported"] = trimAll(list)
	return nil
}

func trimAll(ss []string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

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
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Format names the encoding of a profile document.
type Format string

// Supported profile formats.
const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatEnv    Format = "env"
	FormatString Format = "string"
)

// Decoder decodes raw bytes into v.
type Decoder interface {
	Decode(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type yamlCodec struct{}

func (yamlCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

type tomlCodec struct{}

func (tomlCodec) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// envCodec decodes KEY=value lines. Underscores in keys nest, so
// PROBLEM_KIND=simple becomes {"problem": {"kind": "simple"}}.
type envCodec struct{}

func (envCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env codec: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		key, value, ok := strings.Cut(string(line), "=")
		if !ok {
			continue
		}

		parts := make([]string, 0, 4)
		for part := range strings.SplitSeq(strings.ToLower(strings.TrimSpace(key)), "_") {
			if part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*ptr = conf
	return nil
}

// stringCodec reads a single raw value as a trimmed string. It is used for
// Consul keys that hold one profile field rather than a whole document.
type stringCodec struct{}

func (stringCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*any)
	if !ok {
		return fmt.Errorf("string codec: expected *any, got %T", v)
	}
	*ptr = strings.TrimSpace(string(data))
	return nil
}

// NewDecoder returns the decoder for format.
func NewDecoder(format Format) (Decoder, error) {
	switch format {
	case FormatJSON:
		return jsonCodec{}, nil
	case FormatYAML:
		return yamlCodec{}, nil
	case FormatTOML:
		return tomlCodec{}, nil
	case FormatEnv:
		return envCodec{}, nil
	case FormatString:
		return stringCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatFromPath detects a document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: cannot detect format of %q", ErrUnknownFormat, path)
	}
}

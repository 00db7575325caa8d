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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/consul/api"
)

// DefaultEnvPrefix is the environment variable prefix read by [WithEnv]
// when no prefix is given.
const DefaultEnvPrefix = "MIMEPARSE_"

// Source produces a raw configuration map.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// FileSource loads a profile document from disk or from in-memory content.
type FileSource struct {
	path    string
	data    []byte
	decoder Decoder
}

// NewFileSource returns a source reading path with decoder.
func NewFileSource(path string, decoder Decoder) *FileSource {
	return &FileSource{path: path, decoder: decoder}
}

// NewContentSource returns a source decoding data with decoder.
func NewContentSource(data []byte, decoder Decoder) *FileSource {
	return &FileSource{data: data, decoder: decoder}
}

// Load reads and decodes the document.
func (f *FileSource) Load(_ context.Context) (map[string]any, error) {
	data := f.data
	if data == nil {
		var err error
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("failed to read profile file: %w", err)
		}
	}

	conf := make(map[string]any)
	if err := f.decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return conf, nil
}

// EnvSource loads profile fields from environment variables carrying a prefix.
// With prefix "MIMEPARSE_", MIMEPARSE_LOG_LEVEL=debug becomes log.level.
type EnvSource struct {
	prefix  string
	environ func() []string
}

// NewEnvSource returns a source reading variables that start with prefix.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix, environ: os.Environ}
}

// Load decodes the matching variables, prefix stripped.
func (e *EnvSource) Load(_ context.Context) (map[string]any, error) {
	var lines []string
	for _, env := range e.environ() {
		if rest, ok := strings.CutPrefix(env, e.prefix); ok {
			lines = append(lines, rest)
		}
	}

	var conf map[string]any
	if err := (envCodec{}).Decode([]byte(strings.Join(lines, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	return conf, nil
}

// ConsulKV is the subset of the Consul KV API used by [ConsulSource].
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// consulFields lists the profile fields a single Consul key may hold, keyed
// by the trailing key segments that name them.
var consulFields = map[string][]string{
	"supported":       {"supported"},
	"accept":          {"accept"},
	"format":          {"format"},
	"problem/kind":    {"problem", "kind"},
	"problem/baseurl": {"problem", "baseurl"},
	"log/level":       {"log", "level"},
	"log/handler":     {"log", "handler"},
}

// ConsulSource loads a profile from a Consul key.
//
// A key ending in .json, .yaml, .yml or .toml holds a whole profile document.
// Any other key holds a single field named by its trailing segments, so
// "kateglo/negotiation/accept" sets accept and "kateglo/negotiation/log/level"
// sets log.level. Keys naming no profile field are rejected.
//
// The client is configured from the standard environment variables
// (CONSUL_HTTP_ADDR, CONSUL_HTTP_TOKEN).
type ConsulSource struct {
	kv      ConsulKV
	key     string
	decoder Decoder
	field   []string
}

// NewConsulSource returns a source for key. If kv is nil a client is built
// from the default Consul configuration.
func NewConsulSource(key string, kv ConsulKV) (*ConsulSource, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}

	src := &ConsulSource{kv: kv, key: key}
	if format, err := FormatFromPath(key); err == nil {
		src.decoder, _ = NewDecoder(format)
		return src, nil
	}

	field, ok := consulField(key)
	if !ok {
		return nil, fmt.Errorf("%w: consul key %q names no profile field", ErrInvalidProfile, key)
	}
	src.decoder = stringCodec{}
	src.field = field
	return src, nil
}

// consulField resolves the profile field named by the end of key, preferring
// a nested "section/name" match over a top-level one.
func consulField(key string) ([]string, bool) {
	segments := strings.Split(strings.ToLower(strings.Trim(key, "/")), "/")
	if n := len(segments); n >= 2 {
		if field, ok := consulFields[segments[n-2]+"/"+segments[n-1]]; ok {
			return field, true
		}
	}
	field, ok := consulFields[segments[len(segments)-1]]
	return field, ok
}

// Load fetches the key. A missing key yields an empty map.
func (c *ConsulSource) Load(ctx context.Context) (map[string]any, error) {
	pair, _, err := c.kv.Get(c.key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key: %w", err)
	}
	if pair == nil {
		return make(map[string]any), nil
	}

	if c.field != nil {
		var val any
		if err := c.decoder.Decode(pair.Value, &val); err != nil {
			return nil, fmt.Errorf("failed to decode consul value: %w", err)
		}
		return nestField(c.field, val), nil
	}

	conf := make(map[string]any)
	if err := c.decoder.Decode(pair.Value, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode consul value: %w", err)
	}
	return conf, nil
}

// nestField builds {"a": {"b": val}} for path ["a", "b"].
func nestField(path []string, val any) map[string]any {
	conf := map[string]any{path[len(path)-1]: val}
	for i := len(path) - 2; i >= 0; i-- {
		conf = map[string]any{path[i]: conf}
	}
	return conf
}

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


package cli

import (
	"context"

	"github.com/spf13/pflag"
)

// profileFlags maps flags that override profile fields to the field path.
var profileFlags = map[string][]string{
	"log-level":   {"log", "level"},
	"log-handler": {"log", "handler"},
	"format":      {"format"},
}

// flagSource exposes the profile flags set on the command line as a
// configuration source. Added last, it overrides every other source before
// the merged profile is validated.
type flagSource struct {
	flags *pflag.FlagSet
}

func (f flagSource) Load(_ context.Context) (map[string]any, error) {
	conf := make(map[string]any)
	f.flags.Visit(func(fl *pflag.Flag) {
		path, ok := profileFlags[fl.Name]
		if !ok {
			return
		}

		current := conf
		for _, key := range path[:len(path)-1] {
			next, ok := current[key].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[key] = next
			}
			current = next
		}
		current[path[len(path)-1]] = fl.Value.String()
	})
	return conf, nil
}

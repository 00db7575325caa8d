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


// Package config loads negotiation profiles.
//
// A profile lists the media types an endpoint can produce and how results
// are reported. Profiles come from files (YAML, TOML, JSON), environment
// variables and Consul keys; sources are merged in order, checked against an
// embedded JSON schema and bound into [Profile].
//
//	l, err := config.NewLoader(
//	    config.WithFile("negotiation.yaml"),
//	    config.WithEnv(config.DefaultEnvPrefix),
//	)
//	if err != nil {
//	    return err
//	}
//	profile, err := l.Load(ctx)
package config

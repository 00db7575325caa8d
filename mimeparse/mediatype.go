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


package mimeparse

import "strings"

// cutset is the set of characters trimmed around tokens: space, tab, newline,
// carriage return, NUL and vertical tab.
const cutset = " \t\n\r\x00\x0b"

// Param is a single media type parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of media type parameters.
// Keys are case-sensitive and unique within the list.
type Params []Param

// Get returns the value stored for key.
func (p Params) Get(key string) (string, bool) {
	for _, param := range p {
		if param.Key == key {
			return param.Value, true
		}
	}
	return "", false
}

// Set stores value under key. An existing key keeps its position and has its
// value replaced; a new key is appended.
func (p *Params) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Key: key, Value: value})
}

// MediaType is a parsed "type/subtype;key=value" string.
type MediaType struct {
	Type    string
	Subtype string
	Params  Params
}

// Param returns the value of the parameter named key.
func (m MediaType) Param(key string) (string, bool) {
	return m.Params.Get(key)
}

// Quality returns the q parameter as a float. A missing or invalid q value
// reads as 1, the same default [ParseMediaRange] applies.
func (m MediaType) Quality() float64 {
	if q, ok := parseQuality(m.Params.Get("q")); ok {
		return q
	}
	return 1
}

// String renders the media type with its parameters in order.
func (m MediaType) String() string {
	var b strings.Builder
	b.WriteString(m.Type)
	b.WriteByte('/')
	b.WriteString(m.Subtype)
	for _, p := range m.Params {
		b.WriteByte(';')
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// ParseMediaType carves a media type string into type, subtype and
// parameters.
//
// Example:
//
//	mt, _ := mimeparse.ParseMediaType("application/xhtml;q=0.5")
//	// mt.Type == "application", mt.Subtype == "xhtml"
//	// mt.Params == Params{{Key: "q", Value: "0.5"}}
//
// A lone "*", as sent by Java's URLConnection, is read as "*/*". Parameter
// segments without "=" are skipped.
//
// Errors:
//   - [*MalformedMediaTypeError] if there is no "/" or the type or subtype is empty
func ParseMediaType(s string) (MediaType, error) {
	parts := strings.Split(s, ";")

	var params Params
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		params.Set(strings.Trim(key, cutset), strings.Trim(value, cutset))
	}

	full := strings.Trim(parts[0], cutset)
	if full == "*" {
		full = "*/*"
	}

	pieces := strings.Split(full, "/")
	if len(pieces) < 2 {
		return MediaType{}, malformed(s)
	}

	typ := strings.Trim(pieces[0], cutset)
	subtype := strings.Trim(pieces[1], cutset)
	if typ == "" || subtype == "" {
		return MediaType{}, malformed(s)
	}

	return MediaType{
		Type:    typ,
		Subtype: subtype,
		Params:  params,
	}, nil
}

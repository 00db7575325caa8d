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


// Package problem turns content negotiation failures into HTTP error
// responses.
//
// It does not write responses itself. A [Formatter] converts an error into a
// [Response] holding the status code, the Content-Type and a body value that
// the caller serializes:
//
//	mimeType, err := problem.Negotiate(supported, r.Header.Get("Accept"))
//	if err != nil {
//		resp := problem.NewRFC9457("https://kateglo.example/problems").Format(r.URL.Path, err)
//		w.Header().Set("Content-Type", resp.ContentType)
//		w.WriteHeader(resp.Status)
//		json.NewEncoder(w).Encode(resp.Body)
//		return
//	}
//
// A malformed Accept header maps to 400 Bad Request and an unsatisfiable one
// to 406 Not Acceptable. Other errors can opt in through the [ErrorType],
// [ErrorCode] and [ErrorDetails] interfaces and default to 500.
package problem

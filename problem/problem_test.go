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


package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnomeria/kateglo/mimeparse"
)

func TestNegotiate(t *testing.T) {
	t.Parallel()

	t.Run("match", func(t *testing.T) {
		t.Parallel()

		got, err := Negotiate([]string{"application/xbel+xml", "text/xml"}, "text/*;q=0.5,*/*;q=0.1")
		require.NoError(t, err)
		assert.Equal(t, "text/xml", got)
	})

	t.Run("not acceptable", func(t *testing.T) {
		t.Parallel()

		got, err := Negotiate([]string{"image/png"}, "text/html")
		require.Error(t, err)
		assert.Empty(t, got)
		assert.ErrorIs(t, err, mimeparse.ErrNotAcceptable)
		assert.Equal(t, http.StatusNotAcceptable, Status(err))

		var notAcceptable *NotAcceptableError
		require.ErrorAs(t, err, &notAcceptable)
		assert.Equal(t, []string{"image/png"}, notAcceptable.Supported)
		assert.Equal(t, "text/html", notAcceptable.Accept)
		assert.Equal(t, `none of [image/png] is acceptable for "text/html"`, err.Error())
	})

	t.Run("malformed header", func(t *testing.T) {
		t.Parallel()

		_, err := Negotiate([]string{"image/png"}, "textonly")
		require.Error(t, err)
		assert.ErrorIs(t, err, mimeparse.ErrMalformedMediaType)
		assert.Equal(t, http.StatusBadRequest, Status(err))
	})
}

func TestStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
	assert.Equal(t, http.StatusNotAcceptable, Status(mimeparse.ErrNotAcceptable))
	assert.Equal(t, http.StatusBadRequest, Status(&mimeparse.MalformedMediaTypeError{Input: "x"}))
}

func TestRFC9457_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		formatter  *RFC9457
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "plain error",
			formatter:  NewRFC9457("https://kateglo.example/problems"),
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "about:blank",
		},
		{
			name:       "malformed media type",
			formatter:  NewRFC9457("https://kateglo.example/problems"),
			err:        &mimeparse.MalformedMediaTypeError{Input: "textonly"},
			wantStatus: http.StatusBadRequest,
			wantType:   "https://kateglo.example/problems/malformed_media_type",
			wantCode:   "malformed_media_type",
		},
		{
			name:       "not acceptable without base url",
			formatter:  NewRFC9457(""),
			err:        NotAcceptable([]string{"image/png"}, "text/html"),
			wantStatus: http.StatusNotAcceptable,
			wantType:   "not_acceptable",
			wantCode:   "not_acceptable",
		},
		{
			name: "custom resolvers",
			formatter: &RFC9457{
				TypeResolver:   func(error) string { return "https://kateglo.example/problems/custom" },
				StatusResolver: func(error) int { return http.StatusTeapot },
			},
			err:        errors.New("boom"),
			wantStatus: http.StatusTeapot,
			wantType:   "https://kateglo.example/problems/custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := tt.formatter.Format("/entries", tt.err)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "application/problem+json; charset=utf-8", resp.ContentType)

			p, ok := resp.Body.(ProblemDetail)
			require.True(t, ok, "body should be ProblemDetail")
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, http.StatusText(tt.wantStatus), p.Title)
			assert.Equal(t, tt.err.Error(), p.Detail)
			assert.Equal(t, "/entries", p.Instance)
			assert.NotEmpty(t, p.Extensions["error_id"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, p.Extensions["code"])
			} else {
				assert.NotContains(t, p.Extensions, "code")
			}
		})
	}
}

func TestRFC9457_MarshalJSON(t *testing.T) {
	t.Parallel()

	f := &RFC9457{
		BaseURL:          "https://kateglo.example/problems",
		ErrorIDGenerator: func() string { return "err-fixed" },
	}
	resp := f.Format("/entries", NotAcceptable([]string{"application/json"}, "image/*"))

	data, err := json.Marshal(resp.Body)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "https://kateglo.example/problems/not_acceptable", got["type"])
	assert.Equal(t, "Not Acceptable", got["title"])
	assert.InDelta(t, 406, got["status"], 0)
	assert.Equal(t, "/entries", got["instance"])
	assert.Equal(t, "err-fixed", got["error_id"])
	assert.Equal(t, "not_acceptable", got["code"])
	assert.Equal(t, map[string]any{
		"supported": []any{"application/json"},
		"accept":    "image/*",
	}, got["errors"])
}

func TestProblemDetail_ReservedExtensions(t *testing.T) {
	t.Parallel()

	p := ProblemDetail{
		Type:       "about:blank",
		Title:      "Bad Request",
		Status:     400,
		Extensions: map[string]any{"status": 999, "title": "hijack", "extra": true},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.InDelta(t, 400, got["status"], 0)
	assert.Equal(t, "Bad Request", got["title"])
	assert.Equal(t, true, got["extra"])
	assert.NotContains(t, got, "detail")
}

func TestRFC9457_DisableErrorID(t *testing.T) {
	t.Parallel()

	f := &RFC9457{DisableErrorID: true}
	p, ok := f.Format("", errors.New("boom")).Body.(ProblemDetail)
	require.True(t, ok)
	assert.NotContains(t, p.Extensions, "error_id")
	assert.Empty(t, p.Instance)
}

func TestSimple_Format(t *testing.T) {
	t.Parallel()

	resp := NewSimple().Format("/ignored", &mimeparse.MalformedMediaTypeError{Input: "textonly"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "application/json; charset=utf-8", resp.ContentType)
	assert.Equal(t, map[string]any{
		"error": `malformed media type "textonly"`,
		"code":  "malformed_media_type",
	}, resp.Body)

	resp = (&Simple{StatusResolver: func(error) int { return http.StatusConflict }}).
		Format("", NotAcceptable([]string{"a/b"}, "c/d"))
	assert.Equal(t, http.StatusConflict, resp.Status)
	body, ok := resp.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "not_acceptable", body["code"])
	assert.Contains(t, body, "details")
}

func TestNew(t *testing.T) {
	t.Parallel()

	f, err := New(KindRFC9457, "https://kateglo.example/problems")
	require.NoError(t, err)
	assert.IsType(t, &RFC9457{}, f)

	f, err = New("", "")
	require.NoError(t, err)
	assert.IsType(t, &RFC9457{}, f)

	f, err = New(KindSimple, "")
	require.NoError(t, err)
	assert.IsType(t, &Simple{}, f)

	_, err = New("xml", "")
	require.ErrorIs(t, err, ErrUnknownKind)
}

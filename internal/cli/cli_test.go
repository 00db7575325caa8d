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


package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gnomeria/kateglo/internal/cli"
	"github.com/gnomeria/kateglo/internal/config"
	"github.com/gnomeria/kateglo/internal/logging"
	"github.com/gnomeria/kateglo/mimeparse"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(args ...string) result {
	var stdout, stderr bytes.Buffer
	cmd := cli.NewCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decode[T any](s string) T {
	var v T
	ExpectWithOffset(1, json.Unmarshal([]byte(s), &v)).To(Succeed())
	return v
}

func exitStatus(err error) int {
	var exitErr *cli.ExitError
	ExpectWithOffset(1, errors.As(err, &exitErr)).To(BeTrue(), "expected *cli.ExitError, got %v", err)
	return exitErr.Status
}

var _ = Describe("mimeparse", func() {
	Describe("match", func() {
		It("prints the best supported type", func() {
			r := run("match", "--accept", "application/xml; q=1", "application/xbel+xml", "application/xml")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("application/xml\n"))
		})

		It("prefers the higher quality among equal fitness", func() {
			r := run("-o", "json", "match", "--accept", "text/*;q=0.5, application/json", "text/html", "application/json")
			Expect(r.err).NotTo(HaveOccurred())

			out := decode[map[string]string](r.stdout)
			Expect(out).To(HaveKeyWithValue("match", "application/json"))
			Expect(out).To(HaveKeyWithValue("accept", "text/*;q=0.5, application/json"))
		})

		It("falls back to */* when no Accept header is given", func() {
			r := run("match", "text/plain", "application/json")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("text/plain\n"))
		})

		It("reports a 406 problem document when nothing is acceptable", func() {
			r := run("-o", "json", "match", "--accept", "text/html", "application/json")
			Expect(exitStatus(r.err)).To(Equal(http.StatusNotAcceptable))
			Expect(errors.Is(r.err, mimeparse.ErrNotAcceptable)).To(BeTrue())

			doc := decode[map[string]any](r.stdout)
			Expect(doc).To(HaveKeyWithValue("status", BeNumerically("==", http.StatusNotAcceptable)))
			Expect(doc).To(HaveKeyWithValue("code", "not_acceptable"))
			Expect(doc).To(HaveKeyWithValue("instance", "mimeparse match"))
			Expect(doc).To(HaveKey("error_id"))
		})

		It("reports a 400 for a malformed Accept header", func() {
			r := run("match", "--accept", "text", "application/json")
			Expect(exitStatus(r.err)).To(Equal(http.StatusBadRequest))
			Expect(errors.Is(r.err, mimeparse.ErrMalformedMediaType)).To(BeTrue())
			Expect(r.stdout).To(BeEmpty())
			Expect(r.stderr).To(ContainSubstring("400 Bad Request"))
		})

		It("needs supported types from somewhere", func() {
			r := run("match", "--accept", "*/*")
			Expect(r.err).To(MatchError(cli.ErrNoSupported))
		})
	})

	Describe("profiles", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(GinkgoT().TempDir(), "negotiation.yaml")
			Expect(os.WriteFile(path, []byte(`
supported:
  - application/json
  - text/html
accept: "text/html;q=0.9, */*;q=0.1"
problem:
  kind: simple
log:
  level: error
  handler: text
`), 0o600)).To(Succeed())
		})

		It("takes supported types and the Accept default from the profile", func() {
			r := run("--config", path, "match")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("text/html\n"))
		})

		It("lets --accept override the profile", func() {
			r := run("--config", path, "match", "--accept", "application/*")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("application/json\n"))
		})

		It("renders failures with the profile's problem format", func() {
			r := run("--config", path, "--format", "json", "match", "--accept", "image/png")
			Expect(exitStatus(r.err)).To(Equal(http.StatusNotAcceptable))

			doc := decode[map[string]any](r.stdout)
			Expect(doc).To(HaveKeyWithValue("code", "not_acceptable"))
			Expect(doc).To(HaveKey("error"))
			Expect(doc).To(HaveKeyWithValue("details", HaveKeyWithValue("accept", "image/png")))
			Expect(doc).NotTo(HaveKey("status"))
		})

		It("validates flag values with the rest of the profile", func() {
			r := run("--config", path, "--format", "xml", "match")
			var cfgErr *config.Error
			Expect(errors.As(r.err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Source).To(Equal("json-schema"))

			r = run("--config", path, "--log-level", "loud", "match")
			Expect(r.err).To(MatchError(logging.ErrInvalidLevel))
		})

		It("rejects a missing profile file", func() {
			r := run("--config", filepath.Join(GinkgoT().TempDir(), "absent.yaml"), "match")
			Expect(r.err).To(MatchError(os.ErrNotExist))
		})
	})

	Describe("flag overrides", func() {
		setenv := func(key, value string) {
			Expect(os.Setenv(key, value)).To(Succeed())
			DeferCleanup(os.Unsetenv, key)
		}

		It("rejects a bad log level from the environment", func() {
			setenv("MIMEPARSE_LOG_LEVEL", "verbose")

			r := run("match", "text/html")
			Expect(r.err).To(MatchError(logging.ErrInvalidLevel))
		})

		It("lets --log-level replace a bad log level from the environment", func() {
			setenv("MIMEPARSE_LOG_LEVEL", "verbose")

			r := run("--log-level", "error", "match", "text/html")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("text/html\n"))
		})

		It("lets --format replace an output format the schema rejects", func() {
			setenv("MIMEPARSE_FORMAT", "xml")

			r := run("match", "text/html")
			var cfgErr *config.Error
			Expect(errors.As(r.err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Source).To(Equal("json-schema"))

			r = run("-o", "json", "match", "text/html")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(decode[map[string]string](r.stdout)).To(HaveKeyWithValue("match", "text/html"))
		})

		It("keeps profile values the flags do not touch", func() {
			setenv("MIMEPARSE_LOG_HANDLER", "json")
			setenv("MIMEPARSE_LOG_LEVEL", "verbose")

			r := run("--log-level", "info", "match", "--accept", "text/*", "text/html")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(decode[map[string]any](r.stderr)).To(HaveKeyWithValue("msg", "negotiated"))
		})
	})

	Describe("logging", func() {
		It("logs a successful negotiation at info level", func() {
			r := run("--log-level", "info", "--log-handler", "json", "match", "--accept", "text/*", "text/html")
			Expect(r.err).NotTo(HaveOccurred())

			entry := decode[map[string]any](r.stderr)
			Expect(entry).To(HaveKeyWithValue("msg", "negotiated"))
			Expect(entry).To(HaveKeyWithValue("match", "text/html"))
			Expect(entry).To(HaveKeyWithValue("service", "mimeparse"))
			Expect(entry).To(HaveKeyWithValue("version", cli.Version))
			Expect(entry).NotTo(HaveKey("source"))
		})

		It("stays quiet at the default level", func() {
			r := run("match", "text/html")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stderr).To(BeEmpty())
		})

		It("adds source locations at debug level", func() {
			r := run("--log-level", "debug", "--log-handler", "json", "match", "text/html")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stderr).To(ContainSubstring(`"source":{`))
		})

		It("reports the build version", func() {
			r := run("--version")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(ContainSubstring(cli.Version))
		})
	})

	Describe("quality", func() {
		It("prints the quality of the most specific range", func() {
			r := run("quality", "text/html", "--accept", "text/*;q=0.3, text/html;q=0.7, */*;q=0.5")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("0.7\n"))
		})

		It("prints 0 when nothing matches", func() {
			r := run("quality", "image/png", "--accept", "text/*")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("0\n"))
		})

		It("includes fitness in JSON output", func() {
			r := run("-o", "json", "quality", "text/html;level=1", "--accept", "text/html;level=1;q=0.4")
			Expect(r.err).NotTo(HaveOccurred())

			out := decode[map[string]any](r.stdout)
			Expect(out).To(HaveKeyWithValue("fitness", BeNumerically("==", 111)))
			Expect(out).To(HaveKeyWithValue("quality", BeNumerically("==", 0.4)))
		})

		It("requires exactly one type", func() {
			r := run("quality", "--accept", "*/*")
			Expect(r.err).To(HaveOccurred())
		})
	})

	Describe("parse", func() {
		It("normalizes q in text output", func() {
			r := run("parse", "text/html;level=1;q=0, application/json", "*")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(Equal("text/html;level=1;q=1\napplication/json;q=1\n*/*;q=1\n"))
		})

		It("keeps parameter order in JSON output", func() {
			r := run("-o", "json", "parse", "application/xhtml;q=0.5;charset=utf-8")
			Expect(r.err).NotTo(HaveOccurred())

			out := decode[[]struct {
				Type    string     `json:"type"`
				Subtype string     `json:"subtype"`
				Params  [][]string `json:"params"`
				Quality float64    `json:"quality"`
			}](r.stdout)
			Expect(out).To(HaveLen(1))
			Expect(out[0].Type).To(Equal("application"))
			Expect(out[0].Subtype).To(Equal("xhtml"))
			Expect(out[0].Params).To(Equal([][]string{{"q", "0.5"}, {"charset", "utf-8"}}))
			Expect(out[0].Quality).To(Equal(0.5))
		})

		It("renders a table", func() {
			r := run("-o", "table", "parse", "text/plain;format=flowed;q=0.2")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(ContainSubstring("Subtype"))
			Expect(r.stdout).To(ContainSubstring("format=flowed"))
			Expect(r.stdout).To(ContainSubstring("0.2"))
		})

		It("rejects a trailing comma", func() {
			r := run("parse", "text/html,")
			Expect(exitStatus(r.err)).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("rank", func() {
		It("lists candidates best first as JSON", func() {
			r := run("-o", "json", "rank", "--accept", "application/json", "text/html", "application/json")
			Expect(r.err).NotTo(HaveOccurred())

			out := decode[[]map[string]any](r.stdout)
			Expect(out).To(HaveLen(2))
			Expect(out[0]).To(HaveKeyWithValue("type", "application/json"))
			Expect(out[0]).To(HaveKeyWithValue("fitness", BeNumerically("==", 110)))
			Expect(out[0]).To(HaveKeyWithValue("acceptable", true))
			Expect(out[1]).To(HaveKeyWithValue("type", "text/html"))
			Expect(out[1]).To(HaveKeyWithValue("fitness", BeNumerically("==", -1)))
			Expect(out[1]).To(HaveKeyWithValue("acceptable", false))
		})

		It("renders a table by default", func() {
			r := run("rank", "--accept", "text/*;q=0.5", "text/html", "image/png")
			Expect(r.err).NotTo(HaveOccurred())
			Expect(r.stdout).To(ContainSubstring("Fitness"))
			Expect(r.stdout).To(MatchRegexp(`text/html\s+│\s+100\s+│\s+0\.5`))
			Expect(r.stdout).To(MatchRegexp(`image/png\s+│\s+-\s+│\s+0`))
		})

		It("fails on a malformed supported type", func() {
			r := run("rank", "--accept", "*/*", "json")
			Expect(exitStatus(r.err)).To(Equal(http.StatusBadRequest))
		})
	})
})

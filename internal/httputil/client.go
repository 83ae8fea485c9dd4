// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil builds the outbound HTTP client shared by the content
// adapters.
package httputil

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"

	"github.com/pdiddy/study-scroller/pkg/types"
)

// DefaultUserAgent is sent when the config does not name one.
const DefaultUserAgent = "study-scroller/0.1"

// NewClient returns an *http.Client that sets the User-Agent header on every
// request and logs requests and responses at debug level. No retry and no
// rate limiting are applied.
func NewClient(cfg types.HTTPConfig, lg *log.Logger) *http.Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	rq := requester.New(
		http.Client{Timeout: cfg.Timeout},
		middleware.Header("User-Agent", ua),
		LoggingRoundTripper(lg),
	)
	return rq.Client()
}

// LoggingRoundTripper logs every client request and its outcome. Response
// bodies are previewed up to trimBodyAt bytes and handed on intact.
func LoggingRoundTripper(lg *log.Logger) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if lg == nil {
				return next.RoundTrip(req)
			}

			lg.Debug("request sent", "method", req.Method, "url", req.URL.String())

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if err != nil {
				lg.Debug("request failed", "url", req.URL.String(), "elapsed", elapsed, "err", err)
				return resp, err
			}

			var preview string
			resp.Body, preview = copyAndTrim(resp.Body)
			lg.Debug("response received",
				"url", req.URL.String(),
				"status", resp.StatusCode,
				"elapsed", elapsed,
				"body", preview,
			)
			return resp, nil
		})
	}
}

const trimBodyAt = 512

func copyAndTrim(r io.ReadCloser) (io.ReadCloser, string) {
	if r == nil {
		return nil, ""
	}

	buf := &bytes.Buffer{}
	n, err := io.CopyN(buf, r, trimBodyAt)
	preview := buf.String()
	if n == trimBodyAt {
		preview += "..."
	}
	preview = strings.NewReplacer("\n", "", "\t", "").Replace(preview)

	if err != nil {
		// Body fully consumed (or broken); replay what we read.
		return &closer{rd: bytes.NewReader(buf.Bytes()), closeFn: r.Close}, preview
	}
	return &closer{rd: io.MultiReader(buf, r), closeFn: r.Close}, preview
}

type closer struct {
	rd      io.Reader
	closeFn func() error
}

func (c *closer) Read(p []byte) (int, error) { return c.rd.Read(p) }
func (c *closer) Close() error               { return c.closeFn() }

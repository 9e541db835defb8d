package proxy

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/tickerpulse/pkg/httputil"
	"github.com/wonny/tickerpulse/pkg/logger"
)

// hop-by-hop headers are connection-scoped and never relayed
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Relay forwards GET and POST requests to the API unmodified and copies
// the upstream response back. It adds no logic of its own.
type Relay struct {
	target *url.URL
	client *httputil.Client
	logger *logger.Logger
}

// NewRelay creates a relay to target (scheme://host[:port])
func NewRelay(target string, client *httputil.Client, log *logger.Logger) (*Relay, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid relay target %q: %w", target, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid relay target %q: scheme and host required", target)
	}

	return &Relay{
		target: u,
		client: client.DisableRetry(),
		logger: log.Component("proxy"),
	}, nil
}

// ServeHTTP implements http.Handler
func (p *Relay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, fmt.Sprintf("Unsupported method (%s)", r.Method), http.StatusNotImplemented)
		return
	}

	upstream := p.upstreamURL(r.URL)
	p.logger.WithFields(map[string]interface{}{
		"method": r.Method,
		"url":    upstream,
	}).Info("Forwarding request")

	var body io.Reader
	if r.Method == http.MethodPost {
		body = r.Body
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, upstream, body)
	if err != nil {
		p.fail(w, err)
		return
	}
	req.ContentLength = r.ContentLength
	copyHeader(req.Header, r.Header)

	resp, err := p.client.Do(req)
	if err != nil {
		p.fail(w, err)
		return
	}
	defer resp.Body.Close()

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		p.logger.WithError(err).Warn("Failed to copy upstream response")
	}
}

func (p *Relay) upstreamURL(in *url.URL) string {
	u := *p.target
	u.Path = strings.TrimRight(p.target.Path, "/") + in.Path
	u.RawPath = ""
	u.RawQuery = in.RawQuery
	return u.String()
}

func (p *Relay) fail(w http.ResponseWriter, err error) {
	p.logger.WithError(err).Error("Failed to forward request")
	http.Error(w, fmt.Sprintf("Error forwarding request: %s", err), http.StatusInternalServerError)
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		dst[k] = append([]string(nil), vv...)
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}

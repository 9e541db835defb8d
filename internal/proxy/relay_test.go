package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tickerpulse/pkg/config"
	"github.com/wonny/tickerpulse/pkg/httputil"
	"github.com/wonny/tickerpulse/pkg/logger"
)

func newTestRelay(t *testing.T, target string) *Relay {
	t.Helper()
	client := httputil.New(config.FetchConfig{Timeout: 5 * time.Second, MaxRetries: 3}, logger.Nop())
	relay, err := NewRelay(target, client, logger.Nop())
	require.NoError(t, err)
	return relay
}

func TestRelay_ForwardsGet(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts", r.URL.Path)
		assert.Equal(t, "refresh=true", r.URL.RawQuery)
		assert.Equal(t, "abc", r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "api")
		w.Write([]byte(`{"success":true,"posts":[]}`))
	}))
	defer upstream.Close()

	proxy := httptest.NewServer(newTestRelay(t, upstream.URL))
	defer proxy.Close()

	req, err := http.NewRequest(http.MethodGet, proxy.URL+"/api/posts?refresh=true", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "abc")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "api", resp.Header.Get("X-Upstream"))
	assert.JSONEq(t, `{"success":true,"posts":[]}`, string(body))
}

func TestRelay_ForwardsPostBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"q":"x"}`, string(data))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	proxy := httptest.NewServer(newTestRelay(t, upstream.URL))
	defer proxy.Close()

	resp, err := http.Post(proxy.URL+"/anything", "application/json", strings.NewReader(`{"q":"x"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRelay_UpstreamStatusIsPreservedWithoutRetry(t *testing.T) {
	var calls int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"boom"}`))
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	newTestRelay(t, upstream.URL).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signals", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, rec.Body.String())
	assert.Equal(t, 1, calls)
}

func TestRelay_UpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	target := upstream.URL
	upstream.Close()

	rec := httptest.NewRecorder()
	newTestRelay(t, target).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error forwarding request:")
}

func TestRelay_UnsupportedMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRelay(t, "http://localhost:5001").ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/posts", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestNewRelay_InvalidTarget(t *testing.T) {
	client := httputil.New(config.FetchConfig{}, logger.Nop())
	for _, target := range []string{"", "localhost:5001", "://bad"} {
		_, err := NewRelay(target, client, logger.Nop())
		assert.Error(t, err, target)
	}
}

func TestUpstreamURL(t *testing.T) {
	relay := newTestRelay(t, "http://api.internal:5001/base/")
	in, err := http.NewRequest(http.MethodGet, "http://proxy/api/posts?refresh=true", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:5001/base/api/posts?refresh=true", relay.upstreamURL(in.URL))
}

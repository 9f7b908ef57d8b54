package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perbu/faqchat/pkg/assistant"
	"github.com/perbu/faqchat/pkg/chat"
	"github.com/perbu/faqchat/pkg/faq"
	"github.com/perbu/faqchat/pkg/generator"
	"github.com/perbu/faqchat/pkg/metrics"
	"github.com/perbu/faqchat/pkg/mock"
)

var testRecords = []faq.Record{
	{Question: "What are your hours?", Keywords: []string{"hours", "open", "time"}, Answer: "We are open 9-5 Mon-Fri."},
	{Question: "How do refunds work?", Keywords: []string{"refund", "money"}, Answer: "Mail billing."},
}

func newTestServer(t *testing.T, gen generator.Generator) *Server {
	t.Helper()
	return newTestServerWithRecords(t, testRecords, gen)
}

func newTestServerWithRecords(t *testing.T, records []faq.Record, gen generator.Generator) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	a := assistant.New(records, gen, assistant.WithMetrics(rec), assistant.WithSupportEmail("help@acme.test"))
	return New(Config{
		Title:         "Acme Support",
		SessionSecret: "test-secret-that-is-long-enough-for-production",
	}, a, chat.NewSessions(), rec, reg, nil)
}

func doRequest(t *testing.T, s *Server, req *http.Request, cookies []*http.Cookie) (*http.Response, string) {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := s.App.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postQuery(t *testing.T, s *Server, query string, cookies []*http.Cookie) *http.Response {
	t.Helper()
	form := url.Values{"query": {query}}
	req, _ := http.NewRequest(http.MethodPost, "/ask", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, _ := doRequest(t, s, req, cookies)
	return resp
}

func TestIndex_ListsFAQsAndWarnsWithoutCredential(t *testing.T) {
	s := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, body := doRequest(t, s, req, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Acme Support")
	assert.Contains(t, body, "Frequently Asked Questions")
	assert.Contains(t, body, "What are your hours?")
	assert.Contains(t, body, "Mail billing.")
	assert.Contains(t, body, "No API key configured")
}

func TestIndex_NoRecordsRendersNoEntries(t *testing.T) {
	s := newTestServerWithRecords(t, nil, nil)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, body := doRequest(t, s, req, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "faq-entry")

	s = newTestServer(t, nil)
	_, body = doRequest(t, s, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, len(testRecords), strings.Count(body, `class="faq-entry"`))
}

func TestIndex_NoWarningWithCredential(t *testing.T) {
	s := newTestServer(t, &mock.Generator{})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	_, body := doRequest(t, s, req, nil)

	assert.NotContains(t, body, "No API key configured")
}

func TestAsk_ShowsHistoryNewestFirst(t *testing.T) {
	gen := &mock.Generator{
		GenerateFn: func(context.Context, string) (string, error) {
			return "Please contact help@acme.test", nil
		},
	}
	s := newTestServer(t, gen)

	resp := postQuery(t, s, "what time do you open", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	resp = postQuery(t, s, "do you ship to Norway", cookies)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	if len(resp.Cookies()) > 0 {
		cookies = resp.Cookies()
	}

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	_, body := doRequest(t, s, req, cookies)

	first := strings.Index(body, "do you ship to Norway")
	second := strings.Index(body, "what time do you open")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second, "newest turn comes first")
	assert.Contains(t, body, "We are open 9-5 Mon-Fri.")
	assert.Contains(t, body, "Please contact help@acme.test")
	assert.Equal(t, 1, gen.Calls)
	assert.Equal(t, 1, s.sessions.Len())
}

func TestAsk_SessionsAreSeparate(t *testing.T) {
	s := newTestServer(t, nil)

	postQuery(t, s, "what time do you open", nil)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	_, body := doRequest(t, s, req, nil)

	assert.NotContains(t, body, "what time do you open")
}

func TestAsk_CompletionFailureShowsErrorOnce(t *testing.T) {
	gen := &mock.Generator{
		GenerateFn: func(context.Context, string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	s := newTestServer(t, gen)

	resp := postQuery(t, s, "what time do you open", nil)
	cookies := resp.Cookies()

	resp = postQuery(t, s, "do you ship to Norway", cookies)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	if len(resp.Cookies()) > 0 {
		cookies = resp.Cookies()
	}

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, body := doRequest(t, s, req, cookies)
	assert.Contains(t, body, "Sorry, I could not answer")
	assert.Contains(t, body, "what time do you open", "earlier turns are kept")
	if len(resp.Cookies()) > 0 {
		cookies = resp.Cookies()
	}

	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	_, body = doRequest(t, s, req, cookies)
	assert.NotContains(t, body, "Sorry, I could not answer")
}

func TestAsk_EmptyQueryIsIgnored(t *testing.T) {
	s := newTestServer(t, nil)

	resp := postQuery(t, s, "   ", nil)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	for _, id := range s.sessions.IDs() {
		assert.Equal(t, 0, s.sessions.Get(id).Len())
	}
}

func TestAPIAsk(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		source chat.Source
	}{
		{"faq match", `{"query": "I want a refund"}`, http.StatusOK, chat.SourceFAQ},
		{"no match without credential", `{"query": "do you ship to Norway"}`, http.StatusOK, chat.SourceUnavailable},
		{"empty query", `{"query": ""}`, http.StatusBadRequest, ""},
		{"invalid json", `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, body := doRequest(t, s, req, nil)

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			var got askResponse
			require.NoError(t, json.Unmarshal([]byte(body), &got))
			assert.Equal(t, tt.source, got.Source)
			assert.NotEmpty(t, got.Answer)
		})
	}
}

func TestAPIAsk_CompletionFailure(t *testing.T) {
	gen := &mock.Generator{
		GenerateFn: func(context.Context, string) (string, error) {
			return "", errors.New("down")
		},
	}
	s := newTestServer(t, gen)

	req, _ := http.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"query": "do you ship to Norway"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := doRequest(t, s, req, nil)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	resp, body := doRequest(t, s, req, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "ok", got["status"])
	assert.Equal(t, float64(2), got["faqs"])
	assert.Equal(t, false, got["fallback"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	postQuery(t, s, "what time do you open", nil)

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	resp, body := doRequest(t, s, req, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `faqchat_queries_total{outcome="faq"} 1`)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, "/nonexistent", nil)
	resp, body := doRequest(t, s, req, nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Back to the assistant")
}

func TestDeriveEncryptionKey(t *testing.T) {
	key := deriveEncryptionKey("secret")

	raw, err := base64.StdEncoding.DecodeString(key)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
	assert.Equal(t, key, deriveEncryptionKey("secret"))
	assert.NotEqual(t, key, deriveEncryptionKey("other"))
}

package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tombee/esbridge/internal/config"
	"github.com/tombee/esbridge/internal/transport"
)

// mockTransport is a mock implementation of transport.Transport for testing.
type mockTransport struct {
	requests    []*transport.Request
	response    *transport.Response
	err         error
	rateLimiter transport.RateLimiter
}

func (m *mockTransport) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockTransport) Name() string {
	return "mock"
}

func (m *mockTransport) SetRateLimiter(limiter transport.RateLimiter) {
	m.rateLimiter = limiter
}

func (m *mockTransport) lastRequest() *transport.Request {
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// recordingReporter captures progress notes and diagnostics for assertions.
type recordingReporter struct {
	progress    []string
	diagnostics map[string]interface{}
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{diagnostics: map[string]interface{}{}}
}

func (r *recordingReporter) Progress(format string, args ...interface{}) {
	r.progress = append(r.progress, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Diagnostic(key string, value interface{}) {
	r.diagnostics[key] = value
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:   "http://es.example.com:9200",
		VerifyTLS: true,
	}
}

func jsonResponse(statusCode int, body string) *transport.Response {
	return &transport.Response{
		StatusCode: statusCode,
		Headers:    map[string][]string{"Content-Type": {"application/json"}},
		Body:       []byte(body),
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Method
		wantErr  bool
	}{
		{"get", "get", MethodGet, false},
		{"GET", "GET", MethodGet, false},
		{"post", "post", MethodPost, false},
		{"put", "PUT", MethodPut, false},
		{"delete", "delete", MethodDelete, false},
		{"head unsupported", "head", "", true},
		{"garbage", "fetch", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := ParseMethod(tt.input)
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, ErrorTypeUnsupportedMethod, err.Type)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.expected, method)
		})
	}
}

func TestIssueUnsupportedMethodMakesNoCall(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{}`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	resp, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/_cluster/health",
		Method:   Method("TRACE"),
	})

	assert.Nil(t, resp)
	require.NotNil(t, callErr)
	assert.Equal(t, ErrorTypeUnsupportedMethod, callErr.Type)
	assert.Empty(t, mock.requests, "unsupported method must not reach the transport")
}

func TestIssueAuthDecision(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		expectAuth bool
	}{
		{"both credentials present", "elastic", "changeme", true},
		{"no credentials", "", "", false},
		{"username only disables auth", "elastic", "", false},
		{"password only disables auth", "", "changeme", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Username = tt.username
			cfg.Password = tt.password

			mock := &mockTransport{response: jsonResponse(200, `{}`)}
			reporter := newRecordingReporter()
			dispatcher := NewDispatcher(cfg, mock, reporter)

			_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
				Endpoint: "/_cluster/health",
				Method:   MethodGet,
			})
			require.Nil(t, callErr)

			req := mock.lastRequest()
			require.NotNil(t, req)

			if tt.expectAuth {
				require.NotNil(t, req.BasicAuth)
				assert.Equal(t, tt.username, req.BasicAuth.Username)
				assert.Equal(t, tt.password, req.BasicAuth.Password)
				assert.Contains(t, reporter.progress, "Using authentication")
			} else {
				assert.Nil(t, req.BasicAuth, "partial credentials must not produce an auth attempt")
				assert.Contains(t, reporter.progress,
					"Not using any authentication, since either the password or username not specified")
			}
		})
	}
}

func TestIssueHeaderComposition(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{}`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/idx/doc/_search",
		Method:   MethodPost,
		Headers: map[string]string{
			"Accept":          "text/html", // overridden by the fixed header
			"X-Custom-Header": "kept",
		},
		Body: map[string]interface{}{"query": map[string]interface{}{}},
	})
	require.Nil(t, callErr)

	req := mock.lastRequest()
	assert.Equal(t, "application/json", req.Headers["Accept"])
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.Equal(t, "kept", req.Headers["X-Custom-Header"])
}

func TestIssueNoContentTypeForGET(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{}`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/_mapping",
		Method:   MethodGet,
	})
	require.Nil(t, callErr)

	req := mock.lastRequest()
	assert.Equal(t, "application/json", req.Headers["Accept"])
	_, hasContentType := req.Headers["Content-Type"]
	assert.False(t, hasContentType)
}

func TestIssueBodyRoundTrip(t *testing.T) {
	// A query decoded from a JSON string must arrive at the transport
	// semantically unchanged.
	queryString := `{"query":{"term":{"user":"kimchy"}},"size":10}`
	var query interface{}
	require.NoError(t, json.Unmarshal([]byte(queryString), &query))

	mock := &mockTransport{response: jsonResponse(200, `{}`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/idx/doc/_search",
		Method:   MethodPost,
		Body:     query,
	})
	require.Nil(t, callErr)

	assert.JSONEq(t, queryString, string(mock.lastRequest().Body))
}

func TestIssueNilBodySendsNoPayload(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{}`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/_cluster/health",
		Method:   MethodGet,
	})
	require.Nil(t, callErr)
	assert.Nil(t, mock.lastRequest().Body)
}

func TestIssueURLComposition(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{}`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint:    "/idx/doc/_search",
		Method:      MethodPost,
		QueryParams: map[string]string{"routing": "shard-1"},
		Body:        map[string]interface{}{},
	})
	require.Nil(t, callErr)

	assert.Equal(t, "http://es.example.com:9200/idx/doc/_search?routing=shard-1", mock.lastRequest().URL)
}

func TestIssueStatusClassificationBoundaries(t *testing.T) {
	// The success window is [200,399] inclusive; verify the edges exactly.
	tests := []struct {
		statusCode  int
		wantSuccess bool
	}{
		{199, false},
		{200, true},
		{299, true},
		{399, true},
		{400, false},
		{500, false},
	}

	for _, tt := range tests {
		mock := &mockTransport{response: jsonResponse(tt.statusCode, `{"acknowledged":true}`)}
		dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

		resp, callErr := dispatcher.Issue(context.Background(), &CallRequest{
			Endpoint: "/_cluster/health",
			Method:   MethodGet,
		})

		if tt.wantSuccess {
			require.Nil(t, callErr, "status %d should classify as success", tt.statusCode)
			assert.Equal(t, tt.statusCode, resp.StatusCode)
		} else {
			require.NotNil(t, callErr, "status %d should classify as server error", tt.statusCode)
			assert.Equal(t, ErrorTypeServer, callErr.Type)
			assert.Equal(t, tt.statusCode, callErr.StatusCode)
		}
	}
}

func TestIssueTransportFailure(t *testing.T) {
	mock := &mockTransport{err: errors.New("dial tcp: connection refused")}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	resp, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/_cluster/health",
		Method:   MethodGet,
	})

	assert.Nil(t, resp)
	require.NotNil(t, callErr)
	assert.Equal(t, ErrorTypeConnection, callErr.Type)
	assert.Contains(t, callErr.Message, "connection refused")
}

func TestIssueParseErrorStripsBraces(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `<html>{oops}</html>`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	resp, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/_cluster/health",
		Method:   MethodGet,
	})

	assert.Nil(t, resp)
	require.NotNil(t, callErr)
	assert.Equal(t, ErrorTypeParse, callErr.Type)
	assert.NotContains(t, callErr.RawText, "{")
	assert.NotContains(t, callErr.RawText, "}")
	assert.Contains(t, callErr.RawText, "oops")
}

func TestIssueServerErrorDetail(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(404, `{"error":"index_not_found","status":404}`)}
	dispatcher := NewDispatcher(testConfig(), mock, newRecordingReporter())

	_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/missing/doc/_search",
		Method:   MethodPost,
		Body:     map[string]interface{}{},
	})

	require.NotNil(t, callErr)
	assert.Equal(t, ErrorTypeServer, callErr.Type)
	assert.Equal(t, 404, callErr.StatusCode)

	// The decoded body is retained as diagnostic data.
	body, ok := callErr.Body.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "index_not_found", body["error"])

	// The rendered detail cannot carry braces into message templating.
	assert.NotContains(t, callErr.Message, "{")
	assert.NotContains(t, callErr.Message, "}")
	assert.Contains(t, callErr.Message, "Status code: 404")
	assert.Contains(t, callErr.Message, "index_not_found")
}

func TestIssueRecordsDiagnostics(t *testing.T) {
	mock := &mockTransport{response: jsonResponse(200, `{"status":"green"}`)}
	reporter := newRecordingReporter()
	dispatcher := NewDispatcher(testConfig(), mock, reporter)

	_, callErr := dispatcher.Issue(context.Background(), &CallRequest{
		Endpoint: "/_cluster/health",
		Method:   MethodGet,
	})
	require.Nil(t, callErr)

	assert.Equal(t, `{"status":"green"}`, reporter.diagnostics["r_text"])
	assert.Equal(t, 200, reporter.diagnostics["r_status_code"])
	assert.NotNil(t, reporter.diagnostics["r_headers"])
}

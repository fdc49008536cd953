package connector

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/tombee/esbridge/internal/config"
	"github.com/tombee/esbridge/internal/transport"
)

// Method is an enumerated HTTP method. Resolving methods through an
// explicit type rejects unknown names at construction time instead of
// at call time.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// supportedMethods are the verbs the dispatcher knows how to issue.
var supportedMethods = map[Method]bool{
	MethodGet:    true,
	MethodPost:   true,
	MethodPut:    true,
	MethodDelete: true,
}

// ParseMethod resolves a method name to a Method, case-insensitively.
// Unknown names are rejected before any request can be built from them.
func ParseMethod(name string) (Method, *Error) {
	method := Method(strings.ToUpper(name))
	if !supportedMethods[method] {
		return "", NewUnsupportedMethodError(name)
	}
	return method, nil
}

// carriesBody reports whether the method sends a request payload.
func (m Method) carriesBody() bool {
	return m == MethodPost || m == MethodPut
}

// CallRequest describes one REST call against the cluster.
type CallRequest struct {
	// Endpoint is the path relative to the base URL, leading slash included
	Endpoint string

	// Method is the HTTP verb
	Method Method

	// Headers are caller-supplied headers; the fixed Accept/Content-Type
	// headers are merged over them
	Headers map[string]string

	// QueryParams are optional URI query parameters
	QueryParams map[string]string

	// Body is the optional JSON payload; nil sends no payload
	Body interface{}
}

// CallResponse is the success outcome of a dispatched call.
type CallResponse struct {
	// StatusCode is the HTTP status code, guaranteed within [200,399]
	StatusCode int

	// Body is the decoded JSON response body
	Body interface{}
}

// Dispatcher builds and issues one HTTP request per call and classifies
// the outcome. Success is the non-nil CallResponse; every failure variant
// is a typed *Error. Exactly one of the pair is non-nil.
type Dispatcher struct {
	cfg       *config.Config
	transport transport.Transport
	reporter  Reporter
	metrics   *MetricsCollector
}

// NewDispatcher creates a dispatcher over the given transport.
// The reporter receives the per-call authentication progress notes and
// raw response diagnostics.
func NewDispatcher(cfg *config.Config, tr transport.Transport, reporter Reporter) *Dispatcher {
	if reporter == nil {
		reporter = NewLogReporter(nil)
	}
	return &Dispatcher{
		cfg:       cfg,
		transport: tr,
		reporter:  reporter,
	}
}

// SetMetrics attaches a metrics collector recording per-call status codes.
func (d *Dispatcher) SetMetrics(metrics *MetricsCollector) {
	d.metrics = metrics
}

// Issue sends one REST call and classifies the outcome.
func (d *Dispatcher) Issue(ctx context.Context, req *CallRequest) (*CallResponse, *Error) {
	// Unknown methods fail before any network I/O.
	if !supportedMethods[req.Method] {
		return nil, NewUnsupportedMethodError(string(req.Method))
	}

	headers := d.buildHeaders(req)

	var body []byte
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, NewValidationError("Unable to encode request body as JSON", err)
		}
		body = encoded
	}

	// Authentication is decided once per call from the config snapshot:
	// both credentials present enables it, anything else sends the call
	// unauthenticated.
	var basicAuth *transport.BasicAuth
	if d.cfg.AuthEnabled() {
		d.reporter.Progress("Using authentication")
		basicAuth = &transport.BasicAuth{
			Username: d.cfg.Username,
			Password: d.cfg.Password,
		}
	} else {
		d.reporter.Progress("Not using any authentication, since either the password or username not specified")
	}

	resp, err := d.transport.Execute(ctx, &transport.Request{
		Method:    string(req.Method),
		URL:       d.buildURL(req),
		Headers:   headers,
		BasicAuth: basicAuth,
		Body:      body,
	})
	if err != nil {
		return nil, NewConnectionError(err)
	}

	// Raw response diagnostics are attached to the invocation, never to
	// control flow.
	d.reporter.Diagnostic("r_text", string(resp.Body))
	d.reporter.Diagnostic("r_headers", resp.Headers)
	d.reporter.Diagnostic("r_status_code", resp.StatusCode)

	if d.metrics != nil {
		d.metrics.RecordCall(req.Endpoint, resp.StatusCode)
	}

	var parsed interface{}
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, NewParseError(string(resp.Body), err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 399 {
		return &CallResponse{StatusCode: resp.StatusCode, Body: parsed}, nil
	}

	return nil, NewServerError(resp.StatusCode, parsed)
}

// buildHeaders merges caller headers with the fixed content negotiation
// headers. Accept always requests JSON; body-carrying methods also declare
// a JSON payload. The fixed headers win over caller-supplied ones.
func (d *Dispatcher) buildHeaders(req *CallRequest) map[string]string {
	headers := make(map[string]string, len(req.Headers)+2)
	for key, value := range req.Headers {
		headers[key] = value
	}

	headers["Accept"] = "application/json"
	if req.Method.carriesBody() {
		headers["Content-Type"] = "application/json"
	}

	return headers
}

// buildURL joins the base URL, endpoint path, and query parameters.
func (d *Dispatcher) buildURL(req *CallRequest) string {
	fullURL := d.cfg.BaseURL + req.Endpoint

	if len(req.QueryParams) > 0 {
		values := url.Values{}
		for key, value := range req.QueryParams {
			values.Set(key, value)
		}
		fullURL += "?" + values.Encode()
	}

	return fullURL
}

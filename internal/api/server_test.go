package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"filmintel/internal/analysis"
	"filmintel/internal/api"
	"filmintel/internal/logging"
)

type chatStub struct {
	response string
	err      error
}

func (c chatStub) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.response, c.err
}

func (c chatStub) CompleteJSONWithModel(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	return c.response, c.err
}

const reportPayload = `{"story_impact_report":{"title":"Report","logline":"L","top_level_score":{"overall":80},"emotional_arc_data":[],"key_insights":{"summary":"S"},"characters":[],"pitch_ready_copy":{"one_liner":"T"}}}`

func newServer(chat analysis.ChatClient) *api.Server {
	analyzer := analysis.New(chat, nil, nil, analysis.WithLogger(logging.NewNop()))
	return api.NewServer(analyzer,
		api.WithFrontendOrigin("http://localhost:3000"),
		api.WithLogger(logging.NewNop()))
}

func TestHealthz(t *testing.T) {
	server := newServer(chatStub{})
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAnalyzeSynopsisEndpoint(t *testing.T) {
	server := newServer(chatStub{response: reportPayload})
	body := strings.NewReader(`{"story":"An astronaut drifts home."}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze_synopsis", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"Report"`) {
		t.Fatalf("report not returned: %s", rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("response must carry a request id")
	}
}

func TestAnalyzeSynopsisEmptyStory(t *testing.T) {
	server := newServer(chatStub{response: reportPayload})
	req := httptest.NewRequest(http.MethodPost, "/analyze_synopsis", strings.NewReader(`{"story":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeSynopsisMalformedBody(t *testing.T) {
	server := newServer(chatStub{response: reportPayload})
	req := httptest.NewRequest(http.MethodPost, "/analyze_synopsis", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeSynopsisUpstreamFailure(t *testing.T) {
	server := newServer(chatStub{err: errors.New("rate limited")})
	req := httptest.NewRequest(http.MethodPost, "/analyze_synopsis", strings.NewReader(`{"story":"A story."}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "rate limited") {
		t.Fatal("provider error detail must not leak to clients")
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	server := newServer(chatStub{})
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"story":"too short"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "minimum") {
		t.Fatalf("validation detail must be forwarded: %s", rec.Body.String())
	}
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	server := newServer(chatStub{})
	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight must return 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
}

func TestRequestIDIsPreserved(t *testing.T) {
	server := newServer(chatStub{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("supplied request id must be preserved, got %q", got)
	}
}

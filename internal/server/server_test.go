package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/humanizer/internal/db"
	"github.com/jonathan/humanizer/internal/humanizer"
	"github.com/jonathan/humanizer/internal/llm"
	"github.com/jonathan/humanizer/internal/server/ratelimit"
	"github.com/jonathan/humanizer/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	reply string
	err   error
	calls int
}

func (c *stubClient) GenerateContent(_ context.Context, _ string) (string, error) {
	c.calls++
	return c.reply, c.err
}

func (c *stubClient) Model() string { return "stub-model" }
func (c *stubClient) Close() error  { return nil }

type testEnv struct {
	server *Server
	client *stubClient
	store  *db.MemoryStore
}

func newTestEnv(t *testing.T, client *stubClient, rl *ratelimit.Config) *testEnv {
	t.Helper()
	if rl == nil {
		rl = &ratelimit.Config{Enabled: false}
	}
	nop := zerolog.Nop()
	store := db.NewMemoryStore(10)
	svc := humanizer.New(client, humanizer.WithStore(store), humanizer.WithLogger(&nop))
	srv := New(Config{Port: 0, RateLimit: rl}, svc, store)
	t.Cleanup(srv.rateLimiter.Stop)
	return &testEnv{server: srv, client: client, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &stubClient{}, nil)

	rr := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody[map[string]string](t, rr)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "stub-model", body["model"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestHumanize(t *testing.T) {
	env := newTestEnv(t, &stubClient{reply: "I can't do this, but we'll try our best."}, nil)

	rr := env.do(t, http.MethodPost, "/humanize", `{"text":"This task cannot be completed."}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	res := decodeBody[types.HumanizeResult](t, rr)
	assert.Equal(t, "I can't do this, but we'll try our best.", res.HumanizedText)
	assert.Equal(t, 60.0, res.Score.TotalScore)
	assert.Equal(t, 100.0, res.Score.PersonalVoice)
	assert.Equal(t, "stub-model", res.Model)

	raw := decodeBody[map[string]any](t, rr)
	score := raw["humanization_score"].(map[string]any)
	assert.Contains(t, score, "sentence_variety")
	assert.Contains(t, score, "total_score")
}

func TestHumanize_InvalidRequests(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "empty text", body: `{"text":""}`, field: "text"},
		{name: "blank text", body: `{"text":"   "}`, field: "text"},
		{name: "missing text", body: `{}`, field: "text"},
		{name: "malformed JSON", body: `{"text":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{reply: "unused"}
			env := newTestEnv(t, client, nil)

			rr := env.do(t, http.MethodPost, "/humanize", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			body := decodeBody[errorBody](t, rr)
			assert.Equal(t, "invalid_argument", body.Error)
			assert.Equal(t, tt.field, body.Field)
			assert.Equal(t, 0, client.calls, "no generation call for invalid input")
		})
	}
}

func TestHumanize_GenerationUnavailable(t *testing.T) {
	env := newTestEnv(t, &stubClient{err: &llm.APIError{Provider: llm.ProviderGemini, StatusCode: 503, Message: "secret upstream detail"}}, nil)

	rr := env.do(t, http.MethodPost, "/humanize", `{"text":"Hello there."}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	body := decodeBody[errorBody](t, rr)
	assert.Equal(t, "generation_unavailable", body.Error)
	assert.NotContains(t, body.Message, "secret upstream detail")
}

func TestHumanize_EmptyModelOutput(t *testing.T) {
	env := newTestEnv(t, &stubClient{reply: ""}, nil)

	rr := env.do(t, http.MethodPost, "/humanize", `{"text":"Hello there."}`)
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestHumanize_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t, &stubClient{reply: "x"}, nil)
	env.server.maxBodyBytes = 16

	rr := env.do(t, http.MethodPost, "/humanize", `{"text":"`+strings.Repeat("a", 100)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "request_too_large", decodeBody[errorBody](t, rr).Error)
}

func TestHumanize_WrongContentType(t *testing.T) {
	env := newTestEnv(t, &stubClient{reply: "x"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/humanize", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t, &stubClient{reply: "Honestly, I think we've all been there. It's fine."}, nil)

	rr := env.do(t, http.MethodPost, "/generate", `{"topic":"Remote Work","tone":"academic","length":"short"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	res := decodeBody[types.ContentResult](t, rr)
	assert.Equal(t, "Remote Work", res.Topic)
	assert.Equal(t, types.ToneAcademic, res.Tone)
	assert.Equal(t, types.LengthShort, res.Length)
	assert.Equal(t, "remote_work.txt", res.Filename)
	assert.Greater(t, res.WordCount, 0)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "unknown tone", body: `{"topic":"x","tone":"snarky"}`, field: "tone"},
		{name: "unknown length", body: `{"topic":"x","length":"huge"}`, field: "length"},
		{name: "blank topic", body: `{"topic":" "}`, field: "topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{reply: "unused"}
			env := newTestEnv(t, client, nil)

			rr := env.do(t, http.MethodPost, "/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.field, decodeBody[errorBody](t, rr).Field)
			assert.Equal(t, 0, client.calls)
		})
	}
}

func TestScore(t *testing.T) {
	client := &stubClient{}
	env := newTestEnv(t, client, nil)

	rr := env.do(t, http.MethodPost, "/score", `{"text":"I can't do this, but we'll try our best."}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"sentence_variety":0,"contraction_usage":100,"personal_voice":100,"total_score":60}`, rr.Body.String())

	rr = env.do(t, http.MethodPost, "/score", `{"text":""}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total_score":0}`, rr.Body.String())

	assert.Equal(t, 0, client.calls, "scoring never calls the model")
}

func TestResults(t *testing.T) {
	env := newTestEnv(t, &stubClient{reply: "It's a sunny day, and I'm outside."}, nil)

	rr := env.do(t, http.MethodPost, "/generate", `{"topic":"Sunny Days"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	generated := decodeBody[types.ContentResult](t, rr)

	rr = env.do(t, http.MethodPost, "/humanize", `{"text":"The weather is pleasant."}`)
	require.Equal(t, http.StatusOK, rr.Code)
	humanized := decodeBody[types.HumanizeResult](t, rr)

	t.Run("list", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/results?limit=10", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Results []db.ResultSummary `json:"results"`
			Count   int                `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Equal(t, 2, body.Count)
		assert.Equal(t, humanized.ID, body.Results[0].ID)
		assert.Equal(t, generated.ID, body.Results[1].ID)
	})

	t.Run("get", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/results/"+generated.ID.String(), "")
		require.Equal(t, http.StatusOK, rr.Code)
		res := decodeBody[db.Result](t, rr)
		assert.Equal(t, db.KindGenerate, res.Kind)
		assert.Equal(t, "Sunny Days", res.Topic)
	})

	t.Run("download generated", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/results/"+generated.ID.String()+"/download", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename=sunny_days.txt`, rr.Header().Get("Content-Disposition"))
		assert.Equal(t, "It's a sunny day, and I'm outside.", rr.Body.String())
	})

	t.Run("download humanized", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/results/"+humanized.ID.String()+"/download", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, `attachment; filename=humanized_text.txt`, rr.Header().Get("Content-Disposition"))
	})

	t.Run("not found", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/results/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "not_found", decodeBody[errorBody](t, rr).Error)
	})

	t.Run("bad id", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/results/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/results?limit=abc", "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "limit", decodeBody[errorBody](t, rr).Field)
	})
}

func TestResults_EmptyList(t *testing.T) {
	env := newTestEnv(t, &stubClient{}, nil)

	rr := env.do(t, http.MethodGet, "/results", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"results":[],"count":0}`, rr.Body.String())
}

func TestRateLimit_GenerationEndpoints(t *testing.T) {
	rl := &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(1, time.Hour, 1),
	}
	env := newTestEnv(t, &stubClient{reply: "Sure, I'll help."}, rl)

	rr := env.do(t, http.MethodPost, "/humanize", `{"text":"Help."}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))

	rr = env.do(t, http.MethodPost, "/humanize", `{"text":"Help."}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limit_exceeded", decodeBody[map[string]any](t, rr)["error"])

	rr = env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code, "health is never limited")
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t, &stubClient{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/humanize", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, &stubClient{}, nil)

	rr := env.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", decodeBody[errorBody](t, rr).Error)

	rr = env.do(t, http.MethodGet, "/humanize", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	env := newTestEnv(t, &stubClient{}, nil)
	env.server.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "validation", err: &types.ValidationError{Field: "text", Message: "must not be empty"}, expected: http.StatusBadRequest},
		{name: "not found", err: &ErrNotFound{Resource: "result", ID: "x"}, expected: http.StatusNotFound},
		{name: "too large", err: &ErrRequestTooLarge{Limit: 1}, expected: http.StatusRequestEntityTooLarge},
		{name: "generation", err: &humanizer.GenerationError{Op: "humanize", Cause: errors.New("x")}, expected: http.StatusBadGateway},
		{name: "unknown", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestNewErrorBody_HidesInternalDetails(t *testing.T) {
	body := newErrorBody(http.StatusInternalServerError, errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal_error", body.Error)
	assert.Equal(t, "internal server error", body.Message)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(newErrorBody(http.StatusBadRequest, &types.ValidationError{Field: "tone", Message: "bad"})))
	assert.JSONEq(t, `{"error":"invalid_argument","message":"validation error in tone: bad","field":"tone"}`, buf.String())
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestRecovery_ReturnsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q is not JSON: %v", w.Body.String(), err)
	}
	if body["status"] != "error" || body["code"] != float64(500) {
		t.Errorf("body = %v", body)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://pos.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
		{"allowed origin", http.MethodGet, "https://pos.example.com", http.StatusOK, "https://pos.example.com"},
		{"disallowed origin", http.MethodGet, "https://evil.example.com", http.StatusForbidden, ""},
		{"preflight", http.MethodOptions, "https://pos.example.com", http.StatusNoContent, "https://pos.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
		})
	}
}

func TestCORS_EmptyListAllowsAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("got %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
}

type recordingAudit struct {
	mu      sync.Mutex
	entries [][3]string
}

func (r *recordingAudit) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, [3]string{userID, action, resource})
}

func TestAuditRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := &recordingAudit{}
	r := gin.New()
	bind := func(c *gin.Context) {
		if c.GetHeader("X-User") != "" {
			id := Identity{Subject: c.GetHeader("X-User")}
			c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		}
		c.Next()
	}
	r.Use(bind, AuditRequests(logger, map[string]bool{"/api/auth/login": true}))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/api/auth/me", ok)
	r.POST("/api/auth/login", ok)

	send := func(method, path, user string) {
		req := httptest.NewRequest(method, path, nil)
		if user != "" {
			req.Header.Set("X-User", user)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	send(http.MethodGet, "/api/auth/me", "user-1")
	send(http.MethodGet, "/api/auth/me", "")
	send(http.MethodPost, "/api/auth/login", "user-1")
	send(http.MethodGet, "/unknown", "user-1")

	if len(logger.entries) != 1 {
		t.Fatalf("entries = %v, want 1", logger.entries)
	}
	if got, want := logger.entries[0], [3]string{"user-1", "get", "auth.me"}; got != want {
		t.Errorf("entry = %v, want %v", got, want)
	}
}

func TestTracing_RecordsSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	r := gin.New()
	r.Use(Tracing("pos-app", tp), SpanIdentity())
	r.GET("/api/auth/me", func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), Identity{Subject: "user-1"}))
		c.Status(http.StatusTeapot)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if name := spans[0].Name(); !strings.Contains(name, "/api/auth/me") {
		t.Errorf("span name = %q, want the route", name)
	}
	if kind := spans[0].SpanKind(); kind != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", kind)
	}
	var status int64
	var subject string
	for _, kv := range spans[0].Attributes() {
		switch kv.Key {
		case "http.response.status_code", "http.status_code":
			status = kv.Value.AsInt64()
		case "enduser.id":
			subject = kv.Value.AsString()
		}
	}
	if status != http.StatusTeapot {
		t.Errorf("status attribute = %d, want %d: %v", status, http.StatusTeapot, spans[0].Attributes())
	}
	if subject != "user-1" {
		t.Errorf("enduser.id = %q, want user-1", subject)
	}
}

func TestSpanIdentity_AnonymousLeavesNoSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	r := gin.New()
	r.Use(Tracing("pos-app", tp), SpanIdentity())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "enduser.id" {
			t.Errorf("anonymous request tagged with enduser.id = %q", kv.Value.AsString())
		}
	}
}

func TestTracing_NilTracer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Tracing("pos-app", nil), SpanIdentity())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

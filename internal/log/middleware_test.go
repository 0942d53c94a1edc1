package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareInjectsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Component: ComponentHTTP, Handler: slog.NewTextHandler(&buf, nil)})

	var sawComponent string
	handler := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string {
		return "req_test123"
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := FromContext(r.Context())
		sawComponent = l.Component()
		l.InfoContext(r.Context(), "handled")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if sawComponent != ComponentHTTP {
		t.Fatalf("expected component %q from context, got %q", ComponentHTTP, sawComponent)
	}

	out := buf.String()
	if !strings.Contains(out, FieldRequestID+"=req_test123") {
		t.Fatalf("log line missing request id: %s", out)
	}
	if !strings.Contains(out, FieldComponent+"="+ComponentHTTP) {
		t.Fatalf("log line missing component: %s", out)
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	l := FromContext(context.Background())
	if l == nil {
		t.Fatal("expected a fallback logger")
	}
	if l.Component() != "unknown" {
		t.Fatalf("expected unknown component, got %q", l.Component())
	}
}

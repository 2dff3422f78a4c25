package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("logs status and exposes a request scoped logger", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		var sawLogger bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		})

		handler := RequestLogger(base)(next)
		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/month", nil))
			if rec.Code != http.StatusTeapot {
				t.Fatalf("expected 418, got %d", rec.Code)
			}
		}
		if !sawLogger {
			t.Fatal("expected logger in request context")
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected two log lines, got %d: %s", len(lines), buf.String())
		}
		for i, line := range lines {
			var entry map[string]any
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("invalid log line %q: %v", line, err)
			}
			if entry["msg"] != "request completed" {
				t.Fatalf("unexpected message %v", entry["msg"])
			}
			if entry["status"] != float64(http.StatusTeapot) || entry["bytes"] != float64(len("short and stout")) {
				t.Fatalf("unexpected status or bytes in %v", entry)
			}
			if entry["request_id"] != float64(i+1) {
				t.Fatalf("expected request_id %d, got %v", i+1, entry["request_id"])
			}
			if entry["path"] != "/views/month" {
				t.Fatalf("unexpected path %v", entry["path"])
			}
		}
	})
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != statusMessage(http.StatusInternalServerError) {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if !strings.Contains(buf.String(), "handler panicked") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router := NewRouter(RouterConfig{Middleware: []func(http.Handler) http.Handler{tag("outer"), nil, tag("inner")}})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Join(order, ",") != "outer,inner" {
		t.Fatalf("unexpected middleware order %v", order)
	}
}

func TestHandlerLogger(t *testing.T) {
	t.Parallel()

	t.Run("tags the routed event id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		ctx := ContextWithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
		ctx = ContextWithEventID(ctx, "standup")

		handlerLogger(ctx, nil, "EventHandler", "Move", "warnings", 1).Info("moved")

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", buf.String(), err)
		}
		for key, want := range map[string]any{
			"handler":   "EventHandler",
			"operation": "Move",
			"event_id":  "standup",
			"warnings":  float64(1),
		} {
			if entry[key] != want {
				t.Fatalf("expected %s=%v, got %v", key, want, entry[key])
			}
		}
	})

	t.Run("falls back to the handler logger without an event", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fallback := slog.New(slog.NewJSONHandler(&buf, nil))

		handlerLogger(context.Background(), fallback, "ViewHandler", "").Info("served")

		out := buf.String()
		if !strings.Contains(out, `"handler":"ViewHandler"`) {
			t.Fatalf("expected handler attribute, got %s", out)
		}
		if strings.Contains(out, "event_id") || strings.Contains(out, "operation") {
			t.Fatalf("expected no event_id or operation, got %s", out)
		}
	})
}

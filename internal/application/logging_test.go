package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/calendar-core/internal/logging"
	"github.com/example/calendar-core/internal/store"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLogger_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	var baseBuf, ctxBuf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&baseBuf, nil))
	ctx := logging.ContextWithLogger(context.Background(), slog.New(slog.NewTextHandler(&ctxBuf, nil)))

	serviceLogger(ctx, base, "EventService", "CreateEvent", "event_id", "evt-1").Info("hello")

	if baseBuf.Len() != 0 {
		t.Fatalf("expected base logger to stay silent, got %q", baseBuf.String())
	}
	out := ctxBuf.String()
	for _, want := range []string{"service=EventService", "operation=CreateEvent", "event_id=evt-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: ErrNotFound, want: "not_found"},
		{err: fmt.Errorf("wrap: %w", ErrAlreadyExists), want: "already_exists"},
		{err: &ValidationError{FieldErrors: map[string]string{"title": "title is required"}}, want: "validation"},
		{err: store.ErrNotFound, want: "not_found"},
		{err: fmt.Errorf("replace: %w", store.ErrDuplicate), want: "already_exists"},
		{err: errors.New("boom"), want: "unexpected"},
	}

	for _, tc := range tests {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

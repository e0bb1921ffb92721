package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestFields(t *testing.T) {
	err := errors.New("boom")
	cases := []struct {
		f   Field
		key string
		val interface{}
	}{
		{String("name", "page-1"), "name", "page-1"},
		{Int("page", 3), "page", 3},
		{Int64("bytes", 146), "bytes", int64(146)},
		{Float64("dpi", 72), "dpi", 72.0},
		{Error("err", err), "err", err},
	}
	for _, tc := range cases {
		if tc.f.Key() != tc.key || tc.f.Value() != tc.val {
			t.Fatalf("field %s = %v, want %s = %v", tc.f.Key(), tc.f.Value(), tc.key, tc.val)
		}
	}
}

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := NewSlogLogger(slog.New(h)).With(String("input", "doc.pdf"))

	log.Debug("hidden", Int("page", 1))
	log.Info("encoded", Int("page", 2), Int64("bytes", 146))
	log.Error("failed", Error("err", errors.New("boom")))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry logged at info level:\n%s", out)
	}
	for _, want := range []string{"msg=encoded", "input=doc.pdf", "page=2", "bytes=146", "level=ERROR", "err=boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l = l.With(String("k", "v"))
	l.Info("ignored")
	if _, ok := l.(NopLogger); !ok {
		t.Fatalf("With on NopLogger returned %T", l)
	}
}

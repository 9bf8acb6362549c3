package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	ctx := WithRequestID(context.Background(), "abc123")

	err := errors.New("boom")
	Time(ctx, "geocode.Resolve")(&err)

	out := buf.String()
	for _, want := range []string{"req_id=abc123", "op=geocode.Resolve", "err=boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %q", out, want)
		}
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID = %q, want empty", got)
	}
}

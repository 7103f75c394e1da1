package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xray"
)

func TestSlogLogger_LogsJSONWithoutTraceContext(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewWithWriter(buf, slog.LevelDebug)

	l.Info(context.Background(), "order created", "order_number", "ORD-000001")

	output := buf.String()
	if !strings.Contains(output, "\"msg\":\"order created\"") {
		t.Fatalf("expected message in output: %s", output)
	}
	if strings.Contains(output, "trace_id") {
		t.Fatalf("did not expect trace_id without segment: %s", output)
	}
}

func TestSlogLogger_LogsWithTraceIDWhenSegmentExists(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewWithWriter(buf, slog.LevelDebug)

	ctx, seg := xray.BeginSegment(context.Background(), "test-segment")
	defer seg.Close(nil)

	l.Warn(ctx, "no push destinations registered, skipping")

	output := buf.String()
	if !strings.Contains(output, "trace_id") {
		t.Fatalf("expected trace_id in output: %s", output)
	}
}

func TestSlogLogger_WithAddsServiceField(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewWithWriter(buf, slog.LevelInfo).With("service", "notifier")

	l.Debug(context.Background(), "hidden")
	l.Error(context.Background(), "push delivery failed")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Fatalf("debug record should be filtered at info level: %s", output)
	}
	if !strings.Contains(output, "\"service\":\"notifier\"") {
		t.Fatalf("expected service field: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseLevel(t *testing.T) {
	g := NewWithT(t)
	g.Expect(ParseLevel("DEBUG")).To(Equal(slog.LevelDebug))
	g.Expect(ParseLevel("warn")).To(Equal(slog.LevelWarn))
	g.Expect(ParseLevel("error")).To(Equal(slog.LevelError))
	g.Expect(ParseLevel("verbose")).To(Equal(slog.LevelInfo))
}

func TestNewWritesJSONToFileWithContextIDs(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := New(Config{Level: "info", Format: "json", Output: "file", FilePath: path, MaxSize: 1})
	g.Expect(err).NotTo(HaveOccurred())

	ctx := ContextWithIDs(context.Background(), "req-1", "trace-1", "")
	Attach(ctx, l).Info("order placed", "order_id", "o-1")
	l.Debug("dropped")

	raw, err := os.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	g.Expect(lines).To(HaveLen(1))

	var entry map[string]any
	g.Expect(json.Unmarshal([]byte(lines[0]), &entry)).To(Succeed())
	g.Expect(entry).To(HaveKeyWithValue("msg", "order placed"))
	g.Expect(entry).To(HaveKeyWithValue("request_id", "req-1"))
	g.Expect(entry).To(HaveKeyWithValue("trace_id", "trace-1"))
	g.Expect(entry).NotTo(HaveKey("span_id"))
}

func TestContextAccessors(t *testing.T) {
	g := NewWithT(t)
	ctx := ContextWithIDs(context.Background(), "r", "t", "s")
	g.Expect(RequestID(ctx)).To(Equal("r"))
	g.Expect(TraceID(ctx)).To(Equal("t"))
	g.Expect(RequestID(context.Background())).To(BeEmpty())
}

package observability_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"concierge/internal/adapters/observability"
)

func TestNewLogger_Level(t *testing.T) {
	if got := observability.NewLogger("prod", "warn").GetLevel(); got != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", got)
	}
	if got := observability.NewLogger("dev", "bogus").GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info fallback", got)
	}
}

func TestNewLoggerTo_DevWritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	lg := observability.NewLoggerTo(&buf, "dev", "info")
	lg.Info().Str("slice", "weather").Msg("cycle done")

	line := buf.String()
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Fatalf("dev output should be console text, got JSON: %s", line)
	}
	if !strings.Contains(line, "cycle done") || !strings.Contains(line, "slice=weather") {
		t.Fatalf("unexpected console line: %q", line)
	}
}

func TestNewLoggerTo_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	lg := observability.NewLoggerTo(&buf, "prod", "info")
	lg.Info().Msg("cycle done")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("prod output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["message"] != "cycle done" || rec["service"] != "concierge" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

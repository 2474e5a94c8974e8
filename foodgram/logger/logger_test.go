package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormatsTypeAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandlerWithWriter("Foodgram", slog.LevelDebug, &buf, false))

	log.Info("Recipe created", slog.String("type", "db"), slog.Int64("recipe_id", 4))

	got := buf.String()
	for _, want := range []string{"[Foodgram]", "[INFO]", "[DB]", "Recipe created", "recipe_id=4"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
	if strings.Contains(got, "type=") {
		t.Errorf("internal attr leaked into output: %q", got)
	}
}

func TestHandlerErrorDetails(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandlerWithWriter("Foodgram", slog.LevelInfo, &buf, false))

	log.Error("Shopping list failed",
		slog.String("type", "error"),
		slog.String("error_location", "shopping.go:10"),
		slog.Any("error", errors.New("boom")),
	)

	got := buf.String()
	if !strings.Contains(got, "[ERR] Shopping list failed (shopping.go:10): boom") {
		t.Errorf("unexpected error line %q", got)
	}
}

func TestHandlerLevelAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandlerWithWriter("Foodgram", slog.LevelWarn, &buf, false))

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info record should be filtered, got %q", buf.String())
	}

	log.WithGroup("req").With(slog.String("id", "abc")).Warn("slow", slog.String("status", "429"))
	got := buf.String()
	if !strings.Contains(got, "req.id=abc") || !strings.Contains(got, "[Status: 429]") {
		t.Errorf("unexpected grouped output %q", got)
	}
}

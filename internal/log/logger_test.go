package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelDebug,
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	return logger, &buf
}

func TestLoggerStampsComponent(t *testing.T) {
	logger, buf := newBufferLogger(ComponentMaterializer)

	logger.Info("run complete", "materialized", 3)

	out := buf.String()
	if !strings.Contains(out, FieldComponent+"="+ComponentMaterializer) {
		t.Errorf("output %q missing component attribute", out)
	}
	if !strings.Contains(out, "materialized=3") {
		t.Errorf("output %q missing caller attribute", out)
	}
}

func TestWithComponent(t *testing.T) {
	logger, buf := newBufferLogger(ComponentApp)
	httpLogger := logger.WithComponent(ComponentHTTP)

	if httpLogger.Component() != ComponentHTTP {
		t.Errorf("Component() = %q, want %q", httpLogger.Component(), ComponentHTTP)
	}

	httpLogger.Warn("slow request")
	if out := buf.String(); !strings.Contains(out, FieldComponent+"="+ComponentHTTP) {
		t.Errorf("output %q missing derived component", out)
	}
}

func TestLoggerLevels(t *testing.T) {
	logger, buf := newBufferLogger(ComponentApp)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	out := buf.String()
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		if !strings.Contains(out, "level="+level) {
			t.Errorf("output missing %s record", level)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != slog.LevelInfo {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Component != ComponentApp {
		t.Errorf("Component = %q, want %q", cfg.Component, ComponentApp)
	}
}

package logger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	pcontext "github.com/c3i/c3i/pkg/context"
	"github.com/c3i/c3i/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestCreateLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantError bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"error", false, false, true},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.CreateLoggerWithOutput(tt.level, &buf)

			log.Debug("debug message")
			log.Info("info message")
			log.Error("error message")

			output := buf.String()
			if got := strings.Contains(output, "debug message"); got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(output, "info message"); got != tt.wantInfo {
				t.Errorf("info output = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(output, "error message"); got != tt.wantError {
				t.Errorf("error output = %v, want %v", got, tt.wantError)
			}
		})
	}
}

func TestLogger_WithConfiguration(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.WithConfiguration("feature").Info("rebuilding")

	output := buf.String()
	if !strings.Contains(output, "[feature] rebuilding") {
		t.Errorf("expected configuration prefix in output, got %q", output)
	}
}

func TestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Success("build completed")

	if !strings.Contains(buf.String(), "build completed") {
		t.Error("expected success message in log output")
	}
}

func TestLogger_FieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("info", &buf)

	log.Info("test message",
		logger.WithField("zeta", 1),
		logger.WithField("alpha", "x"),
	)

	if !strings.Contains(buf.String(), "{alpha=x, zeta=1}") {
		t.Errorf("expected sorted fields, got %q", buf.String())
	}
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := logger.CreateLoggerWithOutput("info", &buf)

	ctx := pcontext.WithRunID(context.Background(), "run_test")
	ctx = pcontext.WithConfiguration(ctx, "default")
	ctx = pcontext.WithOperation(ctx, "merge")

	logger.WithContext(ctx, base).Warn("merge failed")

	output := buf.String()
	for _, want := range []string{"[default]", "merge failed", "run=run_test", "operation=merge"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output %q", want, output)
		}
	}
}

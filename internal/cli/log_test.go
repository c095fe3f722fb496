package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("Found top-level objects") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("Object skipped") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("read records") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("read records") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		wantLog bool
	}{
		{"hidden at info level", log.InfoLevel, false},
		{"shown at debug level", log.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prog := newProgress(newLogger(&buf, tt.level))
			time.Sleep(10 * time.Millisecond)
			prog.done("convert done", "run", "abc")

			out := buf.String()
			if (out != "") != tt.wantLog {
				t.Fatalf("got output %q, want output = %v", out, tt.wantLog)
			}
			if !tt.wantLog {
				return
			}
			for _, s := range []string{"convert done", "run=abc", "elapsed="} {
				if !strings.Contains(out, s) {
					t.Errorf("output %q should contain %q", out, s)
				}
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)

	got := loggerFromContext(ctx)
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("attached logger output = %q", buf.String())
	}
}

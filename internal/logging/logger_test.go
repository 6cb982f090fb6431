package logging

import (
	"context"
	"log/slog"
	"testing"
)

// resetLoggerState clears the package globals so each test starts from an
// uninitialized package.
func resetLoggerState() {
	mutex.Lock()
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
	logBuffer = nil
	logCallback = nil
	mutex.Unlock()
}

func TestModuleLevelOverride(t *testing.T) {
	resetLoggerState()

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"presets": "debug",
			"api":     "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"presets", true, true, true},
		{"api", false, false, true},
		{"planner", false, true, true}, // no override, global level
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			h := GetLogger(tt.module).Handler()
			ctx := context.Background()

			if got := h.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("module %q: debug enabled = %v, want %v", tt.module, got, tt.wantDebug)
			}
			if got := h.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("module %q: info enabled = %v, want %v", tt.module, got, tt.wantInfo)
			}
			if got := h.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("module %q: warn enabled = %v, want %v", tt.module, got, tt.wantWarn)
			}
		})
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetLoggerState()

	// Before Initialize the logger falls back to info.
	early := GetLogger("planner")
	if early.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger obtained before Initialize should not have debug enabled")
	}

	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"planner": "debug"},
	})

	// Same cached logger, but its LevelVar now carries the override.
	late := GetLogger("planner")
	if early != late {
		t.Error("GetLogger should return the cached logger across Initialize")
	}
	if !early.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("cached logger should pick up the debug override from Initialize")
	}
}

func TestLogEntriesReachBuffer(t *testing.T) {
	resetLoggerState()

	Initialize(Config{Level: "info", Format: "text"})

	logger := GetLogger("planner")
	logger.Info("first", "key", "value")
	logger.Info("second")

	buffer := GetBuffer()
	if buffer == nil {
		t.Fatal("GetBuffer() = nil after Initialize")
	}

	var got []LogEntry
	for _, e := range buffer.ReadAll() {
		if e.Module == "planner" {
			got = append(got, e)
		}
	}
	if len(got) != 2 {
		t.Fatalf("buffer holds %d planner entries, want 2", len(got))
	}

	if got[0].Message != "first" || got[1].Message != "second" {
		t.Errorf("messages = %q, %q; want first, second", got[0].Message, got[1].Message)
	}
	if got[0].Seq >= got[1].Seq {
		t.Errorf("sequence numbers not increasing: %d then %d", got[0].Seq, got[1].Seq)
	}
	if got[0].Level != "info" {
		t.Errorf("level = %q, want info", got[0].Level)
	}
	if v, ok := got[0].Attributes["key"]; !ok || v != "value" {
		t.Errorf("attributes = %v, want key=value", got[0].Attributes)
	}
}

func TestLogCallbackObservesEntries(t *testing.T) {
	resetLoggerState()

	Initialize(Config{Level: "info", Format: "text"})

	var seen []LogEntry
	SetLogCallback(func(e LogEntry) {
		if e.Module == "artifacts" {
			seen = append(seen, e)
		}
	})
	defer SetLogCallback(nil)

	GetLogger("artifacts").Info("registered", "id", "a1")

	if len(seen) != 1 {
		t.Fatalf("callback saw %d entries, want 1", len(seen))
	}
	if seen[0].Message != "registered" {
		t.Errorf("message = %q, want registered", seen[0].Message)
	}
	if seen[0].Seq == 0 {
		t.Error("callback entry has zero sequence number")
	}
}

func TestDebugBelowModuleLevelIsDropped(t *testing.T) {
	resetLoggerState()

	Initialize(Config{Level: "info", Format: "text"})

	GetLogger("capability").Debug("too quiet")

	for _, e := range GetBuffer().ReadAll() {
		if e.Module == "capability" && e.Message == "too quiet" {
			t.Error("debug entry logged despite info level")
		}
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantNil bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "INFO", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "invalid", wantNil: true},
		{input: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			if tt.wantNil {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("parseLevel(%q) = nil, want %v", tt.input, tt.want)
			}
			if *got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}

package logger

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"WARN", zerolog.WarnLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		verify func(t *testing.T, output string)
	}{
		{
			name: "json is the default encoding",
			cfg:  Config{Level: "debug"},
			verify: func(t *testing.T, output string) {
				if !strings.HasPrefix(strings.TrimSpace(output), "{") {
					t.Fatalf("expected json output, got %q", output)
				}
				if !strings.Contains(output, `"message":"generation started"`) {
					t.Fatalf("expected message field, got %q", output)
				}
			},
		},
		{
			name: "console encoding renders the message inline",
			cfg:  Config{Level: "info", Format: "console"},
			verify: func(t *testing.T, output string) {
				if !strings.Contains(output, "generation started") {
					t.Fatalf("expected inline message, got %q", output)
				}
			},
		},
		{
			name: "level gates lower severities",
			cfg:  Config{Level: "error"},
			verify: func(t *testing.T, output string) {
				if output != "" {
					t.Fatalf("expected info to be suppressed, got %q", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(t, func() {
				log := New(tt.cfg)
				log.Info().Msg("generation started")
			})
			tt.verify(t, output)
		})
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}

	return buf.String()
}

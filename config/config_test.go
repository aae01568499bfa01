package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

type testCLI struct {
	Options
}

func parse(t *testing.T, args []string, opts ...kong.Option) *Options {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, opts...)
	if err != nil {
		t.Fatalf("kong.New() unexpected error: %v", err)
	}
	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse(%v) unexpected error: %v", args, err)
	}
	return &cli.Options
}

func TestDefaults(t *testing.T) {
	opts := parse(t, nil)

	if opts.Endpoint != "http://localhost:8000/predict" {
		t.Errorf("Expected default endpoint, got %q", opts.Endpoint)
	}
	if opts.Field != "video" {
		t.Errorf("Expected default field video, got %q", opts.Field)
	}
	if opts.Timeout != 0 {
		t.Errorf("Expected no timeout by default, got %s", opts.Timeout)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Defaults should validate, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FAKECHECK_ENDPOINT", "https://detector.example.com/predict")
	t.Setenv("FAKECHECK_TIMEOUT", "90s")

	opts := parse(t, nil)
	if opts.Endpoint != "https://detector.example.com/predict" {
		t.Errorf("Expected endpoint from env, got %q", opts.Endpoint)
	}
	if opts.Timeout != 90*time.Second {
		t.Errorf("Expected 90s timeout from env, got %s", opts.Timeout)
	}
}

func TestYAMLConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "endpoint: http://gpu-box:9000/predict\nlog_level: debug\ntimeout: 2m\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	opts := parse(t, []string{"--field", "clip"}, kong.Configuration(YAML, path))
	if opts.Endpoint != "http://gpu-box:9000/predict" {
		t.Errorf("Expected endpoint from file, got %q", opts.Endpoint)
	}
	if opts.LogLevel != "debug" {
		t.Errorf("Expected log level from file, got %q", opts.LogLevel)
	}
	if opts.Timeout != 2*time.Minute {
		t.Errorf("Expected 2m timeout from file, got %s", opts.Timeout)
	}
	if opts.Field != "clip" {
		t.Errorf("Expected flag to win, got %q", opts.Field)
	}
}

func TestYAMLFlagBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("endpoint: http://from-file/predict\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	opts := parse(t, []string{"--endpoint", "http://from-flag/predict"}, kong.Configuration(YAML, path))
	if opts.Endpoint != "http://from-flag/predict" {
		t.Errorf("Expected flag to win over file, got %q", opts.Endpoint)
	}
}

func TestYAMLEmptyFile(t *testing.T) {
	if _, err := YAML(strings.NewReader("")); err != nil {
		t.Errorf("Empty config should load, got %v", err)
	}
	if _, err := YAML(strings.NewReader("endpoint: [unclosed")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"Valid http", Options{Endpoint: "http://localhost:8000/predict", Field: "video"}, false},
		{"Valid https", Options{Endpoint: "https://example.com/predict", Field: "video", Timeout: time.Minute}, false},
		{"Relative URL", Options{Endpoint: "/predict", Field: "video"}, true},
		{"Wrong scheme", Options{Endpoint: "ftp://example.com/predict", Field: "video"}, true},
		{"Garbage", Options{Endpoint: "://nope", Field: "video"}, true},
		{"Empty field", Options{Endpoint: "http://localhost:8000/predict"}, true},
		{"Negative timeout", Options{Endpoint: "http://localhost:8000/predict", Field: "video", Timeout: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := NewLogger(&Options{LogLevel: "warn"}, &buf)
	if err != nil {
		t.Fatalf("NewLogger() unexpected error: %v", err)
	}
	if closer != nil {
		t.Error("Console logger should not need closing")
	}

	log.Info().Msg("hidden")
	log.Warn().Msg("visible")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "visible") {
		t.Errorf("Unexpected log output: %q", buf.String())
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fakecheck.log")
	log, closer, err := NewLogger(&Options{LogLevel: "debug", LogFile: path}, nil)
	if err != nil {
		t.Fatalf("NewLogger() unexpected error: %v", err)
	}
	log.Debug().Str("file", "clip.mp4").Msg("Selected media")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.Contains(string(data), `"file":"clip.mp4"`) {
		t.Errorf("Expected JSON log line, got %q", data)
	}
}

func TestNewLogger_Errors(t *testing.T) {
	if _, _, err := NewLogger(&Options{LogLevel: "loud"}, nil); err == nil {
		t.Error("Expected error for unknown level")
	}
	if _, _, err := NewLogger(&Options{LogLevel: "info", LogFile: filepath.Join(t.TempDir(), "missing", "x.log")}, nil); err == nil {
		t.Error("Expected error for unwritable log file")
	}
}

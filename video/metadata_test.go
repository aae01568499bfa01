package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetVideoResolution(t *testing.T) {
	// A text file with a video extension makes ffprobe fail (or ffprobe is missing)
	testFile := filepath.Join(t.TempDir(), "fake_video.mp4")
	if err := os.WriteFile(testFile, []byte("This is not a video file"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := GetVideoResolution(context.Background(), testFile)
	if err == nil {
		t.Fatal("GetVideoResolution() expected error for non-video file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to get resolution") {
		t.Errorf("Expected error to contain 'failed to get resolution', got: %v", err)
	}
}

func TestGetVideoDuration_NonExistentFile(t *testing.T) {
	_, err := GetVideoDuration(context.Background(), "/path/to/nonexistent/video.mp4")
	if err == nil {
		t.Error("GetVideoDuration() expected error for non-existent file, got nil")
	}
}

func TestProbeMetadata_EmptyFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "empty.mp4")
	if err := os.WriteFile(testFile, nil, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	meta, err := ProbeMetadata(context.Background(), testFile)
	if err == nil {
		t.Errorf("ProbeMetadata() expected error for empty file, got %+v", meta)
	}
}

func TestVideoMetadataString(t *testing.T) {
	tests := []struct {
		name     string
		meta     VideoMetadata
		expected string
	}{
		{"Full", VideoMetadata{Resolution: "1920x1080", Duration: 95*time.Second + 400*time.Millisecond}, "1920x1080, 1m35s"},
		{"No resolution", VideoMetadata{Duration: 3 * time.Second}, "3s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.String(); got != tt.expected {
				t.Errorf("String() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

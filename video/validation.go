package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
)

var videoExtensions = []string{".mp4", ".webm", ".mov", ".flv", ".mkv", ".avi", ".wmv", ".mpg"}

// IsVideoFile checks if the given file extension is one of known video file extensions
func IsVideoFile(path string) bool {
	return slices.Contains(videoExtensions, strings.ToLower(filepath.Ext(path)))
}

// ValidateVideoIntegrity checks if a video file is corrupted or invalid before it is uploaded.
// Returns an error if the file is corrupted or cannot be read
func ValidateVideoIntegrity(ctx context.Context, filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", "--", filePath)
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	outputStr := string(output)
	switch {
	case strings.Contains(outputStr, "moov atom not found"):
		return fmt.Errorf("video file is corrupted (missing metadata): %s", extractFirstLine(outputStr))
	case strings.Contains(outputStr, "Invalid data found"),
		strings.Contains(outputStr, "corrupt"),
		strings.Contains(outputStr, "truncated"),
		strings.Contains(outputStr, "Invalid argument"):
		return fmt.Errorf("video file is corrupted or invalid: %s", extractFirstLine(outputStr))
	}

	return fmt.Errorf("ffprobe error: %w\nOutput: %s", err, extractFirstLine(outputStr))
}

// extractFirstLine extracts just the first line from a multi-line string
func extractFirstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return "no additional information available"
}

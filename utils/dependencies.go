package utils

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// previewTools are the binaries needed to probe and thumbnail a selected video
var previewTools = []string{"ffprobe", "ffmpeg"}

// MissingPreviewTools returns the preview binaries that are not in PATH
func MissingPreviewTools() []string {
	var missing []string
	for _, tool := range previewTools {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return missing
}

// ValidateFFmpegDependencies checks if ffmpeg and ffprobe are available in PATH
func ValidateFFmpegDependencies() error {
	if missing := MissingPreviewTools(); len(missing) > 0 {
		return fmt.Errorf("%s not found in PATH. %s", strings.Join(missing, " and "), getInstallationInstructions())
	}
	return nil
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or yum install ffmpeg (CentOS/RHEL)"
	case "windows":
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}

package video

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var resolutionRegex = regexp.MustCompile(`^\d+x\d+$`)

// GetVideoResolution extracts the video resolution using ffprobe
func GetVideoResolution(ctx context.Context, videoFile string) (string, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-select_streams", "v:0",
		"-show_entries", "stream=width,height", "-of", "csv=s=x:p=0", "--", videoFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to get resolution: %w\nffprobe output: %s", err, extractFirstLine(string(output)))
	}

	// ffprobe prints one line per stream on some containers
	resolution := strings.TrimSpace(strings.SplitN(string(output), "\n", 2)[0])
	resolution = strings.TrimSuffix(resolution, "x")

	if !resolutionRegex.MatchString(resolution) {
		return "", fmt.Errorf("invalid resolution format: %s", resolution)
	}

	return resolution, nil
}

// GetVideoDuration extracts the container duration using ffprobe
func GetVideoDuration(ctx context.Context, videoFile string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries",
		"format=duration", "-of", "default=noprint_wrappers=1:nokey=1", "--", videoFile)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to get duration: %w", err)
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(secs * float64(time.Second)), nil
}

// ProbeMetadata collects resolution and duration in one call
func ProbeMetadata(ctx context.Context, videoFile string) (*VideoMetadata, error) {
	resolution, err := GetVideoResolution(ctx, videoFile)
	if err != nil {
		return nil, err
	}

	duration, err := GetVideoDuration(ctx, videoFile)
	if err != nil {
		return nil, err
	}

	return &VideoMetadata{Resolution: resolution, Duration: duration}, nil
}

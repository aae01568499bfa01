package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ExtractFrame writes a single JPEG frame of videoFile to dest.
// It seeks to 30s first, retries at 10s for short clips and finally takes the first frame.
func ExtractFrame(ctx context.Context, videoFile, dest string) error {
	var lastErr error
	for _, offset := range []string{"00:00:30", "10", "0"} {
		cmd := exec.CommandContext(ctx, "ffmpeg", "-v", "error", "-ss", offset, "-i", videoFile,
			"-vframes", "1", "-f", "image2", "-y", dest)
		lastErr = cmd.Run()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lastErr != nil {
			continue
		}
		// seeking past the end exits cleanly without writing anything
		if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
			return nil
		}
		lastErr = fmt.Errorf("no frame at offset %s", offset)
	}
	return fmt.Errorf("failed to extract frame: %w", lastErr)
}

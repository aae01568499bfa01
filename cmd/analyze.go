package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lepinkainen/fakecheck/config"
	"github.com/lepinkainen/fakecheck/preview"
	"github.com/lepinkainen/fakecheck/session"
	"github.com/lepinkainen/fakecheck/types"
	"github.com/lepinkainen/fakecheck/ui"
	"github.com/lepinkainen/fakecheck/utils"
	"github.com/lepinkainen/fakecheck/video"
	"github.com/schollz/progressbar/v3"
)

// AnalyzeCmd uploads a single file and prints the verdict without the interactive UI
type AnalyzeCmd struct {
	File       string `arg:"" name:"file" help:"Video file to analyze" type:"existingfile"`
	JSON       bool   `name:"json" help:"Print the result as JSON"`
	Validate   bool   `name:"validate" help:"Check the file with ffprobe before uploading"`
	NoProgress bool   `name:"no-progress" help:"Hide the upload progress bar"`
}

// analysisReport is the --json output
type analysisReport struct {
	File   string          `json:"file"`
	Status string          `json:"status"`
	Result *session.Result `json:"result,omitempty"`
}

// Run executes the analyze command. A failed analysis is returned as an error so the exit status is non-zero.
func (cmd *AnalyzeCmd) Run(appCtx *types.AppContext) error {
	return cmd.run(context.Background(), appCtx, os.Stdout, os.Stderr)
}

func (cmd *AnalyzeCmd) run(ctx context.Context, appCtx *types.AppContext, stdout, stderr io.Writer) error {
	opts := optionsFrom(appCtx)
	log, closer, err := config.NewLogger(opts, stderr)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	if !cmd.JSON {
		fmt.Fprintln(stdout, ui.HeaderStyle.Render(fmt.Sprintf("FakeCheck %s", appCtx.VersionOrDefault())))
	}

	if !video.IsVideoFile(cmd.File) {
		fmt.Fprintf(stderr, "⚠️  %s does not look like a video file, uploading anyway\n", cmd.File)
	}
	if source, ok := utils.NetworkSource(cmd.File); ok {
		fmt.Fprintf(stderr, "%s\n", ui.InfoStyle.Render(fmt.Sprintf("📡 %s is on a network drive (%s), upload progress may stall", cmd.File, source)))
	}

	if cmd.Validate {
		if err := utils.ValidateFFmpegDependencies(); err != nil {
			return err
		}
		if err := video.ValidateVideoIntegrity(ctx, cmd.File); err != nil {
			return fmt.Errorf("validation failed for %s: %w", cmd.File, err)
		}
		log.Debug().Str("file", cmd.File).Msg("Integrity check passed")
	}

	var bar *uploadBar
	if !cmd.NoProgress {
		bar = &uploadBar{w: stderr}
	}
	controller := session.NewController(newClient(appCtx, log),
		session.WithPreviewer(preview.NewGenerator(log)),
		session.WithLogger(log),
		session.WithListener(bar.update),
	)
	defer controller.Close()

	if err := controller.Select(ctx, cmd.File); err != nil {
		return err
	}
	snap := controller.Snapshot()
	if !cmd.JSON {
		fmt.Fprintln(stdout, ui.RenderPreview(snap.Media, snap.Preview))
		fmt.Fprintln(stdout)
	}

	result, submitErr := controller.Submit(ctx)
	bar.finish()

	status := controller.Snapshot().Status
	if cmd.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		report := analysisReport{File: snap.Media.Name, Status: status.Phase.String(), Result: result}
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		if submitErr != nil {
			fmt.Fprintln(stdout, ui.ErrorStyle.Render("❌ "+status.String()))
		} else {
			fmt.Fprintln(stdout, ui.SuccessStyle.Render("✅ "+status.String()))
		}
		fmt.Fprintln(stdout, ui.RenderResult(result))
	}

	if submitErr != nil {
		return fmt.Errorf("analysis of %s failed: %w", snap.Media.Name, submitErr)
	}
	return nil
}

// uploadBar draws request body progress. The bar is created on the first progress
// event, once the body size is known.
type uploadBar struct {
	mu  sync.Mutex
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (u *uploadBar) update(s session.Snapshot) {
	if u == nil || s.Total <= 0 {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.bar == nil {
		u.bar = progressbar.NewOptions64(s.Total,
			progressbar.OptionSetWriter(u.w),
			progressbar.OptionSetDescription("Uploading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetPredictTime(false),
		)
	}
	_ = u.bar.Set64(s.Sent)
}

func (u *uploadBar) finish() {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.bar != nil {
		_ = u.bar.Finish()
		fmt.Fprintln(u.w)
	}
}

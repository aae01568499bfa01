// Package session owns the lifecycle of one analysis: selected file, preview,
// upload progress and the final result.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/lepinkainen/fakecheck/predict"
	"github.com/lepinkainen/fakecheck/preview"
	"github.com/rs/zerolog"
)

var (
	// ErrNoMedia is returned by Submit when nothing has been selected
	ErrNoMedia = errors.New("please select or drop a video file")
	// ErrInFlight is returned while an upload is running
	ErrInFlight = errors.New("an analysis is already running")
)

// Uploader sends a file to the prediction endpoint
type Uploader interface {
	Predict(ctx context.Context, path string, onProgress predict.ProgressFunc) (*predict.Response, error)
}

// Previewer derives a local preview for a selected file
type Previewer interface {
	Generate(ctx context.Context, path string) (*preview.Preview, error)
}

// Media is the currently selected file
type Media struct {
	Path string
	Name string
	Size int64
}

// Snapshot is a copy of the controller state for rendering
type Snapshot struct {
	Media   *Media
	Preview *preview.Preview
	Status  Status
	Result  *Result
	Loading bool
	// Sent and Total are request body bytes of the current upload
	Sent  int64
	Total int64
}

// Controller drives one analysis at a time. All methods are safe for concurrent use.
type Controller struct {
	uploader  Uploader
	previewer Previewer
	listener  func(Snapshot)
	log       zerolog.Logger

	mu      sync.Mutex
	media   *Media
	preview *preview.Preview
	status  Status
	result  *Result
	loading bool
	sent    int64
	total   int64
}

// Option configures a Controller
type Option func(*Controller)

// WithPreviewer sets how previews are generated. Without one, previews point at the source file.
func WithPreviewer(p Previewer) Option {
	return func(c *Controller) { c.previewer = p }
}

// WithListener registers a callback invoked with a snapshot after every state change.
// It runs outside the controller lock, on whichever goroutine made the change.
func WithListener(fn func(Snapshot)) Option {
	return func(c *Controller) { c.listener = fn }
}

// WithLogger sets the controller logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController creates a controller uploading through u
func NewController(u Uploader, opts ...Option) *Controller {
	c := &Controller{
		uploader: u,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select makes path the current media, replacing the preview and clearing any result.
// It never touches the network.
func (c *Controller) Select(ctx context.Context, path string) error {
	if c.isLoading() {
		return ErrInFlight
	}

	p, err := preview.FromFile(path)
	if err != nil {
		return fmt.Errorf("cannot select %s: %w", path, err)
	}
	if c.previewer != nil {
		generated, err := c.previewer.Generate(ctx, p.Path)
		if err != nil {
			c.log.Debug().Err(err).Str("path", p.Path).Msg("Preview generation failed, using file preview")
		} else {
			p = generated
		}
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		_ = p.Release()
		return ErrInFlight
	}
	previous := c.preview
	c.media = &Media{Path: p.Path, Name: filepath.Base(p.Path), Size: p.Size}
	c.preview = p
	c.result = nil
	c.status = Status{}
	c.sent, c.total = 0, 0
	c.mu.Unlock()

	if err := previous.Release(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to release previous preview")
	}
	c.log.Debug().Str("path", p.Path).Int64("size", p.Size).Str("locator", p.Locator).Msg("Selected media")
	c.notify()
	return nil
}

// Submit uploads the selected media and waits for the verdict.
// Remote failures are reflected in the returned result and also returned as the error.
// Loading is cleared on every exit path.
func (c *Controller) Submit(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if c.media == nil {
		c.mu.Unlock()
		return nil, ErrNoMedia
	}
	if c.loading {
		c.mu.Unlock()
		return nil, ErrInFlight
	}
	c.loading = true
	c.status = Status{Phase: PhaseProcessing}
	c.result = nil
	c.sent, c.total = 0, 0
	media := *c.media
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
		c.notify()
	}()
	c.notify()

	log := c.log.With().Str("file", media.Name).Logger()
	log.Info().Int64("size", media.Size).Msg("Submitting video for analysis")

	resp, err := c.uploader.Predict(ctx, media.Path, c.onProgress)
	status, result, err := interpret(resp, err)

	c.mu.Lock()
	c.status = status
	c.result = result
	c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("Analysis failed")
		return result, err
	}
	log.Info().
		Str("prediction", string(result.Outcome.Prediction)).
		Float64("score", result.Outcome.Score).
		Msg("Analysis completed")
	return result, nil
}

// onProgress turns transfer counters into an upload percentage that never decreases
func (c *Controller) onProgress(sent, total int64) {
	percent := 100
	if total > 0 {
		percent = int(math.Round(float64(sent) * 100 / float64(total)))
	}

	c.mu.Lock()
	if !c.loading || (c.status.Phase != PhaseProcessing && c.status.Phase != PhaseUploading) {
		c.mu.Unlock()
		return
	}
	c.sent, c.total = sent, total
	if c.status.Phase == PhaseUploading && percent <= c.status.Percent {
		c.mu.Unlock()
		return
	}
	c.status = Status{Phase: PhaseUploading, Percent: percent}
	c.mu.Unlock()

	c.notify()
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Preview: c.preview,
		Status:  c.status,
		Result:  c.result,
		Loading: c.loading,
		Sent:    c.sent,
		Total:   c.total,
	}
	if c.media != nil {
		media := *c.media
		snap.Media = &media
	}
	return snap
}

// Close releases the preview. The controller can still be used afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	p := c.preview
	c.preview = nil
	c.media = nil
	c.mu.Unlock()

	return p.Release()
}

func (c *Controller) isLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) notify() {
	if c.listener != nil {
		c.listener(c.Snapshot())
	}
}

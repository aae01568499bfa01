package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/lepinkainen/fakecheck/utils"
	"github.com/lepinkainen/fakecheck/video"
	"github.com/rs/zerolog"
)

// Preview is a local, render-only view of a selected file.
// Whoever holds it must call Release once it is superseded.
type Preview struct {
	// Path is the absolute path of the source file
	Path string
	// Locator is a file:// URI to render, the thumbnail when one was extracted
	Locator string
	Size    int64
	// Metadata is nil when the file could not be probed
	Metadata *video.VideoMetadata
	// Thumbnail is the extracted frame on disk, empty without one
	Thumbnail string
	// Fingerprint is the perceptual hash of the thumbnail
	Fingerprint string

	cleanups []func() error
	release  sync.Once
}

// FromFile builds a preview that points straight at the source file
func FromFile(path string) (*Preview, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return &Preview{Path: abs, Locator: fileURI(abs), Size: fi.Size()}, nil
}

// OnRelease registers fn to run when the preview is released
func (p *Preview) OnRelease(fn func() error) {
	p.cleanups = append(p.cleanups, fn)
}

// Release runs the registered cleanups once. Safe to call more than once.
func (p *Preview) Release() error {
	if p == nil {
		return nil
	}
	var errs []error
	p.release.Do(func() {
		for _, fn := range p.cleanups {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// HasThumbnail reports whether the locator points at an extracted frame
func (p *Preview) HasThumbnail() bool {
	return p != nil && p.Thumbnail != ""
}

func fileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// Generator derives previews using ffprobe and ffmpeg when they are installed
type Generator struct {
	log     zerolog.Logger
	timeout time.Duration
	missing func() []string
}

// NewGenerator creates a preview generator
func NewGenerator(log zerolog.Logger) *Generator {
	return &Generator{
		log:     log,
		timeout: 15 * time.Second,
		missing: utils.MissingPreviewTools,
	}
}

// Generate builds a preview for path. Probe and thumbnail failures degrade to a plain file
// preview, only a missing or non-regular file is an error.
func (g *Generator) Generate(ctx context.Context, path string) (*Preview, error) {
	p, err := FromFile(path)
	if err != nil {
		return nil, err
	}

	log := g.log.With().Str("file", filepath.Base(p.Path)).Logger()
	if missing := g.missing(); len(missing) > 0 {
		log.Debug().Strs("missing", missing).Msg("Skipping video preview, tools not installed")
		return p, nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	meta, err := video.ProbeMetadata(ctx, p.Path)
	if err != nil {
		log.Debug().Err(err).Msg("Could not probe video metadata")
		return p, nil
	}
	p.Metadata = meta

	if err := g.thumbnail(ctx, p); err != nil {
		log.Debug().Err(err).Msg("Could not extract thumbnail")
	}
	return p, nil
}

// thumbnail extracts a frame into a private temp dir and fingerprints it
func (g *Generator) thumbnail(ctx context.Context, p *Preview) error {
	dir, err := os.MkdirTemp("", "fakecheck-preview-*")
	if err != nil {
		return fmt.Errorf("failed to create preview dir: %w", err)
	}

	thumb := filepath.Join(dir, "thumbnail.jpg")
	fingerprint, err := extractAndHash(ctx, p.Path, thumb)
	if err != nil {
		_ = os.RemoveAll(dir)
		return err
	}

	p.OnRelease(func() error { return os.RemoveAll(dir) })
	p.Thumbnail = thumb
	p.Locator = fileURI(thumb)
	p.Fingerprint = fingerprint
	return nil
}

func extractAndHash(ctx context.Context, videoFile, thumb string) (string, error) {
	if err := video.ExtractFrame(ctx, videoFile, thumb); err != nil {
		return "", err
	}
	return hashFrame(thumb)
}

// hashFrame computes the perceptual hash of a decoded image file
func hashFrame(thumb string) (string, error) {
	f, err := os.Open(thumb)
	if err != nil {
		return "", fmt.Errorf("failed to open extracted frame: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return "", fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}
	return hash.ToString(), nil
}

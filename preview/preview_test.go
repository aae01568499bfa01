package preview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my clip.mp4")
	if err := os.WriteFile(path, []byte("12345"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	p, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() unexpected error: %v", err)
	}
	if p.Size != 5 {
		t.Errorf("Expected size 5, got %d", p.Size)
	}
	if !strings.HasPrefix(p.Locator, "file://") || !strings.HasSuffix(p.Locator, "my%20clip.mp4") {
		t.Errorf("Unexpected locator %q", p.Locator)
	}
	if p.HasThumbnail() {
		t.Error("Plain file preview should not have a thumbnail")
	}
	if err := p.Release(); err != nil {
		t.Errorf("Release() unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Release() must never touch the source file: %v", err)
	}
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := FromFile(filepath.Join(dir, "missing.mp4")); err == nil {
		t.Error("Expected error for missing file")
	}
	if _, err := FromFile(dir); err == nil {
		t.Error("Expected error for directory")
	}
}

func TestRelease_RemovesThumbnailDir(t *testing.T) {
	thumbDir := t.TempDir()
	thumb := filepath.Join(thumbDir, "thumbnail.jpg")
	if err := os.WriteFile(thumb, []byte("jpeg"), 0644); err != nil {
		t.Fatalf("Failed to create thumbnail: %v", err)
	}

	p := &Preview{Locator: fileURI(thumb), Thumbnail: thumb}
	p.OnRelease(func() error { return os.RemoveAll(thumbDir) })
	if !p.HasThumbnail() {
		t.Fatal("Expected HasThumbnail() to be true")
	}

	if err := p.Release(); err != nil {
		t.Fatalf("Release() unexpected error: %v", err)
	}
	if _, err := os.Stat(thumbDir); !os.IsNotExist(err) {
		t.Errorf("Expected thumbnail dir to be removed, stat err: %v", err)
	}
	if err := p.Release(); err != nil {
		t.Errorf("Second Release() should be a no-op, got: %v", err)
	}
}

func TestRelease_RunsCleanupsOnce(t *testing.T) {
	p := &Preview{}
	calls := 0
	p.OnRelease(func() error { calls++; return nil })
	p.OnRelease(func() error { calls++; return os.ErrPermission })

	if err := p.Release(); !errors.Is(err, os.ErrPermission) {
		t.Errorf("Expected joined cleanup error, got %v", err)
	}
	if err := p.Release(); err != nil {
		t.Errorf("Second Release() should be a no-op, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 cleanup calls, got %d", calls)
	}
}

func TestReleaseNil(t *testing.T) {
	var p *Preview
	if err := p.Release(); err != nil {
		t.Errorf("Release() on nil preview returned %v", err)
	}
}

func TestGenerate_MissingTools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("not a video"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	g := NewGenerator(zerolog.Nop())
	g.missing = func() []string { return []string{"ffmpeg"} }

	p, err := g.Generate(context.Background(), path)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	defer p.Release()

	if p.Metadata != nil || p.Fingerprint != "" || p.HasThumbnail() {
		t.Errorf("Expected a plain preview without tools, got %+v", p)
	}
}

func TestGenerate_UnprobeableFile(t *testing.T) {
	// Works both with and without ffprobe installed: garbage never probes
	path := filepath.Join(t.TempDir(), "garbage.mp4")
	if err := os.WriteFile(path, []byte("not a video"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	p, err := NewGenerator(zerolog.Nop()).Generate(context.Background(), path)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	defer p.Release()

	if p.Metadata != nil {
		t.Errorf("Expected no metadata for garbage file, got %+v", p.Metadata)
	}
	if p.Locator != fileURI(p.Path) {
		t.Errorf("Expected fallback locator %q, got %q", fileURI(p.Path), p.Locator)
	}
}

func TestGenerate_MissingFile(t *testing.T) {
	if _, err := NewGenerator(zerolog.Nop()).Generate(context.Background(), filepath.Join(t.TempDir(), "gone.mp4")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func writeFrame(t *testing.T, path string, shade func(x, y int) color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, shade(x, y))
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create frame: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("Failed to encode frame: %v", err)
	}
}

func TestHashFrame(t *testing.T) {
	dir := t.TempDir()
	gradient := func(x, y int) color.Color { return color.RGBA{uint8(x * 4), uint8(y * 4), 128, 255} }

	first := filepath.Join(dir, "first.jpg")
	second := filepath.Join(dir, "second.jpg")
	writeFrame(t, first, gradient)
	writeFrame(t, second, gradient)

	h1, err := hashFrame(first)
	if err != nil {
		t.Fatalf("hashFrame() unexpected error: %v", err)
	}
	h2, err := hashFrame(second)
	if err != nil {
		t.Fatalf("hashFrame() unexpected error: %v", err)
	}

	if !strings.HasPrefix(h1, "p:") || len(h1) != 18 {
		t.Errorf("Expected perception hash like p:<16 hex>, got %q", h1)
	}
	if h1 != h2 {
		t.Errorf("Identical frames should hash identically: %s vs %s", h1, h2)
	}
}

func TestHashFrame_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if _, err := hashFrame(path); err == nil || !strings.Contains(err.Error(), "failed to decode image") {
		t.Errorf("Expected decode error, got %v", err)
	}
}

// Package export writes a session blueprint and its derived assets to disk.
package export

import (
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/reelstudio/internal/director"
	"github.com/ivlev/reelstudio/internal/renderer"
	"github.com/ivlev/reelstudio/internal/system"
)

// Exporter writes one kind of artifact for a blueprint into dir and
// returns the paths it created.
type Exporter interface {
	Export(ctx context.Context, bp *director.Blueprint, dir string) ([]string, error)
}

// Run creates dir and runs the exporters in order. It stops at the first error;
// paths written before it are still returned.
func Run(ctx context.Context, bp *director.Blueprint, dir string, exporters ...Exporter) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var paths []string
	for _, e := range exporters {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		out, err := e.Export(ctx, bp, dir)
		paths = append(paths, out...)
		if err != nil {
			return paths, err
		}
	}
	slog.Info("export finished", "dir", dir, "files", len(paths))
	return paths, nil
}

// YAMLExporter writes the blueprint itself.
type YAMLExporter struct{}

func (YAMLExporter) Export(_ context.Context, bp *director.Blueprint, dir string) ([]string, error) {
	path := director.GenerateBlueprintPath(dir)
	if err := director.WriteBlueprint(bp, path); err != nil {
		return nil, fmt.Errorf("write blueprint: %w", err)
	}
	return []string{path}, nil
}

// StoryboardExporter renders one PNG card per scene.
type StoryboardExporter struct {
	Width, Height int
	// Workers limits parallel renders; zero means one per CPU.
	Workers int
}

func (s StoryboardExporter) Export(ctx context.Context, bp *director.Blueprint, dir string) ([]string, error) {
	if len(bp.Scenes) == 0 {
		return nil, nil
	}
	boardDir := filepath.Join(dir, "storyboard")
	if err := os.MkdirAll(boardDir, 0755); err != nil {
		return nil, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paths := make([]string, len(bp.Scenes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, scene := range bp.Scenes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(boardDir, fmt.Sprintf("scene_%02d.png", i+1))
			if err := s.writeCard(scene, i, len(bp.Scenes), path); err != nil {
				return fmt.Errorf("scene %d: %w", i+1, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s StoryboardExporter) writeCard(scene director.Scene, index, total int, path string) error {
	img := renderer.RenderCard(scene, index, total, s.Width, s.Height)
	defer system.PutImage(img)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// QRExporter writes a QR code carrying the script, for handing the reel
// over to a phone.
type QRExporter struct {
	Size int
}

func (q QRExporter) Export(_ context.Context, bp *director.Blueprint, dir string) ([]string, error) {
	path := filepath.Join(dir, "script_qr.png")
	if err := qrcode.WriteFile(bp.Script, qrcode.Medium, q.Size, path); err != nil {
		return nil, fmt.Errorf("write qr code: %w", err)
	}
	return []string{path}, nil
}

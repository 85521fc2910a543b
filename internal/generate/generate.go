// Package generate records symbol clips ahead of time so the board can play
// them without synthesizing on demand.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/laoaac/aacboard/internal/symbols"
)

// ErrMissingInput is returned when an id or text is empty.
var ErrMissingInput = errors.New("missing id or text")

// Writer synthesizes text into an mp3 file.
type Writer interface {
	WriteMP3(ctx context.Context, text, path string) error
}

// Locator maps a symbol id to the file its clip lives in.
type Locator interface {
	Path(id string) (string, error)
}

// Result describes the outcome for one symbol.
type Result struct {
	ID      string
	Path    string
	Skipped bool
	Err     error
}

// Generator writes clips with a Writer.
type Generator struct {
	writer  Writer
	locator Locator
	logger  *log.Logger

	// Force regenerates clips that already exist.
	Force bool
}

// New creates a generator.
func New(writer Writer, locator Locator, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{writer: writer, locator: locator, logger: logger}
}

// Generate writes the clip for id and returns its path. Existing clips are
// left alone unless Force is set.
func (g *Generator) Generate(ctx context.Context, id, text string) (Result, error) {
	res := Result{ID: id}
	if id == "" || strings.TrimSpace(text) == "" {
		return res, ErrMissingInput
	}

	path, err := g.locator.Path(id)
	if err != nil {
		return res, err
	}
	res.Path = path

	if !g.Force {
		if _, err := os.Stat(path); err == nil {
			res.Skipped = true
			g.logger.Debug("clip exists, skipping", "id", id)
			return res, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return res, fmt.Errorf("failed to create audio directory: %w", err)
	}

	// Write beside the target and rename so the board never sees a partial
	// file.
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := g.writer.WriteMP3(ctx, text, tmp); err != nil {
		os.Remove(tmp)
		return res, fmt.Errorf("generate %s: %w", id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return res, fmt.Errorf("generate %s: %w", id, err)
	}

	g.logger.Info("generated clip", "id", id, "path", path)
	return res, nil
}

// GenerateAll generates clips for every symbol. Individual failures are
// recorded in the results and do not stop the run; cancelling ctx does.
// progress, if set, is called after each symbol.
func (g *Generator) GenerateAll(ctx context.Context, syms []symbols.Symbol, progress func(Result)) ([]Result, error) {
	results := make([]Result, 0, len(syms))
	for _, s := range syms {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := g.Generate(ctx, s.ID, s.Text)
		res.Err = err
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			g.logger.Warn("failed to generate clip", "id", s.ID, "err", err)
		}

		results = append(results, res)
		if progress != nil {
			progress(res)
		}
	}
	return results, nil
}

// Summary counts generated, skipped and failed results.
func Summary(results []Result) (generated, skipped, failed int) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Skipped:
			skipped++
		default:
			generated++
		}
	}
	return generated, skipped, failed
}

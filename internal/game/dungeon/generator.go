package dungeon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/dungeongen/internal/game/random"
)

// ErrTargetMissing marks an attempt whose search succeeded without placing
// the target room.
var ErrTargetMissing = errors.New("layout completed without the target room")

// ErrInfeasible is returned once every allowed attempt has failed. The
// returned error also wraps the last attempt's cause.
var ErrInfeasible = errors.New("no acceptable layout within the attempt limit")

// Options configures a Generator.
type Options struct {
	// IterationThreshold is the per-attempt recursive call budget.
	IterationThreshold int
	// MaxSize caps the room count, start included. 0 disables the cap.
	MaxSize int
	// MaxAttempts bounds the restart loop.
	MaxAttempts int
	// Seed is recorded on produced layouts. It does not seed the source.
	Seed uint64
}

// Validate checks option invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (o Options) Validate() error {
	if o.IterationThreshold < 1 {
		return fmt.Errorf("iteration threshold must be >= 1, got %d", o.IterationThreshold)
	}
	if o.MaxSize < 0 {
		return fmt.Errorf("max size must be >= 0, got %d", o.MaxSize)
	}
	if o.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1, got %d", o.MaxAttempts)
	}
	return nil
}

// Generator owns the restart loop around Search and replays accepted
// layouts through a Presenter.
//
// Generate calls are serialised; a Generator never runs two attempts at once.
type Generator struct {
	mu        sync.Mutex
	catalog   *Catalog
	selector  *Selector
	presenter Presenter
	opts      Options
	logger    *zap.Logger
	handles   []Handle
}

// NewGenerator creates a Generator.
//
// Precondition: catalog, src, presenter and logger must be non-nil.
// Postcondition: Returns a Generator or an error if opts is invalid.
func NewGenerator(catalog *Catalog, src random.Source, presenter Presenter, opts Options, logger *zap.Logger) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("generator options: %w", err)
	}
	return &Generator{
		catalog:   catalog,
		selector:  NewSelector(catalog, src),
		presenter: presenter,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Catalog returns the catalog the generator draws from.
func (g *Generator) Catalog() *Catalog { return g.catalog }

// Generate releases the previous layout's presentation, then runs attempts
// until one places the target, and replays it through the presenter.
//
// Postcondition: Returns a layout satisfying Layout.Validate, an error
// wrapping ErrInfeasible, ctx.Err(), or a presenter error.
func (g *Generator) Generate(ctx context.Context) (*Layout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	if err := g.presenter.ReleaseAll(g.handles); err != nil {
		return nil, fmt.Errorf("releasing previous layout: %w", err)
	}
	g.handles = nil

	var lastErr error
	for attempt := 1; attempt <= g.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		layout, err := g.attempt()
		if err != nil {
			lastErr = err
			g.logger.Debug("generation attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		layout.Attempts = attempt
		layout.Seed = g.opts.Seed
		if err := g.replay(layout); err != nil {
			return nil, err
		}
		g.logger.Info("dungeon generated",
			zap.Int("rooms", len(layout.Rooms)),
			zap.Int("attempts", attempt),
			zap.Int("iterations", layout.Iterations),
			zap.Duration("elapsed", time.Since(start)),
		)
		return layout, nil
	}

	g.logger.Warn("dungeon generation infeasible",
		zap.Int("attempts", g.opts.MaxAttempts),
		zap.Int("iteration_threshold", g.opts.IterationThreshold),
		zap.Error(lastErr),
	)
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrInfeasible, g.opts.MaxAttempts, lastErr)
}

func (g *Generator) attempt() (*Layout, error) {
	res, err := Search(g.catalog, g.selector, SearchOptions{
		IterationThreshold: g.opts.IterationThreshold,
		MaxSize:            g.opts.MaxSize,
	})
	if err != nil {
		return nil, err
	}
	if !res.TargetPlaced {
		return nil, ErrTargetMissing
	}
	return newLayout(g.catalog.Start(), res), nil
}

// replay realises the start room, then every accepted room with its hallway.
func (g *Generator) replay(layout *Layout) error {
	for _, p := range layout.Rooms {
		if !p.IsStart() {
			h, err := g.presenter.PlaceHallway(p.Door)
			if err != nil {
				return fmt.Errorf("placing hallway at %s %s: %w", p.Door.Coord, p.Door.Direction, err)
			}
			g.handles = append(g.handles, h)
		}
		h, err := g.presenter.PlaceRoom(p.Template, p.Coord)
		if err != nil {
			return fmt.Errorf("placing room %q at %s: %w", p.Template.ID, p.Coord, err)
		}
		g.handles = append(g.handles, h)
	}
	return nil
}

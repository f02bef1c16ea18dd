// Package animation moves windows to their layout targets, either at once or
// through a timed transition.
package animation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/policastro/mondrian-sub000/internal/tiles"
	"github.com/policastro/mondrian-sub000/internal/tiling"
)

const (
	DefaultDuration = 180 * time.Millisecond
	DefaultFPS      = 60
)

// Target is what the player moves windows on.
type Target interface {
	MoveResize(id tiles.WindowID, area tiling.Area) error
}

// Done reports the end of a transition.
type Done struct {
	ID        string
	Moves     []tiles.Move
	Cancelled bool
	Err       error
}

// Config configures a Player.
type Config struct {
	Easing   string
	Duration time.Duration
	FPS      int
	Logger   *slog.Logger
	// OnDone is called from the transition goroutine. It must not block on
	// anything that may be waiting for Cancel to return.
	OnDone func(Done)
}

// Player runs at most one transition at a time. Starting a new one cancels
// the previous transition first. Move, Cancel and Reconfigure are meant to
// be called from a single goroutine.
type Player struct {
	target   Target
	easing   Easing
	duration time.Duration
	frame    time.Duration
	logger   *slog.Logger
	onDone   func(Done)

	mu      sync.Mutex
	cancel  context.CancelFunc
	running string
	wg      sync.WaitGroup
}

// NewPlayer creates a player that applies moves on target.
func NewPlayer(target Target, cfg Config) (*Player, error) {
	if target == nil {
		return nil, errors.New("animation target is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	p := &Player{
		target: target,
		logger: logger.With("component", "animation"),
		onDone: cfg.OnDone,
	}
	if err := p.tune(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Reconfigure changes easing, duration and frame rate. The running
// transition, if any, is cancelled first. Logger and OnDone are kept.
func (p *Player) Reconfigure(cfg Config) error {
	p.Cancel()
	return p.tune(cfg)
}

func (p *Player) tune(cfg Config) error {
	name := cfg.Easing
	if name == "" {
		name = "linear"
	}
	easing, err := EasingByName(name)
	if err != nil {
		return err
	}
	duration := cfg.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	p.easing = easing
	p.duration = duration
	p.frame = time.Second / time.Duration(fps)
	return nil
}

// Move places every window at its target. Without animation the moves are
// applied before returning; otherwise a transition starts in the background.
func (p *Player) Move(moves []tiles.Move, animate bool) error {
	p.Cancel()
	if len(moves) == 0 {
		return nil
	}
	if !animate {
		return p.apply(moves, 1)
	}

	snapshot := append([]tiles.Move(nil), moves...)
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	p.mu.Lock()
	p.cancel = cancel
	p.running = id
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		p.run(ctx, id, snapshot)
	}()
	return nil
}

// Cancel stops the running transition and waits for its goroutine to exit.
// Windows stay wherever the last frame left them.
func (p *Player) Cancel() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.running = ""
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Running returns the id of the running transition, if any.
func (p *Player) Running() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running, p.running != ""
}

func (p *Player) run(ctx context.Context, id string, moves []tiles.Move) {
	log := p.logger.With("transition", id, "windows", len(moves))
	log.Debug("transition started", "duration", p.duration)

	ticker := time.NewTicker(p.frame)
	defer ticker.Stop()

	start := time.Now()
	done := Done{ID: id, Moves: moves}
	for {
		select {
		case <-ctx.Done():
			log.Debug("transition cancelled")
			done.Cancelled = true
			p.finish(id, done)
			return
		case now := <-ticker.C:
			progress := float64(now.Sub(start)) / float64(p.duration)
			if progress >= 1 {
				done.Err = p.apply(moves, 1)
				log.Debug("transition finished", "elapsed", time.Since(start))
				p.finish(id, done)
				return
			}
			if err := p.apply(moves, p.easing(progress)); err != nil {
				// Finish in place rather than stuttering through failing frames.
				done.Err = errors.Join(err, p.apply(moves, 1))
				p.finish(id, done)
				return
			}
		}
	}
}

func (p *Player) finish(id string, done Done) {
	p.mu.Lock()
	if p.running == id {
		p.running = ""
		p.cancel = nil
	}
	p.mu.Unlock()
	if done.Err != nil {
		p.logger.Warn("transition failed", "transition", id, "error", done.Err)
	}
	if p.onDone != nil {
		p.onDone(done)
	}
}

func (p *Player) apply(moves []tiles.Move, progress float64) error {
	var errs []error
	for _, mv := range moves {
		area := mv.To
		if progress < 1 && !mv.From.IsZero() {
			area = lerp(mv.From, mv.To, progress)
		}
		if err := p.target.MoveResize(mv.Window, area); err != nil {
			errs = append(errs, fmt.Errorf("move window %d: %w", mv.Window, err))
		}
	}
	return errors.Join(errs...)
}

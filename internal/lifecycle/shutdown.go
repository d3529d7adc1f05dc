// Package lifecycle coordinates the ordered teardown of the bot's
// subsystems.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Hook stops one subsystem. The name appears in shutdown logs.
type Hook struct {
	Name string
	Stop func(ctx context.Context) error
}

// Shutdown tears subsystems down in registration order. Order matters
// here: the Telegram poller stops first so no new updates arrive, then the
// scheduler so nothing new is enqueued, then the worker so in-flight
// broadcasts drain before the process exits.
type Shutdown struct {
	mu    sync.Mutex
	hooks []Hook
	log   *slog.Logger
}

// NewShutdown constructs an empty shutdown sequence.
func NewShutdown(log *slog.Logger) *Shutdown {
	if log == nil {
		log = slog.Default()
	}

	return &Shutdown{log: log}
}

// Register appends a named stop hook to the sequence.
func (s *Shutdown) Register(name string, stop func(context.Context) error) {
	if stop == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, Hook{Name: name, Stop: stop})
}

// Execute runs the hooks one by one in registration order. A failing hook
// does not stop the sequence; remaining subsystems still get their turn.
// Hooks left unrun because ctx expired are reported as errors too.
func (s *Shutdown) Execute(ctx context.Context) error {
	s.mu.Lock()
	hooks := append([]Hook(nil), s.hooks...)
	s.mu.Unlock()

	start := time.Now()
	s.log.Info("shutting down", slog.Int("subsystems", len(hooks)))

	var errs []error
	for i, hook := range hooks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s: not stopped: %w", hook.Name, err))
			continue
		}

		s.log.Info("stopping subsystem",
			slog.String("name", hook.Name),
			slog.Int("step", i+1),
			slog.Int("of", len(hooks)),
		)

		if err := hook.Stop(ctx); err != nil {
			s.log.Error("subsystem stop failed", slog.String("name", hook.Name), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", hook.Name, err))
			continue
		}

		s.log.Info("subsystem stopped", slog.String("name", hook.Name))
	}

	s.log.Info("shutdown complete", slog.Duration("elapsed", time.Since(start)))

	return errors.Join(errs...)
}

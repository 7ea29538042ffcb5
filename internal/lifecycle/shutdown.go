// Package lifecycle shuts the server's components down when the process is
// asked to stop.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// Shutdowner represents a component that can shut down, such as the HTTP
// listener or the database Provider.
type Shutdowner interface {
	Shutdown(context.Context) error
}

// ShutdownFunc adapts a function to Shutdowner.
type ShutdownFunc func(context.Context) error

func (f ShutdownFunc) Shutdown(ctx context.Context) error {
	return f(ctx)
}

// ShutdownHandler waits for a context to be cancelled to then call each
// component's Shutdown method.
type ShutdownHandler struct {
	waitPeriod time.Duration
	logger     *slog.Logger
	services   []namedShutdowner
}

type namedShutdowner struct {
	name string
	Shutdowner
}

// NewShutdownHandler creates a ShutdownHandler that gives every component
// gracePeriod to finish.
func NewShutdownHandler(gracePeriod time.Duration, logger *slog.Logger) *ShutdownHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShutdownHandler{waitPeriod: gracePeriod, logger: logger}
}

// Add registers a component. Must be called before Wait.
func (s *ShutdownHandler) Add(name string, service Shutdowner) {
	s.services = append(s.services, namedShutdowner{name: name, Shutdowner: service})
}

// Wait blocks until ctx is cancelled, then shuts every component down
// concurrently and returns once all of them finished.
func (s *ShutdownHandler) Wait(ctx context.Context) error {
	<-ctx.Done()
	return s.Shutdown()
}

// Shutdown shuts every component down concurrently, each bounded by the
// grace period.
func (s *ShutdownHandler) Shutdown() error {
	p := pool.NewWithResults[error]()

	for _, v := range s.services {
		service := v
		p.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), s.waitPeriod)
			defer cancel()

			if err := service.Shutdown(ctx); err != nil {
				s.logger.Error("shutdown failed", "component", service.name, "error", err)
				return err
			}
			s.logger.Info("component stopped", "component", service.name)
			return nil
		})
	}

	return errors.Join(p.Wait()...)
}

package mission

import (
	"context"
	"sync"
	"time"

	"missionops/internal/logging"
	"missionops/internal/telemetry"
	"missionops/internal/vehicle"
)

// Coordinator owns the single deterministic wind-down sequence. Any
// trigger — normal completion, safety trip, external quit, executor
// fault — funnels through here, and the terminal actuator sequence
// runs exactly once no matter how many paths reach it.
type Coordinator struct {
	link        vehicle.Link
	store       *telemetry.Store
	landRetries int
	landWait    time.Duration

	terminal sync.Once
}

// NewCoordinator creates a shutdown coordinator. landRetries bounds
// the landing attempts before falling back to disarm.
func NewCoordinator(link vehicle.Link, store *telemetry.Store, landRetries int, landWait time.Duration) *Coordinator {
	if landRetries < 1 {
		landRetries = 3
	}
	return &Coordinator{
		link:        link,
		store:       store,
		landRetries: landRetries,
		landWait:    landWait,
	}
}

// Shutdown runs the full wind-down: stop the mission flag, await the
// recorder's final flush, cancel the remaining tasks and await their
// acknowledgment, then issue the terminal actuator sequence (a no-op
// if the supervisor's trip handler already issued it).
//
// The terminal sequence must run even when ctx was already cancelled
// by an external quit, so it uses a detached context.
func (c *Coordinator) Shutdown(ctx context.Context, recorderDone <-chan struct{}, cancelTasks context.CancelFunc, awaitTasks func()) {
	log := logging.FromContext(ctx)
	log.Info("shutdown sequence starting")

	c.store.StopRunning()
	if recorderDone != nil {
		<-recorderDone
	}
	if cancelTasks != nil {
		cancelTasks()
	}
	if awaitTasks != nil {
		awaitTasks()
	}
	c.Terminal(context.WithoutCancel(ctx))
}

// Terminal issues the terminal actuator sequence exactly once: disable
// offboard mode, land with bounded retries, disarm as a best-effort
// fallback when landing is not confirmed. Errors during wind-down are
// suppressed; the fallback still executes.
func (c *Coordinator) Terminal(ctx context.Context) {
	c.terminal.Do(func() {
		log := logging.FromContext(ctx)

		if err := c.link.StopOffboard(ctx); err != nil {
			log.Warn("stop offboard failed", "err", err)
		}

		landed := false
		for attempt := 1; attempt <= c.landRetries; attempt++ {
			if err := c.link.Land(ctx); err != nil {
				log.Warn("land attempt failed", "attempt", attempt, "err", err)
				continue
			}
			landed = true
			log.Info("landing", "attempt", attempt)
			break
		}
		if landed {
			if c.landWait > 0 {
				select {
				case <-time.After(c.landWait):
				case <-ctx.Done():
				}
			}
			return
		}

		// Last resort: landing never confirmed.
		log.Error("landing not confirmed, disarming")
		if err := c.link.Disarm(ctx); err != nil {
			log.Error("disarm failed", "err", err)
		}
	})
}

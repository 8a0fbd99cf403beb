package mission

import (
	"context"

	"missionops/internal/telemetry"
	"missionops/internal/vehicle"
)

// Ingestion watchers: each consumes one telemetry stream and is the
// sole writer of its store field. They exit when the stream closes,
// the context is cancelled, or the mission stops running.

// WatchPositionVelocity feeds the combined position+velocity stream
// into the store.
func WatchPositionVelocity(ctx context.Context, link vehicle.Link, store *telemetry.Store) error {
	ch := link.PositionVelocity(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case pv, ok := <-ch:
			if !ok {
				return nil
			}
			store.SetPositionVelocity(pv.Position, pv.Velocity)
			if !store.Running() {
				return nil
			}
		}
	}
}

// WatchAttitude feeds the attitude stream into the store.
func WatchAttitude(ctx context.Context, link vehicle.Link, store *telemetry.Store) error {
	ch := link.Attitude(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case att, ok := <-ch:
			if !ok {
				return nil
			}
			store.SetAttitude(att)
			if !store.Running() {
				return nil
			}
		}
	}
}

// WatchFlightMode feeds the flight mode stream into the store.
func WatchFlightMode(ctx context.Context, link vehicle.Link, store *telemetry.Store) error {
	ch := link.FlightMode(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case mode, ok := <-ch:
			if !ok {
				return nil
			}
			store.SetFlightMode(mode)
			if !store.Running() {
				return nil
			}
		}
	}
}

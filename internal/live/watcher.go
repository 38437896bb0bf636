package live

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tripfolio/tripfolio/backend/internal/domain"
)

// Event is one emission of a live document subscription. Exactly one of the
// three fields is meaningful: a decoded snapshot, the distinguished
// not-found state, or a load error (including decode failures, which fail
// the whole document rather than surfacing partial children).
type Event[T any] struct {
	Value    *T
	NotFound bool
	Err      error
}

// TripEvent and UserEvent are the concrete emission types.
type (
	TripEvent = Event[domain.Trip]
	UserEvent = Event[domain.User]
)

// TripGetter is the single repo read the trip watcher needs.
type TripGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
}

// UserGetter is the single repo read the user watcher needs.
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// subscriber is the slice of Hub the watcher depends on; tests substitute a
// hand-driven fake.
type subscriber interface {
	Subscribe(channel, key string) (<-chan struct{}, func())
}

// Watcher produces live snapshot streams for single documents.
// It holds no per-subscription state: each Watch call registers with the hub
// and runs its own fetch loop until the context is cancelled.
type Watcher struct {
	hub   subscriber
	trips TripGetter
	users UserGetter
}

// NewWatcher constructs a Watcher over the given hub and repos.
func NewWatcher(hub subscriber, trips TripGetter, users UserGetter) *Watcher {
	return &Watcher{hub: hub, trips: trips, users: users}
}

// WatchTrip subscribes to one trip document. The returned channel emits the
// current snapshot immediately, then one event per committed change from any
// session, and is closed when ctx is cancelled. A not-found emission does
// not end the stream: the document may be created (or re-created) later.
func (w *Watcher) WatchTrip(ctx context.Context, tripID uuid.UUID) <-chan TripEvent {
	wake, cancel := w.hub.Subscribe(ChannelTripChanged, tripID.String())
	return watch(ctx, wake, cancel, func(ctx context.Context) (domain.Trip, error) {
		return w.trips.GetByID(ctx, tripID)
	})
}

// WatchUser subscribes to one user profile with the same contract as WatchTrip.
func (w *Watcher) WatchUser(ctx context.Context, userID uuid.UUID) <-chan UserEvent {
	wake, cancel := w.hub.Subscribe(ChannelUserChanged, userID.String())
	return watch(ctx, wake, cancel, func(ctx context.Context) (domain.User, error) {
		return w.users.GetByID(ctx, userID)
	})
}

// watch runs the fetch loop for one subscription: emit the initial snapshot,
// then re-fetch and emit on every wake-up. The event channel is buffered so a
// fetch result does not block the loop when the consumer keeps up; if the
// consumer stalls, the send blocks and later wake-ups coalesce in the hub.
func watch[T any](ctx context.Context, wake <-chan struct{}, cancel func(), fetch func(context.Context) (T, error)) <-chan Event[T] {
	events := make(chan Event[T], 1)

	go func() {
		defer close(events)
		defer cancel()

		emit := func() bool {
			var ev Event[T]
			v, err := fetch(ctx)
			switch {
			case err == nil:
				ev.Value = &v
			case errors.Is(err, domain.ErrNotFound):
				ev.NotFound = true
			default:
				ev.Err = err
			}
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
				if !emit() {
					return
				}
			}
		}
	}()

	return events
}

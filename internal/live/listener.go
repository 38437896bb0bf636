package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// Notification channels fired by the schema triggers. The payload of each
// notification is the id of the changed document.
const (
	ChannelTripChanged = "trip_changed"
	ChannelUserChanged = "user_changed"
)

// Listener owns the single dedicated LISTEN connection and pumps incoming
// notifications into the Hub. One Listener serves every subscriber in the
// process.
type Listener struct {
	pool     *pgxpool.Pool
	hub      *Hub
	log      *slog.Logger
	channels []string
}

// NewListener constructs a Listener for the given notification channels.
func NewListener(pool *pgxpool.Pool, hub *Hub, log *slog.Logger, channels ...string) *Listener {
	return &Listener{pool: pool, hub: hub, log: log, channels: channels}
}

// Run blocks, receiving notifications and broadcasting them until ctx is
// cancelled. A dropped connection is re-established with exponential backoff
// (capped at 15s); subscribers keep their registrations across reconnects and
// simply miss wake-ups while the link is down, re-fetching on the next one.
func (l *Listener) Run(ctx context.Context) error {
	backoff := retry.WithCappedDuration(15*time.Second, retry.NewExponential(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.log.Warn("notification connection lost, reconnecting", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// listen runs one connection session: acquire, LISTEN on every channel, then
// block on notifications until the connection or the context dies.
func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("live.Listener: acquire: %w", err)
	}
	defer conn.Release()

	for _, ch := range l.channels {
		// Channel names are the fixed constants above, never user input.
		if _, err := conn.Exec(ctx, "LISTEN "+ch); err != nil {
			return fmt.Errorf("live.Listener: listen %s: %w", ch, err)
		}
	}
	l.log.Info("listening for document changes", "channels", l.channels)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("live.Listener: wait: %w", err)
		}
		l.hub.Broadcast(n.Channel, n.Payload)
	}
}

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const notifyChannel = "portfolio_changes"

// PGBridge relays change signals between instances over Postgres LISTEN/NOTIFY.
type PGBridge struct {
	dsn    string
	db     *gorm.DB
	feed   *ChangeFeed
	logger zerolog.Logger
}

func NewPGBridge(dsn string, db *gorm.DB, feed *ChangeFeed) *PGBridge {
	return &PGBridge{
		dsn:    dsn,
		db:     db,
		feed:   feed,
		logger: log.With().Str("component", "pgBridge").Logger(),
	}
}

// Publish implements Relay.
func (b *PGBridge) Publish(ctx context.Context, c Collection) error {
	return primary(ctx, b.db).Exec("SELECT pg_notify(?, ?)", notifyChannel, string(c)).Error
}

// Listen holds a dedicated connection until ctx is cancelled. The bridge is
// attached as the feed's relay only while the LISTEN is active.
func (b *PGBridge) Listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, b.dsn)
	if err != nil {
		return fmt.Errorf("connecting listener: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("listening on %s: %w", notifyChannel, err)
	}

	b.feed.SetRelay(b)
	defer b.feed.SetRelay(nil)
	b.logger.Info().Str("channel", notifyChannel).Msg("change feed bridge listening")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("waiting for notification: %w", err)
		}
		switch c := Collection(n.Payload); c {
		case Contacts, Testimonials, Projects:
			b.feed.Notify(c)
		default:
			b.logger.Warn().Str("payload", n.Payload).Msg("ignoring unknown collection")
		}
	}
}

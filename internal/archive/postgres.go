// Package archive persists an audit trail of chain activity to PostgreSQL:
// every broadcast event and every finalized game. It is write-only history
// for dashboards and dispute forensics; game state itself never leaves the
// in-memory store and is never restored from here.
package archive

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetproof/fleet-engine/internal/chain"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS chain_events (
	event_id   TEXT PRIMARY KEY,
	emitted_at TIMESTAMPTZ NOT NULL,
	message    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS finalized_games (
	game_id      TEXT NOT NULL,
	winner       TEXT NOT NULL,
	board_digest TEXT NOT NULL,
	claim_age_ms BIGINT NOT NULL,
	finalized_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (game_id, finalized_at)
);
`

type Store struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx.
func Connect(connStr string) (*Store, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}
	log.Println("Successfully connected to PostgreSQL for the chain audit archive")
	return &Store{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the archive tables.
func (s *Store) InitSchema() error {
	if _, err := s.pool.Exec(context.Background(), schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}
	log.Println("Chain audit archive schema initialized")
	return nil
}

// SaveEvent appends one broadcast event.
func (s *Store) SaveEvent(ctx context.Context, ev chain.Event) error {
	sql := `
		INSERT INTO chain_events (event_id, emitted_at, message)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING;
	`
	_, err := s.pool.Exec(ctx, sql, ev.ID, ev.Time, ev.Message)
	return err
}

// SaveFinalizedGame appends an uncontested-victory record.
func (s *Store) SaveFinalizedGame(ctx context.Context, fin chain.FinalizedGame) error {
	sql := `
		INSERT INTO finalized_games (game_id, winner, board_digest, claim_age_ms)
		VALUES ($1, $2, $3, $4);
	`
	_, err := s.pool.Exec(ctx, sql, fin.GameID, fin.Winner, fin.Board, fin.Duration.Milliseconds())
	return err
}

// EventSink adapts the store into a hub sink. Writes happen on the hub
// goroutine with a short timeout so a slow database cannot stall the feed
// for long.
func (s *Store) EventSink() func(chain.Event) {
	return func(ev chain.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.SaveEvent(ctx, ev); err != nil {
			log.Printf("[Archive] Failed to persist event: %v", err)
		}
	}
}

// FinalSink adapts the store into the reaper's finalization callback.
func (s *Store) FinalSink() func(chain.FinalizedGame) {
	return func(fin chain.FinalizedGame) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.SaveFinalizedGame(ctx, fin); err != nil {
			log.Printf("[Archive] Failed to persist finalized game: %v", err)
		}
	}
}

// Package store persists the durable leftovers of a game, round results
// and chat transcripts, to Postgres. The engine itself persists nothing;
// the session layer calls in here after the fact.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS sen_round_results (
	id          BIGSERIAL PRIMARY KEY,
	room_id     TEXT NOT NULL,
	round       INT NOT NULL,
	caller_id   TEXT NOT NULL,
	winner_name TEXT NOT NULL,
	scores      JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sen_round_results_room_idx ON sen_round_results (room_id);

CREATE TABLE IF NOT EXISTS sen_chat_messages (
	id          BIGSERIAL PRIMARY KEY,
	room_id     TEXT NOT NULL,
	seq         INT NOT NULL,
	sender_id   TEXT NOT NULL,
	sender_name TEXT NOT NULL,
	body        TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (room_id, seq)
);
`

// Store wraps a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	log  *logrus.Entry
}

// New connects and ensures the schema exists.
func New(ctx context.Context, databaseURL string, log *logrus.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{pool: pool, log: log.WithField("component", "store")}, nil
}

// SaveRoundResult records one finished round.
func (s *Store) SaveRoundResult(ctx context.Context, roomID string, round int, callerID, winnerName string, scores map[string]int) error {
	payload, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sen_round_results (room_id, round, caller_id, winner_name, scores)
		 VALUES ($1, $2, $3, $4, $5)`,
		roomID, round, callerID, winnerName, payload)
	if err != nil {
		return fmt.Errorf("insert round result: %w", err)
	}
	return nil
}

// SaveChatMessage records one chat line; duplicate (room, seq) pairs are
// ignored so replays after reconnects are harmless.
func (s *Store) SaveChatMessage(ctx context.Context, roomID string, seq int, senderID, senderName, body string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sen_chat_messages (room_id, seq, sender_id, sender_name, body)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (room_id, seq) DO NOTHING`,
		roomID, seq, senderID, senderName, body)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// RoundResult is one persisted round, as read back for a room summary.
type RoundResult struct {
	Round      int
	CallerID   string
	WinnerName string
	Scores     map[string]int
}

// RoundResults returns a room's persisted rounds in order.
func (s *Store) RoundResults(ctx context.Context, roomID string) ([]RoundResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT round, caller_id, winner_name, scores
		 FROM sen_round_results WHERE room_id = $1 ORDER BY round`, roomID)
	if err != nil {
		return nil, fmt.Errorf("query round results: %w", err)
	}
	defer rows.Close()

	var out []RoundResult
	for rows.Next() {
		var r RoundResult
		var payload []byte
		if err := rows.Scan(&r.Round, &r.CallerID, &r.WinnerName, &payload); err != nil {
			return nil, fmt.Errorf("scan round result: %w", err)
		}
		if err := json.Unmarshal(payload, &r.Scores); err != nil {
			return nil, fmt.Errorf("decode scores: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

// Package sqlite implements store.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/xeij/tellme/pkg/tellme/content"
	"github.com/xeij/tellme/pkg/tellme/store"
	"github.com/xeij/tellme/pkg/tellme/topic"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// Open opens a SQLite database at path with WAL mode enabled and creates the
// schema (and parent directory) when missing.
func Open(ctx context.Context, path string) (store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS content (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	topic TEXT NOT NULL,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	source_url TEXT NOT NULL,
	word_count INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_content_topic ON content(topic);

CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	content_id INTEGER NOT NULL,
	outcome TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL,
	FOREIGN KEY(content_id) REFERENCES content(id)
);

CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON interactions(timestamp DESC);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// InsertContent stores a unit and assigns its generated ID.
func (s *sqliteStore) InsertContent(ctx context.Context, u *content.Unit) error {
	const stmt = `
INSERT INTO content (topic, title, body, source_url, word_count, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id;
`
	err := s.db.QueryRowContext(
		ctx,
		stmt,
		u.Topic.String(),
		u.Title,
		u.Body,
		u.SourceURL,
		u.WordCount,
		u.CreatedAt.UTC().Format(time.RFC3339),
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

const selectUnit = `SELECT id, topic, title, body, source_url, word_count, created_at FROM content`

// RandomContent returns a uniformly random unit across all topics.
func (s *sqliteStore) RandomContent(ctx context.Context) (content.Unit, bool, error) {
	row := s.db.QueryRowContext(ctx, selectUnit+` ORDER BY RANDOM() LIMIT 1`)
	return scanUnit(row)
}

// RandomContentForTopic returns a uniformly random unit for one topic.
func (s *sqliteStore) RandomContentForTopic(ctx context.Context, t topic.Topic) (content.Unit, bool, error) {
	row := s.db.QueryRowContext(ctx, selectUnit+` WHERE topic = ? ORDER BY RANDOM() LIMIT 1`, t.String())
	return scanUnit(row)
}

// scanUnit maps one content row, decoding the stored topic tag against the
// registry. An unknown tag fails the read instead of being skipped.
func scanUnit(row *sql.Row) (content.Unit, bool, error) {
	var (
		u         content.Unit
		topicStr  string
		createdAt string
	)
	err := row.Scan(&u.ID, &topicStr, &u.Title, &u.Body, &u.SourceURL, &u.WordCount, &createdAt)
	if err == sql.ErrNoRows {
		return content.Unit{}, false, nil
	}
	if err != nil {
		return content.Unit{}, false, err
	}

	u.Topic, err = topic.Parse(topicStr)
	if err != nil {
		return content.Unit{}, false, fmt.Errorf("content row %d: %w", u.ID, err)
	}

	u.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return content.Unit{}, false, fmt.Errorf("content row %d: %w", u.ID, err)
	}

	return u, true, nil
}

// ContentCount returns the number of stored units.
func (s *sqliteStore) ContentCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content`).Scan(&n)
	return n, err
}

// TopicContentCounts returns the number of stored units per topic.
func (s *sqliteStore) TopicContentCounts(ctx context.Context) (map[topic.Topic]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT topic, COUNT(*) FROM content GROUP BY topic`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[topic.Topic]int64)
	for rows.Next() {
		var (
			topicStr string
			n        int64
		)
		if err := rows.Scan(&topicStr, &n); err != nil {
			return nil, err
		}
		t, err := topic.Parse(topicStr)
		if err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

// RecordInteraction appends one interaction row.
func (s *sqliteStore) RecordInteraction(ctx context.Context, i content.Interaction) error {
	const stmt = `
INSERT INTO interactions (id, content_id, outcome, timestamp, duration_seconds)
VALUES (?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(
		ctx,
		stmt,
		s.newID(),
		i.ContentID,
		string(i.Outcome),
		i.Timestamp.UTC().Format(time.RFC3339),
		int64(i.Duration.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	return nil
}

// InteractionCount returns the total number of interactions.
func (s *sqliteStore) InteractionCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interactions`).Scan(&n)
	return n, err
}

// InteractionCountForTopic counts interactions whose content belongs to t.
func (s *sqliteStore) InteractionCountForTopic(ctx context.Context, t topic.Topic) (int64, error) {
	const query = `
SELECT COUNT(*)
FROM interactions i
JOIN content c ON i.content_id = c.id
WHERE c.topic = ?;
`
	var n int64
	err := s.db.QueryRowContext(ctx, query, t.String()).Scan(&n)
	return n, err
}

// RecentTopics returns the topics of the most recent interactions, newest
// first. ULID interaction ids break timestamp ties in insertion order.
func (s *sqliteStore) RecentTopics(ctx context.Context, limit int) ([]topic.Topic, error) {
	const query = `
SELECT c.topic
FROM interactions i
JOIN content c ON i.content_id = c.id
ORDER BY i.timestamp DESC, i.id DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recent []topic.Topic
	for rows.Next() {
		var topicStr string
		if err := rows.Scan(&topicStr); err != nil {
			return nil, err
		}
		t, err := topic.Parse(topicStr)
		if err != nil {
			return nil, err
		}
		recent = append(recent, t)
	}
	return recent, rows.Err()
}

// InteractionAggregates groups interactions by topic and outcome.
func (s *sqliteStore) InteractionAggregates(ctx context.Context) ([]store.TopicOutcomeCount, error) {
	const query = `
SELECT c.topic, i.outcome, COUNT(*)
FROM interactions i
JOIN content c ON i.content_id = c.id
GROUP BY c.topic, i.outcome;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggs []store.TopicOutcomeCount
	for rows.Next() {
		var (
			topicStr   string
			outcomeStr string
			n          int64
		)
		if err := rows.Scan(&topicStr, &outcomeStr, &n); err != nil {
			return nil, err
		}
		t, err := topic.Parse(topicStr)
		if err != nil {
			return nil, err
		}
		aggs = append(aggs, store.TopicOutcomeCount{
			Topic:   t,
			Outcome: content.Outcome(outcomeStr),
			Count:   n,
		})
	}
	return aggs, rows.Err()
}

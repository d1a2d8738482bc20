package videoshelf

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/videoshelf/content"
)

// ErrNotFound is returned when a requested node does not exist.
var ErrNotFound = errors.New("videoshelf: node not found")

// Store is the SQLite index of content nodes. The content directory is the
// source of truth; the index is replaced wholesale on every sync.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while a sync writes; busy_timeout makes the
	// writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	if path == ":memory:" {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS nodes (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    speaker TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    thumbnail TEXT NOT NULL DEFAULT '',
    duration TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',',
    draft INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL,
    raw TEXT NOT NULL,
    position INTEGER NOT NULL,
    synced_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS nodes_type_position ON nodes (type, position);
`)
	return err
}

const nodeColumns = `id, path, type, title, date, summary, speaker, url, thumbnail, duration, tags, draft, body, raw`

// ReplaceAll swaps the whole index for nodes in one transaction. Node order
// in the slice becomes the store order.
func (s *Store) ReplaceAll(ctx context.Context, nodes []content.Node) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (`+nodeColumns+`, position, synced_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, n := range nodes {
		fm := n.Frontmatter
		draft := 0
		if fm.Draft {
			draft = 1
		}
		if _, err := stmt.ExecContext(ctx,
			n.ID, n.Path, fm.Type, fm.Title, fm.Date, fm.Summary, fm.Speaker, fm.URL,
			fm.Thumbnail, fm.Duration, joinTags(fm.Tags), draft, n.Body, n.Raw, i, now,
		); err != nil {
			return fmt.Errorf("videoshelf: index %s: %w", n.Path, err)
		}
	}
	return tx.Commit()
}

// Query returns nodes matching q in store order.
func (s *Store) Query(ctx context.Context, q Query) ([]content.Node, error) {
	var where []string
	var args []interface{}
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, strings.ToLower(q.Type))
	}
	if !q.IncludeDrafts {
		where = append(where, "draft = 0")
	}
	stmt := `SELECT ` + nodeColumns + ` FROM nodes`
	if len(where) > 0 {
		stmt += ` WHERE ` + strings.Join(where, " AND ")
	}
	stmt += ` ORDER BY position`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := []content.Node{}
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// ListAll returns every indexed node, drafts included, in store order.
func (s *Store) ListAll(ctx context.Context) ([]content.Node, error) {
	return s.Query(ctx, Query{IncludeDrafts: true})
}

// GetNode returns a single node by id.
func (s *Store) GetNode(ctx context.Context, id string) (content.Node, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Node{}, ErrNotFound
	}
	return n, err
}

// Count returns the number of indexed nodes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM nodes`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNode(r rowScanner) (content.Node, error) {
	var n content.Node
	var tags string
	var draft int
	fm := &n.Frontmatter
	if err := r.Scan(&n.ID, &n.Path, &fm.Type, &fm.Title, &fm.Date, &fm.Summary, &fm.Speaker,
		&fm.URL, &fm.Thumbnail, &fm.Duration, &tags, &draft, &n.Body, &n.Raw); err != nil {
		return content.Node{}, err
	}
	fm.Tags = ParseTags(tags)
	fm.Draft = draft == 1
	return n, nil
}

func joinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/tessellate-ai/ragpipe/internal/pkg/errs"
)

// pgvectorStore keeps every collection in a single table, partitioned by
// the collection column. The vector column width is fixed at table creation
// and must match the embedding provider's output.
type pgvectorStore struct {
	db    *sqlx.DB
	table string
}

type pgvectorConfig struct {
	DSN   string `json:"dsn"`
	Table string `json:"table"`
}

func init() {
	Register("pgvector", createPgvectorStore)
}

func createPgvectorStore(args interface{}) (Store, error) {
	cfg := &pgvectorConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector dsn is required")
	}
	if cfg.Table == "" {
		cfg.Table = "rag_points"
	}
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &pgvectorStore{db: db, table: cfg.Table}, nil
}

func (s *pgvectorStore) EnsureCollection(ctx context.Context, name string, dim int) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIndexUnavailable, err)
	}
	// IF NOT EXISTS makes concurrent ensure calls race-free; the schema is
	// shared across collections so per-name creation is a row-level no-op.
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			payload JSONB NOT NULL
		)`, s.table, dim),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_collection_idx ON %s (collection)`, s.table, s.table),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure collection %s: %w", name, err)
		}
	}
	return nil
}

func (s *pgvectorStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`INSERT INTO %s (id, collection, embedding, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET embedding = $3, payload = $4`, s.table)
	for _, p := range points {
		payload, err := json.Marshal(p.Payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		if _, err := tx.ExecContext(ctx, stmt, p.ID, collection, pgvector.NewVector(p.Vector), payload); err != nil {
			return fmt.Errorf("insert point %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *pgvectorStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]SearchResult, error) {
	stmt := fmt.Sprintf(`SELECT id, payload, 1 - (embedding <=> $1) AS score
		FROM %s WHERE collection = $2
		ORDER BY embedding <=> $1 LIMIT $3`, s.table)
	rows, err := s.db.QueryxContext(ctx, stmt, pgvector.NewVector(vector), collection, limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var (
			id      string
			payload []byte
			score   float64
		)
		if err := rows.Scan(&id, &payload, &score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		result := SearchResult{ID: id, Score: float32(score)}
		if err := json.Unmarshal(payload, &result.Payload); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

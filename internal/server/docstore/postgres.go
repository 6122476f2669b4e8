package docstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ndenisov/showcase/internal/common"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore keeps every document in a single JSONB-backed table keyed by
// (tbl, id). It is a drop-in alternative to the DynamoDB backend for
// deployments without AWS access.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a pgx-backed connection pool and runs the embedded
// schema migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(ctx context.Context, table, id string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE tbl = $1 AND id = $2`, table, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) Put(ctx context.Context, table, id string, doc []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (tbl, id, doc) VALUES ($1, $2, $3)
		 ON CONFLICT (tbl, id) DO UPDATE SET doc = EXCLUDED.doc`, table, id, doc)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) PutIfAbsent(ctx context.Context, table, id string, doc []byte) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (tbl, id, doc) VALUES ($1, $2, $3)
		 ON CONFLICT (tbl, id) DO NOTHING`, table, id, doc)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, table, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE tbl = $1 AND id = $2`, table, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *PostgresStore) Scan(ctx context.Context, table string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM documents WHERE tbl = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return docs, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

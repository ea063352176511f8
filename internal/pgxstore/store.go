// Package pgxstore serves the same read contract as the gorm repositories
// straight from a pgx connection pool.
package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/d60-Lab/country-posts/internal/model"
	"github.com/d60-Lab/country-posts/internal/relation"
	"github.com/d60-Lab/country-posts/internal/repository"
)

var postColumns = []string{"id", "user_id", "title", "body", "created_at", "updated_at"}

var (
	findCountrySQL      = "SELECT id, name, created_at, updated_at FROM countries WHERE id = $1"
	listCountryPostsSQL = relation.CountryPosts.SQL("$1", postColumns...)
)

// querier 由 *pgxpool.Pool 和 pgx.Tx 实现
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool 由 *pgxpool.Pool 实现
type Pool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type Store struct {
	pool Pool
}

func NewStore(pool Pool) *Store { return &Store{pool: pool} }

var (
	_ Pool                 = (*pgxpool.Pool)(nil)
	_ repository.ReadStore = (*Store)(nil)
)

func (s *Store) ReadTx(ctx context.Context, fn func(repository.Readers) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin read tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repository.Readers{Countries: countryReader{q: tx}, Posts: postReader{q: tx}}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

type countryReader struct{ q querier }

func (r countryReader) FindByID(ctx context.Context, id uint64) (*model.Country, error) {
	var (
		c                    model.Country
		name                 pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	err := r.q.QueryRow(ctx, findCountrySQL, int64(id)).Scan(&c.ID, &name, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrCountryNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Name = name.String
	c.CreatedAt, c.UpdatedAt = createdAt.Time, updatedAt.Time
	return &c, nil
}

type postReader struct{ q querier }

func (r postReader) ListByCountry(ctx context.Context, countryID uint64) ([]*model.Post, error) {
	rows, err := r.q.Query(ctx, listCountryPostsSQL, int64(countryID))
	if err != nil {
		return nil, err
	}
	res, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = make([]*model.Post, 0)
	}
	return res, nil
}

// scanPost NULL 列取零值，与 gorm 后端一致
func scanPost(row pgx.CollectableRow) (*model.Post, error) {
	var (
		p                    model.Post
		title, body          pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&p.ID, &p.UserID, &title, &body, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Title, p.Body = title.String, body.String
	p.CreatedAt, p.UpdatedAt = createdAt.Time, updatedAt.Time
	return &p, nil
}

package pgxstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/country-posts/internal/model"
	"github.com/d60-Lab/country-posts/internal/repository"
)

func TestStatements(t *testing.T) {
	assert.Equal(t,
		"SELECT posts.id, posts.user_id, posts.title, posts.body, posts.created_at, posts.updated_at FROM posts "+
			"INNER JOIN users ON posts.user_id = users.id WHERE users.country_id = $1 ORDER BY posts.id ASC",
		listCountryPostsSQL)
	assert.Contains(t, findCountrySQL, "WHERE id = $1")
}

// fakeRows 以文本格式保存列值，经 pgtype.Map 解码，NULL 处理与连接上一致
type fakeRows struct {
	pgx.Rows
	m    *pgtype.Map
	oids []uint32
	data [][][]byte
	pos  int
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := r.m.Scan(r.oids[i], pgtype.TextFormatCode, row[i], d); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

type fakeRow struct {
	rows *fakeRows
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if !r.rows.Next() {
		return pgx.ErrNoRows
	}
	return r.rows.Scan(dest...)
}

type fakeTx struct {
	pgx.Tx
	db         *fakeDB
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	return tx.db.query(sql, args)
}

func (tx *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	rows, err := tx.db.query(sql, args)
	return fakeRow{rows: rows, err: err}
}

func (tx *fakeTx) Commit(context.Context) error {
	if tx.committed || tx.rolledBack {
		return pgx.ErrTxClosed
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.committed || tx.rolledBack {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

var (
	countryOIDs = []uint32{pgtype.Int8OID, pgtype.VarcharOID, pgtype.TimestamptzOID, pgtype.TimestamptzOID}
	postOIDs    = []uint32{pgtype.Int8OID, pgtype.Int8OID, pgtype.VarcharOID, pgtype.TextOID, pgtype.TimestamptzOID, pgtype.TimestamptzOID}
)

// fakeDB 按 country_id 返回预置行
type fakeDB struct {
	m         *pgtype.Map
	countries map[int64][][]byte
	posts     map[int64][][][]byte
	queryErr  error
	beginErr  error
	pingErr   error

	txOpts pgx.TxOptions
	tx     *fakeTx
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		m:         pgtype.NewMap(),
		countries: make(map[int64][][]byte),
		posts:     make(map[int64][][][]byte),
	}
}

func (db *fakeDB) query(sql string, args []any) (*fakeRows, error) {
	if db.queryErr != nil {
		return nil, db.queryErr
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("expected 1 arg, got %d", len(args))
	}
	id, ok := args[0].(int64)
	if !ok {
		return nil, fmt.Errorf("expected int64 arg, got %T", args[0])
	}
	switch sql {
	case findCountrySQL:
		rows := &fakeRows{m: db.m, oids: countryOIDs}
		if c, ok := db.countries[id]; ok {
			rows.data = [][][]byte{c}
		}
		return rows, nil
	case listCountryPostsSQL:
		return &fakeRows{m: db.m, oids: postOIDs, data: db.posts[id]}, nil
	}
	return nil, fmt.Errorf("unexpected sql %q", sql)
}

func (db *fakeDB) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	db.txOpts = opts
	db.tx = &fakeTx{db: db}
	return db.tx, nil
}

func (db *fakeDB) Ping(context.Context) error { return db.pingErr }

func val(s string) []byte { return []byte(s) }

const ts = "2024-03-01 12:00:00+00"

func resolve(t *testing.T, db *fakeDB, countryID uint64) (*model.Country, []*model.Post, error) {
	t.Helper()
	var (
		country *model.Country
		posts   []*model.Post
	)
	err := NewStore(db).ReadTx(context.Background(), func(r repository.Readers) error {
		var err error
		if country, err = r.Countries.FindByID(context.Background(), countryID); err != nil {
			return err
		}
		posts, err = r.Posts.ListByCountry(context.Background(), countryID)
		return err
	})
	return country, posts, err
}

func TestReadTx_CountryAndPosts(t *testing.T) {
	db := newFakeDB()
	db.countries[1] = [][]byte{val("1"), val("Japan"), val(ts), val(ts)}
	db.posts[1] = [][][]byte{
		{val("100"), val("10"), val("hello"), val("first"), val(ts), val(ts)},
		{val("103"), val("10"), val("kyoto"), val("third"), val(ts), val(ts)},
	}

	country, posts, err := resolve(t, db, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), country.ID)
	assert.Equal(t, "Japan", country.Name)
	assert.True(t, country.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	require.Len(t, posts, 2)
	assert.Equal(t, uint64(100), posts[0].ID)
	assert.Equal(t, uint64(10), posts[0].UserID)
	assert.Equal(t, "hello", posts[0].Title)
	assert.Equal(t, uint64(103), posts[1].ID)

	assert.Equal(t, pgx.ReadOnly, db.txOpts.AccessMode)
	assert.True(t, db.tx.committed)
}

func TestListByCountry_NullColumnsAreZeroValues(t *testing.T) {
	db := newFakeDB()
	db.countries[1] = [][]byte{val("1"), nil, nil, nil}
	db.posts[1] = [][][]byte{
		{val("100"), val("10"), val("hello"), val("first"), val(ts), val(ts)},
		{val("200"), val("10"), nil, nil, nil, nil},
	}

	country, posts, err := resolve(t, db, 1)
	require.NoError(t, err)
	assert.Empty(t, country.Name)

	require.Len(t, posts, 2)
	assert.Equal(t, uint64(200), posts[1].ID)
	assert.Empty(t, posts[1].Title)
	assert.Empty(t, posts[1].Body)
	assert.True(t, posts[1].CreatedAt.IsZero())
	assert.True(t, db.tx.committed)
}

func TestNullIntoString_FailsWithoutPgtype(t *testing.T) {
	var s string
	err := pgtype.NewMap().Scan(pgtype.TextOID, pgtype.TextFormatCode, nil, &s)
	assert.Error(t, err)
}

func TestFindByID_NotFound(t *testing.T) {
	db := newFakeDB()

	_, _, err := resolve(t, db, 404)
	assert.ErrorIs(t, err, repository.ErrCountryNotFound)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestListByCountry_EmptyIsNonNil(t *testing.T) {
	db := newFakeDB()
	db.countries[3] = [][]byte{val("3"), val("Iceland"), val(ts), val(ts)}

	_, posts, err := resolve(t, db, 3)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestReadTx_Errors(t *testing.T) {
	cause := errors.New("connection reset")

	db := newFakeDB()
	db.beginErr = cause
	_, _, err := resolve(t, db, 1)
	assert.ErrorIs(t, err, cause)

	db = newFakeDB()
	db.queryErr = cause
	_, _, err = resolve(t, db, 1)
	assert.ErrorIs(t, err, cause)
	assert.True(t, db.tx.rolledBack)
}

func TestPing(t *testing.T) {
	db := newFakeDB()
	assert.NoError(t, NewStore(db).Ping(context.Background()))

	db.pingErr = errors.New("down")
	assert.Error(t, NewStore(db).Ping(context.Background()))
}

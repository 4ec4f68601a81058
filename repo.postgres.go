package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// price goes through text on both ways so the decimal keeps its exact scale.
const (
	pgListBooks   = `SELECT id, title, author, price::text FROM books ORDER BY id`
	pgGetBook     = `SELECT id, title, author, price::text FROM books WHERE id = $1`
	pgInsertBook  = `INSERT INTO books (title, author, price) VALUES ($1, $2, $3::text::numeric) RETURNING id, title, author, price::text`
	pgReplaceBook = `UPDATE books SET title = $2, author = $3, price = $4::text::numeric WHERE id = $1 RETURNING id, title, author, price::text`
	pgDeleteBook  = `DELETE FROM books WHERE id = $1`
)

type postgresBookStorage struct {
	logger  *zap.Logger
	pool    *pgxpool.Pool
	timeout time.Duration
}

// GetPostgresPool opens a connection pool and makes sure the server answers.
func GetPostgresPool(ctx context.Context, config *PostgresConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	if config.MaxConns > 0 {
		cfg.MaxConns = config.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, config.PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return pool, nil
}

// NewPostgresBookStorage provides an instance of postgres-based book storage.
func NewPostgresBookStorage(logger *zap.Logger, pool *pgxpool.Pool, timeout time.Duration) BookStorage {
	return &postgresBookStorage{logger: logger, pool: pool, timeout: timeout}
}

func (ps *postgresBookStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, ps.timeout)
}

func scanBook(row pgx.Row) (Book, error) {
	var book Book
	var price string
	if err := row.Scan(&book.ID, &book.Title, &book.Author, &price); err != nil {
		return Book{}, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return Book{}, fmt.Errorf("parsing price %q: %w", price, err)
	}
	book.Price = p
	return book, nil
}

// Close releases all pool connections.
func (ps *postgresBookStorage) Close() error {
	ps.pool.Close()
	return nil
}

// List returns all books ordered by id.
func (ps *postgresBookStorage) List(ctx context.Context) ([]Book, error) {
	ctx, cancel := ps.withTimeout(ctx)
	defer cancel()

	rows, err := ps.pool.Query(ctx, pgListBooks)
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}
	defer rows.Close()

	books := []Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("listing books from db: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}
	return books, nil
}

// GetByID searches a book based on its id.
func (ps *postgresBookStorage) GetByID(ctx context.Context, id int64) (Book, error) {
	ctx, cancel := ps.withTimeout(ctx)
	defer cancel()

	book, err := scanBook(ps.pool.QueryRow(ctx, pgGetBook, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	return book, nil
}

// Create stores the book and lets the database assign its id.
func (ps *postgresBookStorage) Create(ctx context.Context, book Book) (Book, error) {
	ctx, cancel := ps.withTimeout(ctx)
	defer cancel()

	created, err := scanBook(ps.pool.QueryRow(ctx, pgInsertBook, book.Title, book.Author, book.Price.String()))
	if err != nil {
		return Book{}, fmt.Errorf("storing book on db: %w", err)
	}
	return created, nil
}

// Replace overwrites all columns of an existing book.
func (ps *postgresBookStorage) Replace(ctx context.Context, book Book) (Book, error) {
	ctx, cancel := ps.withTimeout(ctx)
	defer cancel()

	updated, err := scanBook(ps.pool.QueryRow(ctx, pgReplaceBook, book.ID, book.Title, book.Author, book.Price.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrBookNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("replacing book on db: %w", err)
	}
	return updated, nil
}

// DeleteByID removes the book row and reports if one was affected.
func (ps *postgresBookStorage) DeleteByID(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := ps.withTimeout(ctx)
	defer cancel()

	tag, err := ps.pool.Exec(ctx, pgDeleteBook, id)
	if err != nil {
		return false, fmt.Errorf("deleting book on db: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

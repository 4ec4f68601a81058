package main

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrInvalidBookID = errors.New("book id must be a positive integer")
)

func init() {
	// prices travel as bare json numbers (9.99) instead of strings ("9.99").
	decimal.MarshalJSONWithoutQuotes = true
}

// Book represents a book entity. The ID is assigned by the
// storage on creation and never changes afterwards.
type Book struct {
	ID     int64           `json:"id,omitempty"`
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Price  decimal.Decimal `json:"price"`
}

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	// List returns all stored books. Order is backend-specific.
	List(ctx context.Context) ([]Book, error)
	// GetByID returns ErrBookNotFound when no book has that id.
	GetByID(ctx context.Context, id int64) (Book, error)
	// Create inserts the book under a newly assigned id and returns it.
	Create(ctx context.Context, book Book) (Book, error)
	// Replace overwrites every field of an existing book. It returns
	// ErrBookNotFound instead of inserting when the id is unknown.
	Replace(ctx context.Context, book Book) (Book, error)
	// DeleteByID reports whether a book existed. Missing ids are not an error.
	DeleteByID(ctx context.Context, id int64) (bool, error)
	Close() error
}

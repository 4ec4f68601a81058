package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type BookServiceProvider interface {
	GetAllBooks(ctx context.Context) ([]Book, error)
	GetBookByID(ctx context.Context, id int64) (Book, error)
	SaveBook(ctx context.Context, book Book) (Book, error)
	UpdateBook(ctx context.Context, id int64, updated Book) (Book, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)
}

type BookService struct {
	logger  *zap.Logger
	storage BookStorage
}

func NewBookService(logger *zap.Logger, storage BookStorage) BookServiceProvider {
	return &BookService{
		logger:  logger,
		storage: storage,
	}
}

func (bs *BookService) GetAllBooks(ctx context.Context) ([]Book, error) {
	books, err := bs.storage.List(ctx)
	if err != nil {
		bs.logger.Error("service: failed to list books", zap.Error(err))
	}
	return books, err
}

// GetBookByID returns ErrBookNotFound when the book does not exist.
func (bs *BookService) GetBookByID(ctx context.Context, id int64) (Book, error) {
	book, err := bs.storage.GetByID(ctx, id)
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		bs.logger.Error("service: failed to get book", zap.Int64("book.id", id), zap.Error(err))
	}
	return book, err
}

// SaveBook creates a new book. Any identifier provided by
// the caller is dropped so the storage assigns a fresh one.
func (bs *BookService) SaveBook(ctx context.Context, book Book) (Book, error) {
	book.ID = 0
	created, err := bs.storage.Create(ctx, book)
	if err != nil {
		bs.logger.Error("service: failed to create book", zap.Error(err))
	}
	return created, err
}

// UpdateBook copies title, author and price from updated onto the stored
// book then persists it. The stored identifier is kept.
func (bs *BookService) UpdateBook(ctx context.Context, id int64, updated Book) (Book, error) {
	book, err := bs.storage.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrBookNotFound) {
			bs.logger.Error("service: failed to fetch book to update", zap.Int64("book.id", id), zap.Error(err))
		}
		return Book{}, err
	}

	book.Title = updated.Title
	book.Author = updated.Author
	book.Price = updated.Price

	book, err = bs.storage.Replace(ctx, book)
	if err != nil && !errors.Is(err, ErrBookNotFound) {
		bs.logger.Error("service: failed to update book", zap.Int64("book.id", id), zap.Error(err))
	}
	return book, err
}

// DeleteBook removes the book without checking its existence first.
// The boolean result tells whether there was something to delete.
func (bs *BookService) DeleteBook(ctx context.Context, id int64) (bool, error) {
	existed, err := bs.storage.DeleteByID(ctx, id)
	if err != nil {
		bs.logger.Error("service: failed to delete book", zap.Int64("book.id", id), zap.Error(err))
	}
	return existed, err
}

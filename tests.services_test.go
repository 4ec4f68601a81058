package main

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookService_SaveBook(t *testing.T) {
	var received Book
	bs := NewBookService(zap.NewNop(), &MockBookStorage{
		CreateFunc: func(ctx context.Context, book Book) (Book, error) {
			received = book
			book.ID = 1
			return book, nil
		},
	})

	book, err := bs.SaveBook(context.Background(), Book{ID: 99, Title: "T", Author: "A", Price: decimal.NewFromInt(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), received.ID)
	assert.Equal(t, int64(1), book.ID)
	assert.Equal(t, "T", book.Title)
}

func TestBookService_UpdateBook(t *testing.T) {
	stored := Book{ID: 5, Title: "Old", Author: "Old", Price: decimal.NewFromInt(1)}

	t.Run("should pass: copies fields and keeps id", func(t *testing.T) {
		var replaced Book
		bs := NewBookService(zap.NewNop(), &MockBookStorage{
			GetByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return stored, nil
			},
			ReplaceFunc: func(ctx context.Context, book Book) (Book, error) {
				replaced = book
				return book, nil
			},
		})
		book, err := bs.UpdateBook(context.Background(), 5, Book{ID: 77, Title: "New", Author: "Someone", Price: decimal.RequireFromString("4.2")})
		require.NoError(t, err)
		assert.Equal(t, int64(5), book.ID)
		assert.Equal(t, int64(5), replaced.ID)
		assert.Equal(t, "New", replaced.Title)
		assert.Equal(t, "Someone", replaced.Author)
		assert.True(t, decimal.RequireFromString("4.2").Equal(replaced.Price))
	})

	t.Run("should fail: missing book is not replaced", func(t *testing.T) {
		var replaceCalled bool
		bs := NewBookService(zap.NewNop(), &MockBookStorage{
			GetByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return Book{}, ErrBookNotFound
			},
			ReplaceFunc: func(ctx context.Context, book Book) (Book, error) {
				replaceCalled = true
				return book, nil
			},
		})
		_, err := bs.UpdateBook(context.Background(), 9999, Book{Title: "x"})
		assert.ErrorIs(t, err, ErrBookNotFound)
		assert.False(t, replaceCalled)
	})

	t.Run("should fail: replace failure", func(t *testing.T) {
		bs := NewBookService(zap.NewNop(), &MockBookStorage{
			GetByIDFunc: func(ctx context.Context, id int64) (Book, error) {
				return stored, nil
			},
			ReplaceFunc: func(ctx context.Context, book Book) (Book, error) {
				return Book{}, errors.New("storage failure")
			},
		})
		_, err := bs.UpdateBook(context.Background(), 5, Book{Title: "x"})
		assert.EqualError(t, err, "storage failure")
	})
}

func TestBookService_DeleteBook(t *testing.T) {
	var getCalled bool
	bs := NewBookService(zap.NewNop(), &MockBookStorage{
		GetByIDFunc: func(ctx context.Context, id int64) (Book, error) {
			getCalled = true
			return Book{}, nil
		},
		DeleteByIDFunc: func(ctx context.Context, id int64) (bool, error) {
			return id == 1, nil
		},
	})

	existed, err := bs.DeleteBook(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = bs.DeleteBook(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.False(t, getCalled)
}

func TestBookService_GetBooks(t *testing.T) {
	bs := NewBookService(zap.NewNop(), &MockBookStorage{
		ListFunc: func(ctx context.Context) ([]Book, error) {
			return []Book{{ID: 1}, {ID: 2}}, nil
		},
		GetByIDFunc: func(ctx context.Context, id int64) (Book, error) {
			if id == 1 {
				return Book{ID: 1}, nil
			}
			return Book{}, ErrBookNotFound
		},
	})

	books, err := bs.GetAllBooks(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 2)

	book, err := bs.GetBookByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), book.ID)

	_, err = bs.GetBookByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

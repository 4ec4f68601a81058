package main

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-memdb"
	"go.uber.org/zap"
)

const memoryBooksTable = "books"

type memoryBookStorage struct {
	logger *zap.Logger
	db     *memdb.MemDB
	mu     sync.Mutex
	lastID int64
}

// NewMemoryBookStorage provides an instance of in-memory book storage.
// Its content does not survive a restart.
func NewMemoryBookStorage(logger *zap.Logger) (BookStorage, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memoryBooksTable: {
				Name: memoryBooksTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &memoryBookStorage{logger: logger, db: db}, nil
}

// Close is a no-op. It exists to satisfy BookStorage.
func (ms *memoryBookStorage) Close() error {
	return nil
}

// List retrieves all books sorted by id.
func (ms *memoryBookStorage) List(_ context.Context) ([]Book, error) {
	txn := ms.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memoryBooksTable, "id")
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	books := []Book{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		books = append(books, *obj.(*Book))
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

// GetByID retrieves a book record based on its ID.
func (ms *memoryBookStorage) GetByID(_ context.Context, id int64) (Book, error) {
	txn := ms.db.Txn(false)
	defer txn.Abort()

	obj, err := txn.First(memoryBooksTable, "id", id)
	if err != nil {
		return Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	if obj == nil {
		return Book{}, ErrBookNotFound
	}
	return *obj.(*Book), nil
}

// Create inserts a new book record under the next available id.
func (ms *memoryBookStorage) Create(_ context.Context, book Book) (Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	book.ID = ms.lastID + 1
	txn := ms.db.Txn(true)
	defer txn.Abort()
	record := book
	if err := txn.Insert(memoryBooksTable, &record); err != nil {
		return Book{}, fmt.Errorf("storing book: %w", err)
	}
	txn.Commit()
	ms.lastID = book.ID
	return book, nil
}

// Replace overwrites an existing book record.
func (ms *memoryBookStorage) Replace(_ context.Context, book Book) (Book, error) {
	txn := ms.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(memoryBooksTable, "id", book.ID)
	if err != nil {
		return Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	if existing == nil {
		return Book{}, ErrBookNotFound
	}

	record := book
	if err := txn.Insert(memoryBooksTable, &record); err != nil {
		return Book{}, fmt.Errorf("replacing book: %w", err)
	}
	txn.Commit()
	return book, nil
}

// DeleteByID removes a book record and reports if it existed.
func (ms *memoryBookStorage) DeleteByID(_ context.Context, id int64) (bool, error) {
	txn := ms.db.Txn(true)
	defer txn.Abort()

	n, err := txn.DeleteAll(memoryBooksTable, "id", id)
	if err != nil {
		return false, fmt.Errorf("deleting book: %w", err)
	}
	txn.Commit()
	return n > 0, nil
}

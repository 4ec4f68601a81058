package main

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	ListFunc       func(ctx context.Context) ([]Book, error)
	GetByIDFunc    func(ctx context.Context, id int64) (Book, error)
	CreateFunc     func(ctx context.Context, book Book) (Book, error)
	ReplaceFunc    func(ctx context.Context, book Book) (Book, error)
	DeleteByIDFunc func(ctx context.Context, id int64) (bool, error)
}

// List mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) List(ctx context.Context) ([]Book, error) {
	return m.ListFunc(ctx)
}

// GetByID mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetByID(ctx context.Context, id int64) (Book, error) {
	return m.GetByIDFunc(ctx, id)
}

// Create mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Create(ctx context.Context, book Book) (Book, error) {
	return m.CreateFunc(ctx, book)
}

// Replace mocks the behavior of overwriting a book by the repository.
func (m *MockBookStorage) Replace(ctx context.Context, book Book) (Book, error) {
	return m.ReplaceFunc(ctx, book)
}

// DeleteByID mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) DeleteByID(ctx context.Context, id int64) (bool, error) {
	return m.DeleteByIDFunc(ctx, id)
}

func (m *MockBookStorage) Close() error {
	return nil
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable request id to be used as mock.
func (muid *MockUIDHandler) Generate() string {
	return RequestIDPrefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_ string) bool {
	return muid.Valid
}

// newTestAPIHandler builds an api handler on top of the given storage with
// mocked clock and ids. A nil config is replaced by an empty one.
func newTestAPIHandler(config *Config, storage BookStorage) *APIHandler {
	if config == nil {
		config = &Config{}
	}
	bs := NewBookService(zap.NewNop(), storage)
	return NewAPIHandler(
		zap.NewNop(),
		config,
		&Statistics{started: NewMockClocker().Now()},
		NewMockClocker(),
		NewMockUIDHandler("abc", false),
		bs,
	)
}

package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HBooks      string = "books"
	BooksSeqKey string = "books:seq"
)

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Host, config.Port),
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolSize:     config.PoolSize,
		PoolTimeout:  config.PoolTimeout,
		Password:     config.Password,
		Username:     config.Username,
		DB:           config.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		client.Close()
		return nil, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

func redisField(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Close shuts down the underlying redis client.
func (rs *redisBookStorage) Close() error {
	return rs.client.Close()
}

// List retrieves a list of all books stored in the redis database.
func (rs *redisBookStorage) List(ctx context.Context) ([]Book, error) {
	mapBooks, err := rs.client.HVals(ctx, HBooks).Result()
	if err != nil {
		return nil, err
	}
	books := []Book{}
	for _, bookJSONString := range mapBooks {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

// GetByID retrieves a book record based on its ID.
func (rs *redisBookStorage) GetByID(ctx context.Context, id int64) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, redisField(id)).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// Create inserts a new book record. The identifier comes from an atomic
// counter so it is never handed out twice.
func (rs *redisBookStorage) Create(ctx context.Context, book Book) (Book, error) {
	id, err := rs.client.Incr(ctx, BooksSeqKey).Result()
	if err != nil {
		return Book{}, fmt.Errorf("failed to generate book id: %w", err)
	}
	book.ID = id
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	if err = rs.client.HSet(ctx, HBooks, redisField(id), bookBytes).Err(); err != nil {
		return Book{}, err
	}
	return book, nil
}

// replaceBookScript writes ARGV[2] under field ARGV[1] of hash KEYS[1]
// only when that field already exists. It returns 1 on write, 0 otherwise.
var replaceBookScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
	redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
	return 1
end
return 0
`)

// Replace overwrites an existing book record. The existence check and the
// write run as one script, so a concurrent delete is never undone while
// writes on other books do not interfere.
func (rs *redisBookStorage) Replace(ctx context.Context, book Book) (Book, error) {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return Book{}, err
	}
	written, err := replaceBookScript.Run(ctx, rs.client, []string{HBooks}, redisField(book.ID), string(bookBytes)).Int64()
	if err != nil {
		return Book{}, fmt.Errorf("replacing book %d: %w", book.ID, err)
	}
	if written == 0 {
		rs.logger.Debug("redis: book to replace does not exist", zap.Int64("book.id", book.ID))
		return Book{}, ErrBookNotFound
	}
	return book, nil
}

// DeleteByID removes a book record based on its ID.
func (rs *redisBookStorage) DeleteByID(ctx context.Context, id int64) (bool, error) {
	n, err := rs.client.HDel(ctx, HBooks, redisField(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

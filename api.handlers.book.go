package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const bookDeletedMessage = "Book deleted successfully!"

// BookExistedHeader reports on delete whether there was a book to remove.
const BookExistedHeader = "X-Book-Existed"

// nullOnMissing tells if a missing book should be answered with
// a 200 and a `null` body instead of a 404 error.
func (api *APIHandler) nullOnMissing() bool {
	return api.config != nil && api.config.API.NullOnMissing
}

func (api *APIHandler) maxBodyBytes() int64 {
	if api.config == nil || api.config.API.MaxBodyBytes <= 0 {
		return 1 << 20
	}
	return api.config.API.MaxBodyBytes
}

// GetAllBooks godoc
// @Summary      List books
// @Tags         books
// @Produce      json
// @Success      200  {array}   Book
// @Failure      500  {object}  APIError
// @Router       /api.books [get]
func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	books, err := api.bookService.GetAllBooks(r.Context())
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to get all books", EmptyData, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	logger.Info("success to get all books", zap.Int("books.total", len(books)))
	if err = WriteJSONResponse(r.Context(), w, http.StatusOK, books); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// GetOneBook godoc
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  Book
// @Failure      400  {object}  APIError
// @Failure      404  {object}  APIError
// @Failure      500  {object}  APIError
// @Router       /api.books/{id} [get]
func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	id, err := ParseBookID(ps.ByName("id"))
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", ps.ByName("id"), err)
		return
	}
	logger = logger.With(zap.Int64("book.id", id))

	book, err := api.bookService.GetBookByID(r.Context(), id)
	if errors.Is(err, ErrBookNotFound) {
		if api.nullOnMissing() {
			logger.Info("book does not exist")
			if err = WriteJSONResponse(r.Context(), w, http.StatusOK, nil); err != nil {
				logger.Error("failed to send response", zap.Error(err))
			}
			return
		}
		api.sendError(w, r, http.StatusNotFound, "book does not exist", id, err)
		return
	}
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to get the book", id, err)
		return
	}
	logger.Info("success to get book")
	if err = WriteJSONResponse(r.Context(), w, http.StatusOK, book); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// CreateBook godoc
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        book  body      Book  true  "Book to create. Any id is ignored."
// @Success      200   {object}  Book
// @Failure      400   {object}  APIError
// @Failure      413   {object}  APIError
// @Failure      500   {object}  APIError
// @Router       /api.books [post]
func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	var book Book
	if err := DecodeBookRequestBody(w, r, api.maxBodyBytes(), &book); err != nil {
		status, message := DecodeFailureStatus(err)
		api.sendError(w, r, status, message, err.Error(), err)
		return
	}

	book, err := api.bookService.SaveBook(r.Context(), book)
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to create the book", EmptyData, err)
		return
	}
	logger.Info("success to create book", zap.Int64("book.id", book.ID))
	if err = WriteJSONResponse(r.Context(), w, http.StatusOK, book); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// UpdateBook godoc
// @Summary      Update a book
// @Description  Copies title, author and price onto the stored book. The id never changes.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id    path      int   true  "Book ID"
// @Param        book  body      Book  true  "New book values"
// @Success      200   {object}  Book
// @Failure      400   {object}  APIError
// @Failure      404   {object}  APIError
// @Failure      413   {object}  APIError
// @Failure      500   {object}  APIError
// @Router       /api.books/{id} [put]
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	id, err := ParseBookID(ps.ByName("id"))
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", ps.ByName("id"), err)
		return
	}
	logger = logger.With(zap.Int64("book.id", id))

	var updated Book
	if err = DecodeBookRequestBody(w, r, api.maxBodyBytes(), &updated); err != nil {
		status, message := DecodeFailureStatus(err)
		api.sendError(w, r, status, message, err.Error(), err)
		return
	}

	book, err := api.bookService.UpdateBook(r.Context(), id, updated)
	if errors.Is(err, ErrBookNotFound) {
		if api.nullOnMissing() {
			logger.Info("book to update does not exist")
			if err = WriteJSONResponse(r.Context(), w, http.StatusOK, nil); err != nil {
				logger.Error("failed to send response", zap.Error(err))
			}
			return
		}
		api.sendError(w, r, http.StatusNotFound, "book does not exist", id, err)
		return
	}
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to update the book", id, err)
		return
	}
	logger.Info("success to update book")
	if err = WriteJSONResponse(r.Context(), w, http.StatusOK, book); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}

// DeleteOneBook godoc
// @Summary      Delete a book
// @Description  Always succeeds for a valid id. The X-Book-Existed header tells if something was removed.
// @Tags         books
// @Produce      plain
// @Param        id   path      int  true  "Book ID"
// @Success      200  {string}  string
// @Header       200  {string}  X-Book-Existed  "true or false"
// @Failure      400  {object}  APIError
// @Failure      500  {object}  APIError
// @Router       /api.books/{id} [delete]
func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	logger := api.GetLoggerFromContext(r.Context())
	id, err := ParseBookID(ps.ByName("id"))
	if err != nil {
		api.sendError(w, r, http.StatusBadRequest, "book id provided is not valid", ps.ByName("id"), err)
		return
	}
	logger = logger.With(zap.Int64("book.id", id))

	existed, err := api.bookService.DeleteBook(r.Context(), id)
	if err != nil {
		api.sendError(w, r, http.StatusInternalServerError, "failed to delete the book", id, err)
		return
	}
	logger.Info("success to delete book", zap.Bool("book.existed", existed))
	w.Header().Set(BookExistedHeader, strconv.FormatBool(existed))
	if err = WriteTextResponse(r.Context(), w, http.StatusOK, bookDeletedMessage); err != nil {
		logger.Error("failed to send response", zap.Error(err))
	}
}
